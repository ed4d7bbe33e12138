package baseline

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"baselint/internal/config"
)

// ResolveQueries expands a compatibility query list into a deduplicated list
// of {engine, version} pairs. Supported forms:
//
//	defaults
//	last N versions
//	last N <engine> versions
//	<engine> <op> <version>   (op: >=, >, <=, <, =)
//	<engine> <version>        (exact)
//
// Порядок пар стабилен: в порядке запросов, внутри запроса — в порядке таблицы
// релизов.
func ResolveQueries(queries []string) ([]Pair, error) {
	var out []Pair
	seen := make(map[Pair]struct{})
	add := func(pairs []Pair) {
		for _, p := range pairs {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	for _, q := range queries {
		pairs, err := resolveQuery(strings.ToLower(strings.TrimSpace(q)))
		if err != nil {
			return nil, errors.Wrapf(err, "query %q", q)
		}
		add(pairs)
	}
	if len(out) == 0 {
		return nil, errors.New("queries resolved to no engine versions")
	}
	return out, nil
}

func resolveQuery(q string) ([]Pair, error) {
	if q == "defaults" {
		pairs, _ := YearPairs(config.Target2024)
		return pairs, nil
	}

	fields := strings.Fields(q)
	switch {
	case len(fields) == 3 && fields[0] == "last" && fields[2] == "versions":
		n, err := parseCount(fields[1])
		if err != nil {
			return nil, err
		}
		var pairs []Pair
		for _, engine := range Engines {
			pairs = append(pairs, lastVersions(engine, n)...)
		}
		return pairs, nil

	case len(fields) == 4 && fields[0] == "last" && fields[3] == "versions":
		n, err := parseCount(fields[1])
		if err != nil {
			return nil, err
		}
		engine, ok := engineAliases[fields[2]]
		if !ok {
			return nil, errors.Newf("unknown engine %q", fields[2])
		}
		return lastVersions(engine, n), nil

	case len(fields) == 3:
		engine, ok := engineAliases[fields[0]]
		if !ok {
			return nil, errors.Newf("unknown engine %q", fields[0])
		}
		return versionRange(engine, fields[1], fields[2])

	case len(fields) == 2:
		engine, ok := engineAliases[fields[0]]
		if !ok {
			return nil, errors.Newf("unknown engine %q", fields[0])
		}
		if _, err := semver.NewVersion(fields[1]); err != nil {
			return nil, errors.Wrapf(err, "version %q", fields[1])
		}
		return []Pair{{Engine: engine, Version: fields[1]}}, nil
	}
	return nil, errors.Newf("unsupported query form")
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.Newf("bad version count %q", s)
	}
	return n, nil
}

func lastVersions(engine string, n int) []Pair {
	all := releases[engine]
	if n > len(all) {
		n = len(all)
	}
	pairs := make([]Pair, 0, n)
	for _, v := range all[:n] {
		pairs = append(pairs, Pair{Engine: engine, Version: v})
	}
	return pairs
}

func versionRange(engine, op, version string) ([]Pair, error) {
	bound, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "version %q", version)
	}
	var match func(v *semver.Version) bool
	switch op {
	case ">=":
		match = func(v *semver.Version) bool { return !v.LessThan(bound) }
	case ">":
		match = func(v *semver.Version) bool { return v.GreaterThan(bound) }
	case "<=":
		match = func(v *semver.Version) bool { return !v.GreaterThan(bound) }
	case "<":
		match = func(v *semver.Version) bool { return v.LessThan(bound) }
	case "=", "==":
		match = func(v *semver.Version) bool { return v.Equal(bound) }
	default:
		return nil, errors.Newf("unsupported operator %q", op)
	}

	var pairs []Pair
	for _, raw := range releases[engine] {
		v, vErr := semver.NewVersion(raw)
		if vErr != nil {
			continue
		}
		if match(v) {
			pairs = append(pairs, Pair{Engine: engine, Version: raw})
		}
	}
	if len(pairs) == 0 {
		return nil, errors.Newf("no %s versions match %s %s", engine, op, version)
	}
	return pairs, nil
}
