// Package config loads, validates, merges and caches user policy.
// Схема проверяется строго: фатальная ошибка загрузки перечисляет каждое
// нарушенное поле вместе с допустимыми значениями.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"baselint/internal/diag"
)

// Target selects how baseline eligibility is judged.
type Target string

const (
	Target2024   Target = "2024"
	Target2025   Target = "2025"
	TargetCustom Target = "custom"
)

// Rule is a per-feature override: severity and/or custom message.
type Rule struct {
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Config is the effective, read-only policy for one run. Built once per
// resolved config path and safe for unsynchronized concurrent reads.
type Config struct {
	Target       Target
	Browserslist []string // non-empty iff Target is custom

	DefaultSeverity diag.Severity
	FeatureSeverity map[string]string // feature id -> error|warning|info|ignore
	Rules           map[string]Rule

	Include []string
	Exclude []string

	// Path is the resolved config file, "" when built-in defaults apply.
	Path string
}

// Default returns the built-in policy: target "2024", severity "warning".
func Default() *Config {
	return &Config{
		Target:          Target2024,
		DefaultSeverity: diag.SevWarning,
		FeatureSeverity: map[string]string{},
		Rules:           map[string]Rule{},
		Include:         []string{"**/*.js", "**/*.mjs", "**/*.cjs", "**/*.jsx", "**/*.css"},
		Exclude:         []string{"**/node_modules/**", "**/dist/**", "**/build/**"},
	}
}

// fileSchema is the raw JSON layout of a configuration document.
type fileSchema struct {
	Baseline *struct {
		Target       string   `json:"target"`
		Browserslist []string `json:"browserslist"`
	} `json:"baseline"`
	Severity *struct {
		Default  string            `json:"default"`
		Features map[string]string `json:"features"`
	} `json:"severity"`
	Include []string        `json:"include"`
	Exclude []string        `json:"exclude"`
	Rules   map[string]Rule `json:"rules"`
}

var (
	validTargets    = []string{"2024", "2025", "custom"}
	validSeverities = []string{"error", "warning", "info"}
	validOverrides  = []string{"error", "warning", "info", "ignore"}
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// parse validates a raw document and merges it over the built-in defaults.
// Every schema violation is collected; a non-empty list is a fatal error.
func parse(data []byte, path string) (*Config, error) {
	var raw fileSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	var violations []string
	bad := func(field, got string, allowed []string) {
		quoted := make([]string, len(allowed))
		for i, a := range allowed {
			quoted[i] = strconv.Quote(a)
		}
		violations = append(violations,
			fmt.Sprintf("%s: %q (allowed: %s)", field, got, strings.Join(quoted, ", ")))
	}

	cfg := Default()
	cfg.Path = path

	if raw.Baseline != nil {
		if raw.Baseline.Target != "" {
			if !oneOf(raw.Baseline.Target, validTargets) {
				bad("baseline.target", raw.Baseline.Target, validTargets)
			} else {
				cfg.Target = Target(raw.Baseline.Target)
			}
		}
		cfg.Browserslist = raw.Baseline.Browserslist
	}
	if cfg.Target == TargetCustom && len(cfg.Browserslist) == 0 {
		violations = append(violations,
			"baseline.browserslist: empty (a custom target requires a non-empty query list)")
	}
	if cfg.Target != TargetCustom && len(cfg.Browserslist) > 0 {
		violations = append(violations,
			"baseline.browserslist: set (only allowed when baseline.target is \"custom\")")
	}

	if raw.Severity != nil {
		if raw.Severity.Default != "" {
			if sev, err := diag.ParseSeverity(raw.Severity.Default); err != nil {
				bad("severity.default", raw.Severity.Default, validSeverities)
			} else {
				cfg.DefaultSeverity = sev
			}
		}
		for feature, value := range raw.Severity.Features {
			if !oneOf(value, validOverrides) {
				bad("severity.features."+feature, value, validOverrides)
				continue
			}
			cfg.FeatureSeverity[feature] = value
		}
	}

	for feature, rule := range raw.Rules {
		if rule.Severity != "" && !oneOf(rule.Severity, validOverrides) {
			bad("rules."+feature+".severity", rule.Severity, validOverrides)
			continue
		}
		cfg.Rules[feature] = rule
	}

	if len(raw.Include) > 0 {
		cfg.Include = raw.Include
	}
	// Явный exclude замещает список по умолчанию, не объединяется с ним.
	if raw.Exclude != nil {
		cfg.Exclude = raw.Exclude
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		return nil, errors.Newf("invalid configuration %s:\n  %s",
			path, strings.Join(violations, "\n  "))
	}
	return cfg, nil
}

// EffectiveSeverity resolves a feature's final severity.
// Precedence: rules entry > severity.features entry > default. The returned
// ignore flag removes the occurrence outright regardless of baseline status.
// statusDefault is the catalog-derived default; "limited" features keep their
// error default unless overridden per feature.
func (c *Config) EffectiveSeverity(feature string, statusDefault diag.Severity) (sev diag.Severity, msgOverride string, ignore bool) {
	if rule, ok := c.Rules[feature]; ok {
		msgOverride = rule.Message
		if rule.Severity == "ignore" {
			return 0, "", true
		}
		if rule.Severity != "" {
			parsed, err := diag.ParseSeverity(rule.Severity)
			if err == nil {
				return parsed, msgOverride, false
			}
		}
		// Правило только с сообщением: строгость ищем ниже по приоритету.
	}

	if value, ok := c.FeatureSeverity[feature]; ok {
		if value == "ignore" {
			return 0, "", true
		}
		if parsed, err := diag.ParseSeverity(value); err == nil {
			return parsed, msgOverride, false
		}
	}

	if statusDefault == diag.SevError {
		return diag.SevError, msgOverride, false
	}
	return c.DefaultSeverity, msgOverride, false
}

// ShouldScan reports whether a relative path passes the include/exclude
// globs. Exclude wins over include.
func (c *Config) ShouldScan(relPath string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// Hash returns a stable digest of the effective policy, used to key cached
// scan results.
func (c *Config) Hash() string {
	normalized := struct {
		Target       Target
		Browserslist []string
		Default      string
		Features     []string
		Rules        []string
		Include      []string
		Exclude      []string
	}{
		Target:       c.Target,
		Browserslist: c.Browserslist,
		Default:      c.DefaultSeverity.String(),
		Include:      c.Include,
		Exclude:      c.Exclude,
	}
	for feature, value := range c.FeatureSeverity {
		normalized.Features = append(normalized.Features, feature+"="+value)
	}
	sort.Strings(normalized.Features)
	for feature, rule := range c.Rules {
		normalized.Rules = append(normalized.Rules, feature+"="+rule.Severity+"/"+rule.Message)
	}
	sort.Strings(normalized.Rules)

	data, _ := json.Marshal(normalized)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
