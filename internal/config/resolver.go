package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Search order inside a workspace root, first hit wins.
var searchNames = []string{"baseline.config.json", ".baseline.json"}

const cacheSize = 64

// Resolver resolves and caches effective configurations. The cache key is the
// resolved config path; кэш живёт до явного Clear, автоматического устаревания
// нет.
type Resolver struct {
	cache *lru.Cache[string, *Config]
}

func NewResolver() *Resolver {
	cache, err := lru.New[string, *Config](cacheSize)
	if err != nil {
		// lru.New fails only on a non-positive size.
		panic(err)
	}
	return &Resolver{cache: cache}
}

// Clear drops every cached configuration.
func (r *Resolver) Clear() {
	r.cache.Purge()
}

// Resolve finds, parses and validates the configuration for a run.
// Order: explicit path, then baseline.config.json, then .baseline.json, then
// the "baseline" key of package.json, then built-in defaults. At most one
// source is used.
func (r *Resolver) Resolve(explicitPath, root string) (*Config, error) {
	path, fromPackageJSON, err := locate(explicitPath, root)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}

	if cached, ok := r.cache.Get(path); ok {
		return cached, nil
	}

	// #nosec G304 -- path comes from the user's workspace
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read configuration %s", path)
	}
	if fromPackageJSON {
		data, err = extractBaselineKey(data, path)
		if err != nil {
			return nil, err
		}
		if data == nil {
			cfg := Default()
			r.cache.Add(path, cfg)
			return cfg, nil
		}
	}

	cfg, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	r.cache.Add(path, cfg)
	return cfg, nil
}

// locate returns the resolved config path, empty when defaults apply.
func locate(explicitPath, root string) (path string, fromPackageJSON bool, err error) {
	if explicitPath != "" {
		abs, absErr := filepath.Abs(explicitPath)
		if absErr != nil {
			return "", false, errors.Wrap(absErr, "resolve config path")
		}
		if _, statErr := os.Stat(abs); statErr != nil {
			return "", false, errors.Wrapf(statErr, "configuration %s", explicitPath)
		}
		return abs, false, nil
	}
	if root == "" {
		root = "."
	}
	for _, name := range searchNames {
		candidate := filepath.Join(root, name)
		if _, statErr := os.Stat(candidate); statErr == nil {
			abs, absErr := filepath.Abs(candidate)
			if absErr != nil {
				return "", false, errors.Wrap(absErr, "resolve config path")
			}
			return abs, false, nil
		}
	}
	pkg := filepath.Join(root, "package.json")
	if _, statErr := os.Stat(pkg); statErr == nil {
		abs, absErr := filepath.Abs(pkg)
		if absErr != nil {
			return "", false, errors.Wrap(absErr, "resolve config path")
		}
		return abs, true, nil
	}
	return "", false, nil
}

// extractBaselineKey pulls the embedded "baseline" object out of package.json.
// Отсутствие ключа — не ошибка: конфигом становятся значения по умолчанию.
func extractBaselineKey(data []byte, path string) ([]byte, error) {
	var pkg struct {
		Baseline json.RawMessage `json:"baseline"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if len(pkg.Baseline) == 0 {
		return nil, nil
	}
	return pkg.Baseline, nil
}
