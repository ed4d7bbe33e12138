// Package driver orchestrates a scan batch: parser selection, matching,
// configuration filtering and baseline evaluation per input unit. Ошибки
// отдельных юнитов наружу не выходят: логируются, батч продолжается.
package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"baselint/internal/baseline"
	"baselint/internal/catalog"
	"baselint/internal/config"
	"baselint/internal/css"
	"baselint/internal/diag"
	"baselint/internal/js"
	"baselint/internal/match"
	"baselint/internal/source"
	"baselint/internal/suppress"
)

// Unit is one scan input: a file on disk, or in-memory content with an
// identifier and an optional kind hint.
type Unit struct {
	Path    string
	Content []byte      // nil means read Path from disk
	Kind    source.Kind // KindUnknown derives the kind from Path
}

// Event reports one completed unit to a progress consumer. Callbacks run on
// worker goroutines.
type Event struct {
	Path  string
	Index int
	Total int
}

// Options configure a scan batch.
type Options struct {
	// ConfigPath is the explicit configuration file; empty triggers the
	// search order under Root.
	ConfigPath string
	Root       string

	Jobs     int              // 0 -> GOMAXPROCS
	Logger   *zap.Logger      // nil -> zap.NewNop()
	Cache    *DiskCache       // optional per-unit result cache
	Progress func(Event)      // optional, invoked from worker goroutines
	Catalog  *catalog.Catalog // nil -> catalog.Default()
	Resolver *config.Resolver // nil -> fresh resolver
}

func (o *Options) normalize() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	if o.Resolver == nil {
		o.Resolver = config.NewResolver()
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
}

// Scan processes units in parallel and returns the final diagnostic list.
// Output order follows unit order; внутри юнита — порядок обхода дерева.
// The only fatal error is an invalid configuration.
func Scan(ctx context.Context, units []Unit, opts Options) ([]diag.Diagnostic, error) {
	opts.normalize()

	cfg, err := opts.Resolver.Resolve(opts.ConfigPath, opts.Root)
	if err != nil {
		return nil, err
	}
	eval := baseline.New(opts.Catalog)

	results := make([][]diag.Diagnostic, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, max(len(units), 1)))

	for i, unit := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Индекс уникален для горутины, мьютекс не нужен.
			results[i] = processUnit(unit, cfg, opts.Catalog, eval, opts.Cache, opts.Logger)
			if opts.Progress != nil {
				opts.Progress(Event{Path: unit.Path, Index: i, Total: len(units)})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []diag.Diagnostic
	for _, unitDiags := range results {
		out = append(out, unitDiags...)
	}
	return out, nil
}

// ScanPaths expands files and directories into units (honoring the effective
// include/exclude globs for directories) and scans them.
func ScanPaths(ctx context.Context, paths []string, opts Options) ([]diag.Diagnostic, error) {
	opts.normalize()

	cfg, err := opts.Resolver.Resolve(opts.ConfigPath, opts.Root)
	if err != nil {
		return nil, err
	}

	units := expandPaths(paths, cfg, opts.Logger)
	return Scan(ctx, units, opts)
}

// Expand resolves path arguments into the units ScanPaths would process,
// for callers that need the unit list up front (progress UI).
func Expand(paths []string, opts Options) ([]Unit, error) {
	opts.normalize()

	cfg, err := opts.Resolver.Resolve(opts.ConfigPath, opts.Root)
	if err != nil {
		return nil, err
	}
	return expandPaths(paths, cfg, opts.Logger), nil
}

// expandPaths turns path arguments into units. Явно названный файл сканируется
// без учёта глобов; каталоги фильтруются конфигом.
func expandPaths(paths []string, cfg *config.Config, logger *zap.Logger) []Unit {
	var units []Unit
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			units = append(units, Unit{Path: path})
			continue
		}

		walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("walk error", zap.String("path", p), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(path, p)
			if relErr != nil {
				rel = p
			}
			if cfg.ShouldScan(filepath.ToSlash(rel)) {
				units = append(units, Unit{Path: p})
			}
			return nil
		})
		if walkErr != nil {
			logger.Warn("walk failed", zap.String("path", path), zap.Error(walkErr))
		}
	}
	return units
}

// processUnit runs the full pipeline for one unit. Never fails: любой сбой
// даёт пустой результат для юнита.
func processUnit(unit Unit, cfg *config.Config, cat *catalog.Catalog, eval *baseline.Evaluator, cache *DiskCache, logger *zap.Logger) []diag.Diagnostic {
	content := unit.Content
	if content == nil {
		data, err := os.ReadFile(unit.Path)
		if err != nil {
			logger.Warn("skipping unreadable file", zap.String("path", unit.Path), zap.Error(err))
			return nil
		}
		content = data
	}

	key := cacheKey(unit.Path, content, cfg)
	if cached, ok := cacheGet(cache, key, logger); ok {
		return cached
	}

	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(unit.Path, unit.Kind, content)
	file := fileSet.Get(id)

	var occs []match.Occurrence
	switch file.Kind {
	case source.KindScript:
		sup := suppress.Resolve(file.Content, file.Kind)
		occs = match.Script(file, js.Parse(file), cat, sup)
	case source.KindStylesheet:
		sup := suppress.Resolve(file.Content, file.Kind)
		occs = match.Stylesheet(file, css.Parse(file), cat, sup)
	default:
		// Неизвестный вид источника: ноль вхождений, не ошибка.
		return nil
	}

	diags := evaluate(occs, cfg, cat, eval)
	cachePut(cache, key, diags, logger)
	return diags
}

// evaluate applies configuration filtering and baseline evaluation to raw
// occurrences, producing final diagnostics.
func evaluate(occs []match.Occurrence, cfg *config.Config, cat *catalog.Catalog, eval *baseline.Evaluator) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, occ := range occs {
		severity, msgOverride, ignore := cfg.EffectiveSeverity(occ.Feature, occ.Severity)
		if ignore {
			continue
		}

		res := eval.Evaluate(cfg, occ.Feature)
		if res.IsBaseline {
			continue
		}

		message := occ.Message
		if msgOverride != "" {
			message = msgOverride
		}
		message += " - " + res.StatusMessage

		state := diag.BaselineNo
		if occ.Status == "unknown" {
			state = diag.BaselineUnknown
		}

		d := diag.Diagnostic{
			File:           occ.File,
			Line:           occ.Line,
			Column:         occ.Column,
			Feature:        occ.Feature,
			Message:        message,
			Severity:       severity,
			Baseline:       state,
			BrowserSupport: occ.Engines,
		}
		if f, ok := cat.Lookup(occ.Feature); ok && f.SpecURL != "" {
			d.Fixes = []diag.Fix{{
				Type:        "docs",
				Description: "See the compatibility notes for " + f.Name,
				URL:         f.SpecURL,
			}}
		}
		out = append(out, d)
	}
	return out
}
