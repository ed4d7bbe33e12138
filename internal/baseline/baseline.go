// Package baseline decides whether a detected feature is safe under the
// active target: coverage math over explicit {engine, version} pairs plus the
// year-target shortcut.
package baseline

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"baselint/internal/catalog"
	"baselint/internal/config"
	"baselint/internal/diag"
)

// coverageThreshold deliberately tolerates a small long tail of unsupported
// engine versions; 100% is not required.
const coverageThreshold = 0.95

// Result of one eligibility decision.
type Result struct {
	IsBaseline    bool
	Severity      diag.Severity
	StatusMessage string
}

// Evaluator judges feature ids against a configured target. Read-only after
// construction, safe for concurrent use.
type Evaluator struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Evaluator {
	return &Evaluator{cat: cat}
}

// Evaluate runs the decision sequence for one feature id.
func (e *Evaluator) Evaluate(cfg *config.Config, featureID string) Result {
	f, known := e.cat.Lookup(featureID)
	if !known {
		// Неизвестные фичи всегда репортим: fail toward stricter reporting.
		return Result{
			IsBaseline:    false,
			Severity:      diag.SevWarning,
			StatusMessage: "unknown feature, assumed not baseline",
		}
	}

	if f.Status == catalog.StatusWidely {
		return Result{
			IsBaseline:    true,
			Severity:      diag.SevInfo,
			StatusMessage: "widely available",
		}
	}

	if cfg.Target == config.TargetCustom {
		return e.evaluateCoverage(f, cfg.Browserslist)
	}
	return e.evaluateYear(f, cfg.Target)
}

func (e *Evaluator) evaluateYear(f *catalog.Feature, target config.Target) Result {
	// Limited никогда не проходит по году.
	if f.Status == catalog.StatusLimited {
		return Result{
			IsBaseline:    false,
			Severity:      diag.SevError,
			StatusMessage: "limited availability across engines",
		}
	}

	targetYear, err := strconv.Atoi(string(target))
	if err != nil {
		return Result{
			IsBaseline:    false,
			Severity:      defaultSeverity(f),
			StatusMessage: fmt.Sprintf("unrecognized target %q", target),
		}
	}

	newlyYear, hasYear := f.NewlyYear()

	// The year comparison is recomputed through the coverage algorithm
	// whenever per-engine data exists; the recomputation wins. Поведение
	// исходной системы сохранено как задокументированное правило.
	if hasYear && newlyYear <= targetYear && len(f.Support) > 0 {
		pairs, ok := YearPairs(target)
		if ok {
			return e.coverageResult(f, pairs, string(target))
		}
	}

	if hasYear && newlyYear <= targetYear {
		return Result{
			IsBaseline:    true,
			Severity:      defaultSeverity(f),
			StatusMessage: fmt.Sprintf("newly available since %d, within the %s target", newlyYear, target),
		}
	}
	if hasYear {
		return Result{
			IsBaseline:    false,
			Severity:      defaultSeverity(f),
			StatusMessage: fmt.Sprintf("newly available since %d, after the %s target", newlyYear, target),
		}
	}
	return Result{
		IsBaseline:    false,
		Severity:      defaultSeverity(f),
		StatusMessage: "no availability date recorded, assumed not baseline",
	}
}

func (e *Evaluator) evaluateCoverage(f *catalog.Feature, queries []string) Result {
	pairs, err := ResolveQueries(queries)
	if err != nil {
		// Кривой запрос не валит прогон: фича просто не проходит эту проверку.
		return Result{
			IsBaseline:    false,
			Severity:      defaultSeverity(f),
			StatusMessage: fmt.Sprintf("compatibility query failed (%v), assumed not baseline", err),
		}
	}
	return e.coverageResult(f, pairs, "custom")
}

func (e *Evaluator) coverageResult(f *catalog.Feature, pairs []Pair, targetName string) Result {
	supported, total := coverage(f, pairs)
	ratio := float64(supported) / float64(total)

	if ratio >= coverageThreshold {
		return Result{
			IsBaseline: true,
			Severity:   defaultSeverity(f),
			StatusMessage: fmt.Sprintf("supported by %d of %d targeted engine versions, meets the %s target",
				supported, total, targetName),
		}
	}
	return Result{
		IsBaseline: false,
		Severity:   defaultSeverity(f),
		StatusMessage: fmt.Sprintf("supported by %d of %d targeted engine versions (below 95%% for the %s target)",
			supported, total, targetName),
	}
}

// coverage counts pairs where the feature's recorded minimum for the engine
// exists and is not above the pair's version. Missing engines count as
// unsupported.
func coverage(f *catalog.Feature, pairs []Pair) (supported, total int) {
	total = len(pairs)
	for _, pair := range pairs {
		minRaw, ok := f.Support[pair.Engine]
		if !ok {
			continue
		}
		minVer, err := semver.NewVersion(minRaw)
		if err != nil {
			continue
		}
		have, err := semver.NewVersion(pair.Version)
		if err != nil {
			continue
		}
		if !have.LessThan(minVer) {
			supported++
		}
	}
	return supported, total
}

func defaultSeverity(f *catalog.Feature) diag.Severity {
	if f.Status == catalog.StatusLimited {
		return diag.SevError
	}
	return diag.SevWarning
}
