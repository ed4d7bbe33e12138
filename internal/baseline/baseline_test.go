package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baselint/internal/catalog"
	"baselint/internal/config"
	"baselint/internal/diag"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	allEngines := map[string]string{
		"chrome": "60", "chrome_android": "60", "edge": "79",
		"firefox": "55", "firefox_android": "55",
		"safari": "12", "safari_ios": "12",
	}
	cat, err := catalog.New([]catalog.Feature{
		{ID: "wide", Name: "Wide", Status: catalog.StatusWidely, Support: allEngines},
		{
			ID: "everywhere", Name: "Everywhere", Status: catalog.StatusNewly,
			NewlySince: "2022-03-01", Support: allEngines,
		},
		{
			ID: "desktop-only", Name: "Desktop only", Status: catalog.StatusNewly,
			NewlySince: "2020-04-07",
			Support: map[string]string{
				"chrome": "80", "edge": "80", "firefox": "74", "safari": "13.1",
			},
		},
		{
			ID: "fresh", Name: "Fresh", Status: catalog.StatusNewly,
			NewlySince: "2025-05-01", Support: allEngines,
		},
		{
			ID: "dateless", Name: "Dateless", Status: catalog.StatusNewly,
		},
		{
			ID: "restricted", Name: "Restricted", Status: catalog.StatusLimited,
			Support: map[string]string{"chrome": "86", "edge": "86"},
		},
		{
			ID: "boundary-pass", Name: "Boundary pass", Status: catalog.StatusNewly,
			NewlySince: "2023-01-01",
			Support:    map[string]string{"chrome": "112", "firefox": "125"},
		},
		{
			ID: "boundary-fail", Name: "Boundary fail", Status: catalog.StatusNewly,
			NewlySince: "2023-01-01",
			Support:    map[string]string{"chrome": "112", "firefox": "126"},
		},
	})
	require.NoError(t, err)
	return cat
}

func yearConfig(target config.Target) *config.Config {
	cfg := config.Default()
	cfg.Target = target
	return cfg
}

func customConfig(queries ...string) *config.Config {
	cfg := config.Default()
	cfg.Target = config.TargetCustom
	cfg.Browserslist = queries
	return cfg
}

func TestUnknownFeature(t *testing.T) {
	res := New(testCatalog(t)).Evaluate(yearConfig(config.Target2024), "no-such-feature")
	assert.False(t, res.IsBaseline)
	assert.Equal(t, diag.SevWarning, res.Severity)
}

func TestWidelyIsAlwaysBaseline(t *testing.T) {
	ev := New(testCatalog(t))
	for _, cfg := range []*config.Config{
		yearConfig(config.Target2024),
		yearConfig(config.Target2025),
		customConfig("last 1 chrome versions"),
	} {
		res := ev.Evaluate(cfg, "wide")
		assert.True(t, res.IsBaseline, "target %v", cfg.Target)
	}
}

func TestYearTargetRecomputesThroughCoverage(t *testing.T) {
	ev := New(testCatalog(t))

	// Год прошёл, но данные по движкам есть: пересчёт по покрытию побеждает
	// простое сравнение года. 4 из 7 движков — ниже порога.
	res := ev.Evaluate(yearConfig(config.Target2024), "desktop-only")
	assert.False(t, res.IsBaseline, "coverage recomputation must override the year comparison")
	assert.Equal(t, diag.SevWarning, res.Severity)

	// Полная матрица движков проходит пересчёт.
	res = ev.Evaluate(yearConfig(config.Target2024), "everywhere")
	assert.True(t, res.IsBaseline)
}

func TestYearTargetFutureFeature(t *testing.T) {
	ev := New(testCatalog(t))

	res := ev.Evaluate(yearConfig(config.Target2024), "fresh")
	assert.False(t, res.IsBaseline, "2025 feature is not baseline under 2024")

	res = ev.Evaluate(yearConfig(config.Target2025), "fresh")
	assert.True(t, res.IsBaseline, "2025 feature passes the 2025 recomputation")
}

func TestYearTargetWithoutDate(t *testing.T) {
	res := New(testCatalog(t)).Evaluate(yearConfig(config.Target2024), "dateless")
	assert.False(t, res.IsBaseline)
}

func TestLimitedNeverBaselineByYear(t *testing.T) {
	ev := New(testCatalog(t))
	for _, target := range []config.Target{config.Target2024, config.Target2025} {
		res := ev.Evaluate(yearConfig(target), "restricted")
		assert.False(t, res.IsBaseline)
		assert.Equal(t, diag.SevError, res.Severity)
	}
}

func TestCoverageBoundary(t *testing.T) {
	ev := New(testCatalog(t))
	cfg := customConfig("last 10 chrome versions", "last 10 firefox versions")

	// 10 chrome (все >= 112) + 9 firefox (133..125 >= 125) = 19/20 = 0.95.
	res := ev.Evaluate(cfg, "boundary-pass")
	assert.True(t, res.IsBaseline, "ratio 0.95 meets the >=0.95 threshold")

	// firefox минимум 126: 8 из 10 → 18/20 = 0.90.
	res = ev.Evaluate(cfg, "boundary-fail")
	assert.False(t, res.IsBaseline)
}

func TestCustomTargetMissingEnginesCountUnsupported(t *testing.T) {
	ev := New(testCatalog(t))
	res := ev.Evaluate(customConfig("last 2 safari versions"), "boundary-pass")
	assert.False(t, res.IsBaseline, "no recorded safari minimum means 0/2 coverage")
}

func TestMalformedQueryFailsClosed(t *testing.T) {
	ev := New(testCatalog(t))
	res := ev.Evaluate(customConfig("last 3 netscape versions"), "everywhere")
	assert.False(t, res.IsBaseline)
	assert.Contains(t, res.StatusMessage, "query")
}

func TestLimitedUnderCustomTarget(t *testing.T) {
	ev := New(testCatalog(t))

	// Покрытие считается и для limited: узкий запрос может пройти.
	res := ev.Evaluate(customConfig("chrome >= 130"), "restricted")
	assert.True(t, res.IsBaseline)

	res = ev.Evaluate(customConfig("defaults"), "restricted")
	assert.False(t, res.IsBaseline)
	assert.Equal(t, diag.SevError, res.Severity)
}
