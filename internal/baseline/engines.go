package baseline

import "baselint/internal/config"

// Pair is one targeted {engine, version} combination. Coverage math runs over
// an explicit deduplicated list of these.
type Pair struct {
	Engine  string
	Version string
}

// Engines tracked in the support matrix.
var Engines = []string{
	"chrome", "chrome_android", "edge",
	"firefox", "firefox_android",
	"safari", "safari_ios",
}

// releases lists known versions per engine, newest first. Curated alongside
// the feature catalog; не претендует на полноту истории релизов.
var releases = map[string][]string{
	"chrome": {
		"131", "130", "129", "128", "127", "126", "125", "124", "123", "122",
		"121", "120", "119", "118", "117", "116", "115", "114", "113", "112",
	},
	"chrome_android": {
		"131", "130", "129", "128", "127", "126", "125", "124", "123", "122",
		"121", "120", "119", "118", "117", "116", "115", "114", "113", "112",
	},
	"edge": {
		"131", "130", "129", "128", "127", "126", "125", "124", "123", "122",
		"121", "120", "119", "118", "117", "116", "115", "114", "113", "112",
	},
	"firefox": {
		"133", "132", "131", "130", "129", "128", "127", "126", "125", "124",
		"123", "122", "121", "120", "119", "118", "117", "116", "115",
	},
	"firefox_android": {
		"133", "132", "131", "130", "129", "128", "127", "126", "125", "124",
		"123", "122", "121", "120", "119", "118", "117", "116", "115",
	},
	"safari": {
		"18.2", "18.1", "18.0", "17.6", "17.5", "17.4", "17.3", "17.2", "17.1", "17.0",
		"16.6", "16.5", "16.4", "16.3", "16.2", "16.1", "16.0", "15.6", "15.5", "15.4",
	},
	"safari_ios": {
		"18.2", "18.1", "18.0", "17.6", "17.5", "17.4", "17.3", "17.2", "17.1", "17.0",
		"16.6", "16.5", "16.4", "16.3", "16.2", "16.1", "16.0", "15.6", "15.5", "15.4",
	},
}

// yearFloors pins the default engine-version floor used when a fixed-year
// target recomputes eligibility through the coverage algorithm.
var yearFloors = map[config.Target]map[string]string{
	config.Target2024: {
		"chrome":          "120",
		"chrome_android":  "120",
		"edge":            "120",
		"firefox":         "121",
		"firefox_android": "121",
		"safari":          "17.2",
		"safari_ios":      "17.2",
	},
	config.Target2025: {
		"chrome":          "131",
		"chrome_android":  "131",
		"edge":            "131",
		"firefox":         "133",
		"firefox_android": "133",
		"safari":          "18.2",
		"safari_ios":      "18.2",
	},
}

// YearPairs returns the fixed default floor pairs for a year target.
func YearPairs(target config.Target) ([]Pair, bool) {
	floors, ok := yearFloors[target]
	if !ok {
		return nil, false
	}
	pairs := make([]Pair, 0, len(Engines))
	for _, engine := range Engines {
		pairs = append(pairs, Pair{Engine: engine, Version: floors[engine]})
	}
	return pairs, true
}

// engineAliases maps the short browserslist-style names onto tracked engines.
var engineAliases = map[string]string{
	"chrome":          "chrome",
	"and_chr":         "chrome_android",
	"chrome_android":  "chrome_android",
	"edge":            "edge",
	"firefox":         "firefox",
	"ff":              "firefox",
	"and_ff":          "firefox_android",
	"firefox_android": "firefox_android",
	"safari":          "safari",
	"ios_saf":         "safari_ios",
	"safari_ios":      "safari_ios",
}
