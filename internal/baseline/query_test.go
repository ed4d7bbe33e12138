package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	pairs, err := ResolveQueries([]string{"defaults"})
	require.NoError(t, err)
	assert.Len(t, pairs, len(Engines))
	assert.Contains(t, pairs, Pair{Engine: "chrome", Version: "120"})
	assert.Contains(t, pairs, Pair{Engine: "safari", Version: "17.2"})
}

func TestResolveLastNVersions(t *testing.T) {
	pairs, err := ResolveQueries([]string{"last 2 versions"})
	require.NoError(t, err)
	assert.Len(t, pairs, 2*len(Engines))
	assert.Contains(t, pairs, Pair{Engine: "firefox", Version: "133"})
	assert.Contains(t, pairs, Pair{Engine: "firefox", Version: "132"})
}

func TestResolveLastNEngineVersions(t *testing.T) {
	pairs, err := ResolveQueries([]string{"last 10 chrome versions"})
	require.NoError(t, err)
	require.Len(t, pairs, 10)
	assert.Equal(t, Pair{Engine: "chrome", Version: "131"}, pairs[0])
	assert.Equal(t, Pair{Engine: "chrome", Version: "122"}, pairs[9])
}

func TestResolveComparisons(t *testing.T) {
	pairs, err := ResolveQueries([]string{"chrome >= 130"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Pair{
		{Engine: "chrome", Version: "131"},
		{Engine: "chrome", Version: "130"},
	}, pairs)

	pairs, err = ResolveQueries([]string{"safari < 15.5"})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Engine: "safari", Version: "15.4"}}, pairs)
}

func TestResolveExactVersion(t *testing.T) {
	pairs, err := ResolveQueries([]string{"safari 17.2"})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Engine: "safari", Version: "17.2"}}, pairs)
}

func TestResolveAliases(t *testing.T) {
	pairs, err := ResolveQueries([]string{"last 1 ios_saf versions", "last 1 and_chr versions"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Pair{
		{Engine: "safari_ios", Version: "18.2"},
		{Engine: "chrome_android", Version: "131"},
	}, pairs)
}

func TestResolveDeduplicates(t *testing.T) {
	pairs, err := ResolveQueries([]string{"last 2 chrome versions", "chrome >= 130"})
	require.NoError(t, err)
	assert.Len(t, pairs, 2, "overlapping queries must not duplicate pairs")
}

func TestResolveErrors(t *testing.T) {
	cases := [][]string{
		{"last 3 netscape versions"},
		{"chrome ~> 100"},
		{"last zero versions"},
		{"entirely unsupported query form here"},
		{},
	}
	for _, queries := range cases {
		_, err := ResolveQueries(queries)
		assert.Error(t, err, "queries %v", queries)
	}
}
