package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item string

func (i item) GetSearchText() string { return string(i) }
func (i item) GetID() string         { return string(i) }

func items(names ...string) []SearchItem {
	out := make([]SearchItem, len(names))
	for i, n := range names {
		out[i] = item(n)
	}
	return out
}

func ids(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item.GetID()
	}
	return out
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		pattern, text string
		score         float64
		matches       []int
	}{
		{"build", "build", 1, []int{0, 1, 2, 3, 4}},
		{"Bu", "build roads", 0.9, []int{0, 1}},
		{"road", "Build Roads", 0.8, []int{6, 7, 8, 9}},
		{"xyz", "Build Roads", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			score, matches := fuzzyMatch(tt.pattern, tt.text)
			assert.InDelta(t, tt.score, score, 1e-9)
			assert.Equal(t, tt.matches, matches)
		})
	}

	score, matches := fuzzyMatch("bdr", "Build Roads")
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 0.8)
	assert.Equal(t, []int{0, 4, 6}, matches)
}

func TestSearchRanksAndFilters(t *testing.T) {
	all := items("Close", "Build Roads", "Bulldozer", "Pause")

	assert.Equal(t, []string{"Close", "Build Roads", "Bulldozer", "Pause"}, ids(Search("  ", all, DefaultConfig())))

	got := Search("bu", all, DefaultConfig())
	require.Len(t, got, 2)
	// Equal prefix scores keep list order
	assert.Equal(t, []string{"Build Roads", "Bulldozer"}, ids(got))

	got = Search("se", all, Config{MaxResults: 1})
	assert.Equal(t, []string{"Close"}, ids(got))
}
