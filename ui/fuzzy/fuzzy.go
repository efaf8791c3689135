// Package fuzzy ranks items against a typed query for the shortcut list
// filter.
package fuzzy

import (
	"sort"
	"strings"

	sfuzzy "github.com/sahilm/fuzzy"
)

// SearchItem is an item that can be matched against a query.
type SearchItem interface {
	// GetSearchText returns the text used for matching
	GetSearchText() string
	// GetID returns a unique identifier for the item
	GetID() string
}

// SearchResult is one ranked match.
type SearchResult struct {
	Item SearchItem
	// Score is in [0, 1], higher is better.
	Score float64
	// Matches are the byte offsets of matched characters, for highlighting.
	Matches []int
}

// Config tunes Search.
type Config struct {
	// MinScore drops results below it.
	MinScore float64
	// MaxResults caps the result count; 0 means no cap.
	MaxResults int
}

// DefaultConfig returns the settings the shortcut list uses.
func DefaultConfig() Config {
	return Config{
		MinScore:   0.1,
		MaxResults: 0,
	}
}

// Search ranks items by how well they match query. An empty query returns
// every item in its original order. Ties keep the original order.
func Search(query string, items []SearchItem, cfg Config) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		results := make([]SearchResult, len(items))
		for i, item := range items {
			results[i] = SearchResult{Item: item, Score: 1}
		}
		return results
	}

	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		score, matches := fuzzyMatch(query, item.GetSearchText())
		if score > 0 && score >= cfg.MinScore {
			results = append(results, SearchResult{Item: item, Score: score, Matches: matches})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if cfg.MaxResults > 0 && len(results) > cfg.MaxResults {
		results = results[:cfg.MaxResults]
	}
	return results
}

// fuzzyMatch scores pattern against text, case-insensitively. Exact matches
// score 1, prefixes 0.9, substrings 0.8. Scattered subsequences are located
// by sahilm/fuzzy and score by coverage, gaps and how early they start,
// scaled below substrings.
func fuzzyMatch(pattern, text string) (float64, []int) {
	if pattern == "" {
		return 1, nil
	}
	p := strings.ToLower(pattern)
	t := strings.ToLower(text)

	span := func(start int) []int {
		m := make([]int, len(p))
		for i := range m {
			m[i] = start + i
		}
		return m
	}
	switch {
	case p == t:
		return 1, span(0)
	case strings.HasPrefix(t, p):
		return 0.9, span(0)
	case strings.Contains(t, p):
		return 0.8, span(strings.Index(t, p))
	}

	found := sfuzzy.Find(p, []string{t})
	if len(found) == 0 {
		return 0, nil
	}
	matches := found[0].MatchedIndexes

	n := float64(len(t))
	score := float64(len(p)) / n
	for k := 1; k < len(matches); k++ {
		if gap := matches[k] - matches[k-1] - 1; gap > 0 {
			score -= float64(gap) / n
		}
	}
	score += 0.1 * (1 - float64(matches[0])/n)
	score *= 0.7

	return min(max(score, 0), 1), matches
}
