package search

import (
	"math"
	"sort"
	"strings"
)

// DefaultLimit caps results when Options.Limit is not positive
const DefaultLimit = 20

// Sort keys
const (
	SortRelevance = "relevance"
	SortDate      = "date"
	SortTitle     = "title"
	SortScore     = "score"
)

// Options control tokenization, fuzzy credit, ordering and truncation.
// CaseSensitive is carried for the command surface; matching is always
// case-insensitive.
type Options struct {
	Exact         bool    `json:"exact"`
	Fuzzy         bool    `json:"fuzzy"`
	CaseSensitive bool    `json:"case_sensitive"`
	Sort          string  `json:"sort"`
	Limit         int     `json:"limit"`
	Matcher       Matcher `json:"-"`
}

// Result is a scored item. Score includes the popularity boosts; RawScore does not.
type Result struct {
	Item     Item    `json:"item"`
	Score    float64 `json:"score"`
	RawScore float64 `json:"raw_score"`
	Snippet  string  `json:"snippet"`
}

// Tokens splits the lowercased query on whitespace, or keeps it whole when exact
func Tokens(query string, exact bool) []string {
	q := strings.ToLower(query)
	if exact {
		if strings.TrimSpace(q) == "" {
			return nil
		}
		return []string{q}
	}
	return strings.Fields(q)
}

// RawScore accumulates the unboosted keyword score of it for query
func RawScore(it *Item, query string, opts Options) float64 {
	match := opts.Matcher
	if match == nil {
		match = LegacyFuzzyMatch
	}

	title := strings.ToLower(it.Title)
	desc := strings.ToLower(it.Description)
	body := strings.ToLower(it.Body)

	titleHit, descHit := 5.0, 2.0
	if opts.Exact {
		titleHit, descHit = 10.0, 5.0
	}

	var score float64
	for _, word := range Tokens(query, opts.Exact) {
		switch {
		case strings.Contains(title, word):
			score += titleHit
		case opts.Fuzzy && match(word, title):
			score += 3
		}

		switch {
		case strings.Contains(desc, word):
			score += descHit
		case opts.Fuzzy && match(word, desc):
			score += 1
		}

		if strings.Contains(body, word) {
			score++
		}

		for _, tag := range it.Tags {
			if strings.ToLower(tag) == word {
				score += 4
			}
		}
	}

	if it.Author != "" && strings.Contains(strings.ToLower(it.Author), strings.ToLower(query)) {
		score += 3
	}

	return score
}

// Boost applies the rating, popularity and view multipliers
func Boost(it *Item, raw float64) float64 {
	score := raw
	if it.Rating > 0 {
		score *= 1 + it.Rating/10
	}
	if it.Popularity > 0 {
		score *= 1 + math.Min(float64(it.Popularity)/1000, 0.5)
	}
	if it.Views > 0 {
		score *= 1 + math.Min(float64(it.Views)/5000, 0.3)
	}
	return score
}

// Search scores every item, drops those scoring zero, sorts by opts.Sort and
// truncates to opts.Limit. A blank query matches nothing.
func Search(items []Item, query string, opts Options) []Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	var results []Result
	for i := range items {
		it := &items[i]
		raw := RawScore(it, query, opts)
		if raw == 0 {
			continue
		}
		results = append(results, Result{
			Item:     *it,
			Score:    Boost(it, raw),
			RawScore: raw,
			Snippet:  Snippet(it, query),
		})
	}

	Sort(results, opts.Sort)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Sort orders results in place by key. Unknown keys sort by relevance.
func Sort(results []Result, key string) {
	var less func(a, b *Result) bool
	switch key {
	case SortDate:
		less = func(a, b *Result) bool { return a.Item.CreatedAt.After(b.Item.CreatedAt) }
	case SortTitle:
		less = func(a, b *Result) bool { return a.Item.Title < b.Item.Title }
	case SortScore:
		less = func(a, b *Result) bool { return a.RawScore > b.RawScore }
	default:
		less = func(a, b *Result) bool { return a.Score > b.Score }
	}
	sort.SliceStable(results, func(i, j int) bool {
		return less(&results[i], &results[j])
	})
}

// ValidSort reports whether key is a known sort key
func ValidSort(key string) bool {
	switch key {
	case SortRelevance, SortDate, SortTitle, SortScore:
		return true
	}
	return false
}
