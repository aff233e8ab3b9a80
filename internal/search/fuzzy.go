package search

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Matcher reports whether word approximately matches some word of text.
// Both arguments are already lowercased.
type Matcher func(word, text string) bool

// Fuzzy algorithm names accepted by MatcherFor
const (
	FuzzyLegacy      = "legacy"
	FuzzyLevenshtein = "levenshtein"
)

// MatcherFor returns the matcher registered under name, defaulting to legacy
func MatcherFor(name string) Matcher {
	if strings.EqualFold(name, FuzzyLevenshtein) {
		return LevenshteinMatch
	}
	return LegacyFuzzyMatch
}

// tolerance is the number of differing characters allowed for word
func tolerance(word string) int {
	n := len([]rune(word)) / 3
	if n > 2 {
		return 2
	}
	return n
}

// LegacyFuzzyMatch compares word against each text word position by position
// over the shorter of the two lengths and accepts when the mismatch count is
// within tolerance. Length differences are not penalized, so a short text
// word can match a much longer query word.
func LegacyFuzzyMatch(word, text string) bool {
	w := []rune(word)
	limit := tolerance(word)

	for _, tw := range strings.Fields(text) {
		t := []rune(tw)
		n := len(w)
		if len(t) < n {
			n = len(t)
		}
		diff := 0
		for i := 0; i < n; i++ {
			if w[i] != t[i] {
				diff++
			}
		}
		if diff <= limit {
			return true
		}
	}
	return false
}

// LevenshteinMatch accepts a text word within tolerance edits of word
func LevenshteinMatch(word, text string) bool {
	limit := tolerance(word)
	for _, tw := range strings.Fields(text) {
		if levenshtein.ComputeDistance(word, tw) <= limit {
			return true
		}
	}
	return false
}
