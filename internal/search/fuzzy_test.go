package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LegacyFuzzyMatch(t *testing.T) {
	tests := []struct {
		word, text string
		want       bool
	}{
		{"python", "learn pyhton today", true},
		{"graph", "graps", true},         // tolerance 1
		{"graph", "grxxh", false},        // two mismatches over tolerance 1
		{"sorting", "sortnig", true},     // tolerance 2
		{"ab", "ax", false},              // tolerance 0
		{"zzzzzz", "a", true},            // only the shared prefix is compared
		{"python", "pythonic", true},     // longer text word, prefix compared
		{"queue", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.word+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyFuzzyMatch(tt.word, tt.text))
		})
	}
}

func Test_LevenshteinMatch(t *testing.T) {
	tests := []struct {
		word, text string
		want       bool
	}{
		{"python", "learn pyhton today", true},
		{"graph", "graps", true},
		{"zzzzzz", "a", false},
		{"python", "pythonic", true},
		{"python", "pythonista", false},
		{"heap", "heaps", true},
	}

	for _, tt := range tests {
		t.Run(tt.word+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, LevenshteinMatch(tt.word, tt.text))
		})
	}
}

func Test_MatcherFor(t *testing.T) {
	// distinguishes the two via the legacy prefix quirk
	assert.True(t, MatcherFor("")("zzzzzz", "a"))
	assert.True(t, MatcherFor(FuzzyLegacy)("zzzzzz", "a"))
	assert.False(t, MatcherFor("Levenshtein")("zzzzzz", "a"))
}
