package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 5

// Suggest proposes catalog tags close to the query words for an empty
// result set, nearest first.
func Suggest(items []Item, query string) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	type candidate struct {
		tag  string
		dist int
	}

	seen := make(map[string]bool)
	var cands []candidate
	for _, it := range items {
		for _, tag := range it.Tags {
			t := strings.ToLower(tag)
			if seen[t] {
				continue
			}
			seen[t] = true

			best := -1
			for _, w := range words {
				d := levenshtein.ComputeDistance(w, t)
				if best < 0 || d < best {
					best = d
				}
			}
			if best <= maxDistance(t) {
				cands = append(cands, candidate{tag: t, dist: best})
			}
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].dist < cands[j].dist
	})

	out := make([]string, 0, maxSuggestions)
	for _, c := range cands {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.tag)
	}
	return out
}

func maxDistance(tag string) int {
	n := len([]rune(tag)) / 2
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}
