package search

import "unicode"

const (
	snippetRadius   = 50
	snippetFallback = 150
	ellipsis        = "..."
)

// Snippet returns a window of up to snippetRadius runes either side of the
// first case-insensitive occurrence of query in the description, then the
// body. With no occurrence it falls back to a truncated description.
func Snippet(it *Item, query string) string {
	q := lowerRunes(query)
	if len(q) > 0 {
		for _, field := range []string{it.Description, it.Body} {
			text := []rune(field)
			idx := indexRunes(lowerRunes(field), q)
			if idx < 0 {
				continue
			}

			start := idx - snippetRadius
			if start < 0 {
				start = 0
			}
			end := idx + len(q) + snippetRadius
			if end > len(text) {
				end = len(text)
			}

			out := string(text[start:end])
			if start > 0 {
				out = ellipsis + out
			}
			if end < len(text) {
				out += ellipsis
			}
			return out
		}
	}

	desc := []rune(it.Description)
	if len(desc) > snippetFallback {
		return string(desc[:snippetFallback]) + ellipsis
	}
	return it.Description
}

// lowerRunes lowercases rune by rune so indexes line up with []rune(s)
func lowerRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(sub) <= len(s); i++ {
		for j := range sub {
			if s[i+j] != sub[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
