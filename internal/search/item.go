// Package search ranks catalog items against a free-text query.
package search

import (
	"strings"
	"time"
)

// ItemType is the top-level kind of a searchable item
type ItemType string

const (
	TypeCurriculum ItemType = "curriculum"
	TypeContent    ItemType = "content"
	TypeUser       ItemType = "user"
)

// Content types for TypeContent items
const (
	ContentLesson = "lesson"
	ContentNote   = "note"
)

// Item is one searchable record. Absent fields are left zero and score nothing.
type Item struct {
	ID           string    `json:"id"`
	Type         ItemType  `json:"type"`
	ContentType  string    `json:"content_type,omitempty"`
	CurriculumID string    `json:"curriculum_id,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Body         string    `json:"-"`
	Author       string    `json:"author,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Status       string    `json:"status,omitempty"`
	Difficulty   string    `json:"difficulty,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	Popularity   int       `json:"popularity,omitempty"`
	Views        int       `json:"views,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Kind returns "type" or "type/content_type"
func (it *Item) Kind() string {
	if it.ContentType == "" {
		return string(it.Type)
	}
	return string(it.Type) + "/" + it.ContentType
}

// Filter is applied before scoring. Zero-valued fields are ignored.
type Filter struct {
	Type          ItemType
	ContentType   string
	Author        string   // substring, case-insensitive
	Tags          []string // every tag must be present, case-insensitive
	Difficulty    string
	Status        string
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// Matches reports whether it passes every predicate in f
func (f Filter) Matches(it *Item) bool {
	if f.Type != "" && it.Type != f.Type {
		return false
	}
	if f.ContentType != "" && !strings.EqualFold(it.ContentType, f.ContentType) {
		return false
	}
	if f.Author != "" && !strings.Contains(strings.ToLower(it.Author), strings.ToLower(f.Author)) {
		return false
	}
	for _, want := range f.Tags {
		if !hasTag(it.Tags, want) {
			return false
		}
	}
	if f.Difficulty != "" && !strings.EqualFold(it.Difficulty, f.Difficulty) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(it.Status, f.Status) {
		return false
	}
	if !f.CreatedAfter.IsZero() && it.CreatedAt.Before(f.CreatedAfter) {
		return false
	}
	if !f.CreatedBefore.IsZero() && it.CreatedAt.After(f.CreatedBefore) {
		return false
	}
	return true
}

// Apply returns the items passing f, in order
func (f Filter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for i := range items {
		if f.Matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
