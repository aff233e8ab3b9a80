package curriculum

import (
	"strings"

	"github.com/bjpl/algolearn/internal/models"
)

// Filter narrows Curricula results. Zero-valued fields are ignored.
type Filter struct {
	Status     models.Status
	Difficulty models.Difficulty
	Category   string // substring, case-insensitive
	Author     string // substring, case-insensitive
	Tag        string // membership, case-insensitive
	Search     string // substring over name + description, case-insensitive
}

// IsEmpty reports whether the filter has no predicates
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Matches reports whether c satisfies every predicate in f
func (f Filter) Matches(c *models.Curriculum) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Difficulty != "" && c.Difficulty != f.Difficulty {
		return false
	}
	if f.Category != "" && !containsFold(c.Category, f.Category) {
		return false
	}
	if f.Author != "" && !containsFold(c.Author, f.Author) {
		return false
	}
	if f.Tag != "" && !c.HasTag(f.Tag) {
		return false
	}
	if f.Search != "" && !containsFold(c.Name+" "+c.Description, f.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
