package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the publication state of a curriculum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived, StatusPublished:
		return true
	}
	return false
}

// Difficulty is the target level of a curriculum or lesson
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Valid reports whether d is one of the known difficulties
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return true
	}
	return false
}

// Curriculum is the top-level course entity grouping modules
type Curriculum struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	Difficulty     Difficulty `json:"difficulty"`
	Category       string     `json:"category"`
	Author         string     `json:"author"`
	Tags           []string   `json:"tags"`
	CreatedAt      Timestamp  `json:"created_at"`
	UpdatedAt      Timestamp  `json:"updated_at"`
	ModuleCount    int        `json:"module_count"`
	LessonCount    int        `json:"lesson_count"`
	StudentCount   int        `json:"student_count"`
	CompletionRate float64    `json:"completion_rate"`
	Rating         float64    `json:"rating"`
}

// HasTag reports whether the curriculum carries tag (case-insensitive)
func (c *Curriculum) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Module is an ordered grouping of lessons within a curriculum.
// CurriculumID is a back-reference only; the dataset owns modules.
type Module struct {
	ID           string   `json:"id"`
	CurriculumID string   `json:"curriculum_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Order        int      `json:"order"`
	Lessons      []Lesson `json:"lessons"`
}

// Lesson is the atomic learning unit, owned by its module
type Lesson struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Topics           []string   `json:"topics"`
	Objectives       []string   `json:"objectives"`
	Prerequisites    []string   `json:"prerequisites"`
	Difficulty       Difficulty `json:"difficulty"`
	EstimatedTime    string     `json:"estimated_time"`
	PracticeProblems int        `json:"practice_problems"`
}

// Dataset is the full curriculum document as stored on disk
type Dataset struct {
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Curricula []Curriculum           `json:"curricula"`
	Modules   []Module               `json:"modules"`
}

// LessonCount returns the number of lessons across all modules of the dataset
func (d *Dataset) LessonCount() int {
	n := 0
	for _, m := range d.Modules {
		n += len(m.Lessons)
	}
	return n
}

// Normalize deduplicates curriculum tags in place, keeping first occurrence order.
func (d *Dataset) Normalize() {
	for i := range d.Curricula {
		d.Curricula[i].Tags = dedupTags(d.Curricula[i].Tags)
	}
}

func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// timestampLayouts are tried in order when decoding a Timestamp
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time.Time that tolerates the naive ISO formats found in
// hand-written curriculum files. It always encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s using the accepted layouts
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON accepts a string in any supported layout, an empty string, or null
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON encodes as RFC 3339, or an empty string for the zero time
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
