package models

import (
	"strings"
	"time"
)

// Note is a free-form study note, optionally attached to a curriculum or lesson
type Note struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"index;not null" json:"user_id"`
	CurriculumID string    `gorm:"index" json:"curriculum_id,omitempty"`
	LessonID     string    `gorm:"index" json:"lesson_id,omitempty"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `json:"content"`
	TagList      string    `gorm:"column:tags" json:"-"` // comma-joined
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the table name regardless of gorm naming strategy
func (Note) TableName() string {
	return "notes"
}

// Tags returns the note's tags
func (n *Note) Tags() []string {
	if n.TagList == "" {
		return nil
	}
	parts := strings.Split(n.TagList, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// SetTags stores tags, dropping blanks and duplicates
func (n *Note) SetTags(tags []string) {
	n.TagList = strings.Join(dedupTags(tags), ",")
}

// ShortID returns the first 8 characters of the ID for display
func (n *Note) ShortID() string {
	if len(n.ID) > 8 {
		return n.ID[:8]
	}
	return n.ID
}
