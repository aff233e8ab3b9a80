package models

import "time"

// Progress statuses
const (
	ProgressStarted   = "started"
	ProgressCompleted = "completed"
)

// LessonProgress records one user's state on one lesson
type LessonProgress struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	UserID       string     `gorm:"uniqueIndex:idx_progress_user_lesson;not null" json:"user_id"`
	LessonID     string     `gorm:"uniqueIndex:idx_progress_user_lesson;not null" json:"lesson_id"`
	CurriculumID string     `gorm:"index" json:"curriculum_id"`
	ModuleID     string     `json:"module_id"`
	Status       string     `gorm:"not null" json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName pins the table name regardless of gorm naming strategy
func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// IsCompleted reports whether the lesson has been completed
func (p *LessonProgress) IsCompleted() bool {
	return p.Status == ProgressCompleted
}
