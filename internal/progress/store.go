// Package progress tracks which lessons a user has started and completed.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bjpl/algolearn/internal/logging"
	"github.com/bjpl/algolearn/internal/models"
)

// ErrNotFound is returned when a user has no progress row for a lesson
var ErrNotFound = errors.New("no progress recorded")

// LessonRef locates a lesson within the curriculum tree
type LessonRef struct {
	CurriculumID string
	ModuleID     string
	LessonID     string
}

// Store is the gorm-backed progress repository
type Store struct {
	db  *gorm.DB
	log *logging.Logger
	now func() time.Time
}

// NewStore wraps an open, migrated database
func NewStore(db *gorm.DB, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{db: db, log: log.With("store", "progress"), now: time.Now}
}

// Start marks a lesson as started. An existing row, including a completed
// one, is returned unchanged.
func (s *Store) Start(ctx context.Context, user string, ref LessonRef) (*models.LessonProgress, error) {
	now := s.now().UTC()
	row := &models.LessonProgress{
		ID:           uuid.NewString(),
		UserID:       user,
		LessonID:     ref.LessonID,
		CurriculumID: ref.CurriculumID,
		ModuleID:     ref.ModuleID,
		Status:       models.ProgressStarted,
		StartedAt:    now,
		UpdatedAt:    now,
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, fmt.Errorf("start lesson: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.LogProgressChange(user, ref.LessonID, models.ProgressStarted)
	}
	return s.Get(ctx, user, ref.LessonID)
}

// Complete marks a lesson as completed, creating the row if needed
func (s *Store) Complete(ctx context.Context, user string, ref LessonRef) (*models.LessonProgress, error) {
	now := s.now().UTC()
	row := &models.LessonProgress{
		ID:           uuid.NewString(),
		UserID:       user,
		LessonID:     ref.LessonID,
		CurriculumID: ref.CurriculumID,
		ModuleID:     ref.ModuleID,
		Status:       models.ProgressCompleted,
		StartedAt:    now,
		CompletedAt:  &now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"curriculum_id", "module_id", "status", "completed_at", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}

	s.log.LogProgressChange(user, ref.LessonID, models.ProgressCompleted)
	return s.Get(ctx, user, ref.LessonID)
}

// Get returns the user's row for lessonID
func (s *Store) Get(ctx context.Context, user, lessonID string) (*models.LessonProgress, error) {
	var row models.LessonProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", user, lessonID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", user, lessonID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &row, nil
}

// Reset forgets the user's progress on one lesson
func (s *Store) Reset(ctx context.Context, user, lessonID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", user, lessonID).
		Delete(&models.LessonProgress{})
	if res.Error != nil {
		return fmt.Errorf("reset progress: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", user, lessonID, ErrNotFound)
	}
	s.log.LogProgressChange(user, lessonID, "reset")
	return nil
}

// ResetCurriculum forgets all of the user's progress in a curriculum and
// returns the number of rows removed
func (s *Store) ResetCurriculum(ctx context.Context, user, curriculumID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND curriculum_id = ?", user, curriculumID).
		Delete(&models.LessonProgress{})
	if res.Error != nil {
		return 0, fmt.Errorf("reset progress: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.LogProgressChange(user, curriculumID, "reset_curriculum")
	}
	return res.RowsAffected, nil
}

// ForUser lists the user's rows, optionally limited to one curriculum,
// most recently updated first
func (s *Store) ForUser(ctx context.Context, user, curriculumID string) ([]models.LessonProgress, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", user)
	if curriculumID != "" {
		q = q.Where("curriculum_id = ?", curriculumID)
	}

	var rows []models.LessonProgress
	if err := q.Order("updated_at DESC").Order("lesson_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return rows, nil
}
