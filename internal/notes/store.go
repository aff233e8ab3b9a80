// Package notes persists study notes with gorm.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bjpl/algolearn/internal/logging"
	"github.com/bjpl/algolearn/internal/models"
)

// ErrNotFound is returned when no note matches an ID or prefix
var ErrNotFound = errors.New("note not found")

// ErrAmbiguous is returned when an ID prefix matches more than one note
var ErrAmbiguous = errors.New("note id prefix is ambiguous")

// minPrefix is the shortest ID prefix Get will resolve
const minPrefix = 4

// ListFilter narrows List. Empty fields are ignored.
type ListFilter struct {
	UserID       string
	CurriculumID string
	LessonID     string
	Tag          string
}

// Update carries optional changes; nil fields are left as they are
type Update struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// Store is the gorm-backed note repository
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
	return &Store{db: db, log: log.With("store", "notes"), now: time.Now}
}

// Add assigns an ID and timestamps to n and inserts it
func (s *Store) Add(ctx context.Context, n *models.Note) error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("note title is required")
	}
	if n.UserID == "" {
		return fmt.Errorf("note user is required")
	}

	n.ID = uuid.NewString()
	now := s.now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	s.log.LogNoteChange("added", n.ID)
	return nil
}

// Get resolves a full ID, or a unique prefix of at least four characters
func (s *Store) Get(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if err == nil {
		return &n, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get note: %w", err)
	}

	if len(id) < minPrefix {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	var matches []models.Note
	if err := s.db.WithContext(ctx).
		Where("id LIKE ? ESCAPE '\\'", escapeLike(id)+"%").
		Limit(2).
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	case 1:
		return &matches[0], nil
	}
	return nil, fmt.Errorf("%s: %w", id, ErrAmbiguous)
}

// List returns notes matching filter, newest first
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Note, error) {
	q := s.db.WithContext(ctx).Model(&models.Note{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.CurriculumID != "" {
		q = q.Where("curriculum_id = ?", filter.CurriculumID)
	}
	if filter.LessonID != "" {
		q = q.Where("lesson_id = ?", filter.LessonID)
	}

	var out []models.Note
	if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	if filter.Tag == "" {
		return out, nil
	}
	tagged := out[:0]
	for i := range out {
		for _, t := range out[i].Tags() {
			if strings.EqualFold(t, filter.Tag) {
				tagged = append(tagged, out[i])
				break
			}
		}
	}
	return tagged, nil
}

// Update applies u to the note identified by id (or prefix)
func (s *Store) Update(ctx context.Context, id string, u Update) (*models.Note, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return nil, fmt.Errorf("note title is required")
		}
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.Tags != nil {
		n.SetTags(*u.Tags)
	}
	n.UpdatedAt = s.now().UTC()

	if err := s.db.WithContext(ctx).Save(n).Error; err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	s.log.LogNoteChange("updated", n.ID)
	return n, nil
}

// Delete removes the note identified by id (or prefix)
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Note{}, "id = ?", n.ID).Error; err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.log.LogNoteChange("deleted", n.ID)
	return nil
}

// Search returns the user's notes whose title or content contains query
// (case-insensitive), newest first. An empty userID searches every user.
func (s *Store) Search(ctx context.Context, userID, query string) ([]models.Note, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	q := s.db.WithContext(ctx).
		Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\')", pattern, pattern)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var out []models.Note
	if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
