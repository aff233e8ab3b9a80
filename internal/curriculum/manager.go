// Package curriculum loads the curriculum dataset and answers read queries over it.
package curriculum

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bjpl/algolearn/internal/logging"
	"github.com/bjpl/algolearn/internal/models"
)

// ErrNotFound is returned when a curriculum, module or lesson lookup misses
var ErrNotFound = errors.New("not found")

// Repository is the read contract commands depend on. Manager is the
// in-memory implementation; a persistent backend would satisfy the same interface.
type Repository interface {
	Curricula(filter Filter) []models.Curriculum
	FindByID(id string) (*models.Curriculum, error)
	FindByName(name string) (*models.Curriculum, error)
	Modules(curriculumID string) []models.Module
	FindLesson(lessonID string) (*models.Lesson, *models.Module, error)
	Statistics() Statistics
	Dataset() *models.Dataset
}

var _ Repository = (*Manager)(nil)

// Manager holds a loaded dataset in memory. It is never mutated after construction.
type Manager struct {
	data *models.Dataset
}

// NewManager wraps an already loaded dataset
func NewManager(ds *models.Dataset) *Manager {
	if ds == nil {
		ds = &models.Dataset{}
	}
	return &Manager{data: ds}
}

// Load builds a Manager from the first usable candidate path, falling back to
// the built-in dataset. Skipped candidates are reported to log and in LoadInfo.
func Load(log *logging.Logger, paths ...string) (*Manager, LoadInfo) {
	if log == nil {
		log = logging.Nop()
	}

	ds, info := LoadDataset(paths...)
	for _, s := range info.Skipped {
		log.LogCurriculumSkip(s.Path, s.Reason)
	}
	log.LogCurriculumLoad(string(info.Source), info.Path, len(ds.Curricula), len(ds.Modules), ds.LessonCount())

	return NewManager(ds), info
}

// Dataset returns the underlying dataset
func (m *Manager) Dataset() *models.Dataset {
	return m.data
}

// Curricula returns every curriculum satisfying filter, in dataset order
func (m *Manager) Curricula(filter Filter) []models.Curriculum {
	if filter.IsEmpty() {
		return append(make([]models.Curriculum, 0, len(m.data.Curricula)), m.data.Curricula...)
	}
	out := make([]models.Curriculum, 0, len(m.data.Curricula))
	for i := range m.data.Curricula {
		if filter.Matches(&m.data.Curricula[i]) {
			out = append(out, m.data.Curricula[i])
		}
	}
	return out
}

// FindByID returns the first curriculum with the given ID
func (m *Manager) FindByID(id string) (*models.Curriculum, error) {
	for i := range m.data.Curricula {
		if m.data.Curricula[i].ID == id {
			return &m.data.Curricula[i], nil
		}
	}
	return nil, fmt.Errorf("curriculum %q: %w", id, ErrNotFound)
}

// FindByName returns the first curriculum whose name matches (case-insensitive)
func (m *Manager) FindByName(name string) (*models.Curriculum, error) {
	for i := range m.data.Curricula {
		if strings.EqualFold(m.data.Curricula[i].Name, name) {
			return &m.data.Curricula[i], nil
		}
	}
	return nil, fmt.Errorf("curriculum named %q: %w", name, ErrNotFound)
}

// Find looks a curriculum up by ID, then by name
func Find(repo Repository, key string) (*models.Curriculum, error) {
	if c, err := repo.FindByID(key); err == nil {
		return c, nil
	}
	return repo.FindByName(key)
}

// Modules returns the curriculum's modules ordered by Order
func (m *Manager) Modules(curriculumID string) []models.Module {
	var out []models.Module
	for _, mod := range m.data.Modules {
		if mod.CurriculumID == curriculumID {
			out = append(out, mod)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// FindLesson returns the first lesson with the given ID and its parent module
func (m *Manager) FindLesson(lessonID string) (*models.Lesson, *models.Module, error) {
	for i := range m.data.Modules {
		mod := &m.data.Modules[i]
		for j := range mod.Lessons {
			if mod.Lessons[j].ID == lessonID {
				return &mod.Lessons[j], mod, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("lesson %q: %w", lessonID, ErrNotFound)
}
