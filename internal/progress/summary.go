package progress

import (
	"context"

	"github.com/bjpl/algolearn/internal/curriculum"
	"github.com/bjpl/algolearn/internal/models"
)

// ModuleSummary counts a user's lessons in one module
type ModuleSummary struct {
	ModuleID  string `json:"module_id"`
	Title     string `json:"title"`
	Started   int    `json:"started"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Summary is a user's standing in one curriculum
type Summary struct {
	CurriculumID string          `json:"curriculum_id"`
	Name         string          `json:"name"`
	User         string          `json:"user"`
	Modules      []ModuleSummary `json:"modules"`
	Started      int             `json:"started"`
	Completed    int             `json:"completed"`
	Total        int             `json:"total"`
	Percent      float64         `json:"percent"`
}

// Summary combines the curriculum's lesson tree with the user's rows.
// Rows for lessons no longer in the curriculum are ignored.
func (s *Store) Summary(ctx context.Context, repo curriculum.Repository, user, curriculumID string) (*Summary, error) {
	c, err := curriculum.Find(repo, curriculumID)
	if err != nil {
		return nil, err
	}

	rows, err := s.ForUser(ctx, user, c.ID)
	if err != nil {
		return nil, err
	}
	status := make(map[string]string, len(rows))
	for _, r := range rows {
		status[r.LessonID] = r.Status
	}

	sum := &Summary{CurriculumID: c.ID, Name: c.Name, User: user}
	for _, mod := range repo.Modules(c.ID) {
		ms := ModuleSummary{ModuleID: mod.ID, Title: mod.Title, Total: len(mod.Lessons)}
		for _, l := range mod.Lessons {
			switch status[l.ID] {
			case models.ProgressCompleted:
				ms.Completed++
			case models.ProgressStarted:
				ms.Started++
			}
		}
		sum.Modules = append(sum.Modules, ms)
		sum.Started += ms.Started
		sum.Completed += ms.Completed
		sum.Total += ms.Total
	}

	if sum.Total > 0 {
		sum.Percent = float64(sum.Completed) / float64(sum.Total) * 100
	}
	return sum, nil
}
