package curriculum

import (
	"fmt"

	"github.com/bjpl/algolearn/internal/models"
)

// Issue kinds reported by Validate
const (
	IssueDuplicateCurriculum = "duplicate_curriculum"
	IssueDuplicateModule     = "duplicate_module"
	IssueDuplicateLesson     = "duplicate_lesson"
	IssueOrphanModule        = "orphan_module"
	IssueInvalidStatus       = "invalid_status"
	IssueInvalidDifficulty   = "invalid_difficulty"
	IssueCountMismatch       = "count_mismatch"
)

// Issue is a single integrity problem in a dataset
type Issue struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Validate checks the ID uniqueness and reference rules that loading does
// not enforce. An empty result means the dataset is consistent.
func Validate(ds *models.Dataset) []Issue {
	var issues []Issue
	add := func(kind, format string, args ...interface{}) {
		issues = append(issues, Issue{Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	known := make(map[string]bool, len(ds.Curricula))
	for _, c := range ds.Curricula {
		if known[c.ID] {
			add(IssueDuplicateCurriculum, "curriculum %q appears more than once", c.ID)
		}
		known[c.ID] = true

		if c.Status != "" && !c.Status.Valid() {
			add(IssueInvalidStatus, "curriculum %q has unknown status %q", c.ID, c.Status)
		}
		if c.Difficulty != "" && !c.Difficulty.Valid() {
			add(IssueInvalidDifficulty, "curriculum %q has unknown difficulty %q", c.ID, c.Difficulty)
		}
	}

	moduleIDs := make(map[string]map[string]bool)
	modulesPer := make(map[string]int)
	lessonsPer := make(map[string]int)

	for _, mod := range ds.Modules {
		if !known[mod.CurriculumID] {
			add(IssueOrphanModule, "module %q references unknown curriculum %q", mod.ID, mod.CurriculumID)
		}

		seen := moduleIDs[mod.CurriculumID]
		if seen == nil {
			seen = make(map[string]bool)
			moduleIDs[mod.CurriculumID] = seen
		}
		if seen[mod.ID] {
			add(IssueDuplicateModule, "module %q appears more than once in curriculum %q", mod.ID, mod.CurriculumID)
		}
		seen[mod.ID] = true

		lessonIDs := make(map[string]bool, len(mod.Lessons))
		for _, l := range mod.Lessons {
			if lessonIDs[l.ID] {
				add(IssueDuplicateLesson, "lesson %q appears more than once in module %q", l.ID, mod.ID)
			}
			lessonIDs[l.ID] = true
			if l.Difficulty != "" && !l.Difficulty.Valid() {
				add(IssueInvalidDifficulty, "lesson %q has unknown difficulty %q", l.ID, l.Difficulty)
			}
		}

		modulesPer[mod.CurriculumID]++
		lessonsPer[mod.CurriculumID] += len(mod.Lessons)
	}

	for _, c := range ds.Curricula {
		if c.ModuleCount != modulesPer[c.ID] || c.LessonCount != lessonsPer[c.ID] {
			add(IssueCountMismatch, "curriculum %q declares %d modules/%d lessons but has %d/%d",
				c.ID, c.ModuleCount, c.LessonCount, modulesPer[c.ID], lessonsPer[c.ID])
		}
	}

	return issues
}
