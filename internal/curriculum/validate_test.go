package curriculum

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjpl/algolearn/internal/models"
)

func issueKinds(issues []Issue) []string {
	kinds := make([]string, 0, len(issues))
	for _, i := range issues {
		kinds = append(kinds, i.Kind)
	}
	return kinds
}

func Test_Validate_ReportsProblems(t *testing.T) {
	ds := &models.Dataset{
		Curricula: []models.Curriculum{
			{ID: "c", Status: "bogus", Difficulty: "hard", ModuleCount: 2, LessonCount: 1},
			{ID: "c", Status: models.StatusActive},
		},
		Modules: []models.Module{
			{ID: "m", CurriculumID: "c", Lessons: []models.Lesson{{ID: "l"}, {ID: "l", Difficulty: "??"}}},
			{ID: "m", CurriculumID: "c"},
			{ID: "orphan", CurriculumID: "ghost"},
		},
	}

	kinds := issueKinds(Validate(ds))

	assert.Contains(t, kinds, IssueDuplicateCurriculum)
	assert.Contains(t, kinds, IssueInvalidStatus)
	assert.Contains(t, kinds, IssueInvalidDifficulty)
	assert.Contains(t, kinds, IssueDuplicateModule)
	assert.Contains(t, kinds, IssueDuplicateLesson)
	assert.Contains(t, kinds, IssueOrphanModule)
	assert.Contains(t, kinds, IssueCountMismatch)
}

func Test_Validate_EmptyValuesAllowed(t *testing.T) {
	ds := &models.Dataset{Curricula: []models.Curriculum{{ID: "c"}}}
	assert.Empty(t, Validate(ds))
}
