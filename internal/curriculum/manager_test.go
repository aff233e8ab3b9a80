package curriculum

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjpl/algolearn/internal/models"
)

func defaultManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(DefaultDataset())
}

func Test_Manager_FindByID_RoundTrip(t *testing.T) {
	m := defaultManager(t)

	for _, c := range m.Curricula(Filter{}) {
		found, err := m.FindByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
		assert.Equal(t, c.Name, found.Name)
	}
}

func Test_Manager_FindByID_Missing(t *testing.T) {
	_, err := defaultManager(t).FindByID("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func Test_Manager_FindByName_CaseInsensitive(t *testing.T) {
	c, err := defaultManager(t).FindByName("advanced algorithm design")
	require.NoError(t, err)
	assert.Equal(t, "advanced-algorithms", c.ID)
}

func Test_Find_FallsBackToName(t *testing.T) {
	m := defaultManager(t)

	byID, err := Find(m, "interview-prep")
	require.NoError(t, err)
	assert.Equal(t, "interview-prep", byID.ID)

	byName, err := Find(m, "Coding Interview Preparation")
	require.NoError(t, err)
	assert.Equal(t, "interview-prep", byName.ID)

	_, err = Find(m, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func Test_Manager_Curricula_FilterPredicatesHold(t *testing.T) {
	m := defaultManager(t)

	filters := []Filter{
		{Status: models.StatusActive},
		{Difficulty: models.DifficultyAdvanced},
		{Category: "computer"},
		{Author: "chen"},
		{Tag: "DATA-STRUCTURES"},
		{Search: "interview"},
		{Author: "chen", Status: models.StatusDraft},
	}

	for _, f := range filters {
		got := m.Curricula(f)
		require.NotEmpty(t, got, "filter %+v", f)
		for i := range got {
			assert.True(t, f.Matches(&got[i]), "filter %+v returned %s", f, got[i].ID)
		}
	}
}

func Test_Manager_Curricula_PreservesOrder(t *testing.T) {
	got := defaultManager(t).Curricula(Filter{Category: "Computer Science"})
	require.Len(t, got, 2)
	assert.Equal(t, "algorithms-fundamentals", got[0].ID)
	assert.Equal(t, "advanced-algorithms", got[1].ID)
}

func Test_Manager_Curricula_NoMatch(t *testing.T) {
	got := defaultManager(t).Curricula(Filter{Status: models.StatusArchived})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func Test_Manager_Modules_SortedByOrder(t *testing.T) {
	ds := &models.Dataset{
		Curricula: []models.Curriculum{{ID: "c"}},
		Modules: []models.Module{
			{ID: "third", CurriculumID: "c", Order: 3},
			{ID: "other", CurriculumID: "x", Order: 1},
			{ID: "first", CurriculumID: "c", Order: 1},
			{ID: "second", CurriculumID: "c", Order: 2},
		},
	}
	mods := NewManager(ds).Modules("c")
	require.Len(t, mods, 3)
	assert.Equal(t, "first", mods[0].ID)
	assert.Equal(t, "second", mods[1].ID)
	assert.Equal(t, "third", mods[2].ID)
}

func Test_Manager_FindLesson(t *testing.T) {
	m := defaultManager(t)

	lesson, mod, err := m.FindLesson("merge-sort")
	require.NoError(t, err)
	assert.Equal(t, "Merge Sort", lesson.Title)
	assert.Equal(t, "sorting-searching", mod.ID)

	_, _, err = m.FindLesson("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func Test_Manager_Statistics(t *testing.T) {
	stats := defaultManager(t).Statistics()

	assert.Equal(t, 3, stats.TotalCurricula)
	assert.Equal(t, 6, stats.TotalModules)
	assert.Equal(t, 11, stats.TotalLessons)
	assert.Equal(t, 2570, stats.TotalStudents)
	assert.Equal(t, 113, stats.TotalPracticeProblems)
	assert.Equal(t, 1, stats.ByStatus["active"])
	assert.Equal(t, 1, stats.ByStatus["draft"])
	assert.Equal(t, 2, stats.ByCategory["Computer Science"])
	assert.InDelta(t, 4.6667, stats.AverageRating, 0.001)
	assert.InDelta(t, 0.5467, stats.AverageCompletionRate, 0.001)
}

func Test_Manager_Statistics_Empty(t *testing.T) {
	stats := NewManager(nil).Statistics()
	assert.Equal(t, 0, stats.TotalCurricula)
	assert.Zero(t, stats.AverageRating)
}

func Test_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))

	m, info := Load(nil, filepath.Join(dir, "missing.json"), bad)

	assert.Equal(t, SourceDefault, info.Source)
	require.Len(t, info.Skipped, 2)
	assert.Equal(t, "not found", info.Skipped[0].Reason)
	assert.Contains(t, info.Skipped[1].Reason, "invalid JSON")
	assert.Len(t, m.Curricula(Filter{}), 3)
}

func Test_Manager_Curricula_EmptyFilterReturnsCopy(t *testing.T) {
	m := defaultManager(t)

	all := m.Curricula(Filter{})
	require.Len(t, all, 3)
	all[0].Name = "changed"

	assert.NotEqual(t, "changed", m.Curricula(Filter{})[0].Name)
	assert.NotNil(t, NewManager(&models.Dataset{}).Curricula(Filter{}))
}
