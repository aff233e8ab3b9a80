package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjpl/algolearn/internal/config"
	"github.com/bjpl/algolearn/internal/curriculum"
	"github.com/bjpl/algolearn/internal/database"
	"github.com/bjpl/algolearn/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "progress.db")}, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	s := NewStore(db, nil)
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

var (
	bigO   = LessonRef{CurriculumID: "algorithms-fundamentals", ModuleID: "foundations", LessonID: "big-o-notation"}
	arrays = LessonRef{CurriculumID: "algorithms-fundamentals", ModuleID: "foundations", LessonID: "arrays-and-strings"}
	lists  = LessonRef{CurriculumID: "algorithms-fundamentals", ModuleID: "linear-structures", LessonID: "linked-lists"}
)

func Test_Store_StartIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Start(ctx, "ada", bigO)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressStarted, first.Status)
	assert.Nil(t, first.CompletedAt)

	again, err := s.Start(ctx, "ada", bigO)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, first.StartedAt.Equal(again.StartedAt))

	rows, err := s.ForUser(ctx, "ada", "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func Test_Store_CompleteUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	started, err := s.Start(ctx, "ada", bigO)
	require.NoError(t, err)

	done, err := s.Complete(ctx, "ada", bigO)
	require.NoError(t, err)
	assert.Equal(t, started.ID, done.ID)
	assert.True(t, done.IsCompleted())
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.StartedAt.Equal(started.StartedAt))
	assert.True(t, done.CompletedAt.After(done.StartedAt))

	fresh, err := s.Complete(ctx, "ada", arrays)
	require.NoError(t, err)
	assert.True(t, fresh.IsCompleted())
}

func Test_Store_StartDoesNotDowngrade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Complete(ctx, "ada", bigO)
	require.NoError(t, err)

	row, err := s.Start(ctx, "ada", bigO)
	require.NoError(t, err)
	assert.True(t, row.IsCompleted())
}

func Test_Store_UsersAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Complete(ctx, "ada", bigO)
	require.NoError(t, err)

	_, err = s.Get(ctx, "bob", bigO.LessonID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func Test_Store_Reset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "ada", bigO)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx, "ada", bigO.LessonID))
	_, err = s.Get(ctx, "ada", bigO.LessonID)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(s.Reset(ctx, "ada", bigO.LessonID), ErrNotFound))
}

func Test_Store_ResetCurriculum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, ref := range []LessonRef{bigO, arrays, lists} {
		_, err := s.Start(ctx, "ada", ref)
		require.NoError(t, err)
	}
	_, err := s.Start(ctx, "ada", LessonRef{CurriculumID: "interview-prep", ModuleID: "interview-patterns", LessonID: "two-pointers"})
	require.NoError(t, err)

	n, err := s.ResetCurriculum(ctx, "ada", "algorithms-fundamentals")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rows, err := s.ForUser(ctx, "ada", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "two-pointers", rows[0].LessonID)
}

func Test_Store_ForUserFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Start(ctx, "ada", bigO)
	require.NoError(t, err)
	_, err = s.Start(ctx, "ada", lists)
	require.NoError(t, err)
	_, err = s.Start(ctx, "ada", LessonRef{CurriculumID: "interview-prep", LessonID: "two-pointers"})
	require.NoError(t, err)

	rows, err := s.ForUser(ctx, "ada", "algorithms-fundamentals")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "linked-lists", rows[0].LessonID)
}

func Test_Store_Summary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := curriculum.NewManager(curriculum.DefaultDataset())

	_, err := s.Complete(ctx, "ada", bigO)
	require.NoError(t, err)
	_, err = s.Complete(ctx, "ada", arrays)
	require.NoError(t, err)
	_, err = s.Start(ctx, "ada", lists)
	require.NoError(t, err)
	// a stale row for a lesson that is not in the curriculum
	_, err = s.Complete(ctx, "ada", LessonRef{CurriculumID: "algorithms-fundamentals", LessonID: "retired"})
	require.NoError(t, err)

	sum, err := s.Summary(ctx, repo, "ada", "Algorithms & Data Structures Fundamentals")
	require.NoError(t, err)

	assert.Equal(t, "algorithms-fundamentals", sum.CurriculumID)
	assert.Equal(t, 6, sum.Total)
	assert.Equal(t, 2, sum.Completed)
	assert.Equal(t, 1, sum.Started)
	assert.InDelta(t, 33.333, sum.Percent, 0.01)

	require.Len(t, sum.Modules, 3)
	assert.Equal(t, ModuleSummary{ModuleID: "foundations", Title: "Foundations", Completed: 2, Total: 2}, sum.Modules[0])
	assert.Equal(t, 1, sum.Modules[1].Started)
	assert.Equal(t, 0, sum.Modules[2].Completed)
}

func Test_Store_SummaryUnknownCurriculum(t *testing.T) {
	s := newTestStore(t)
	repo := curriculum.NewManager(curriculum.DefaultDataset())

	_, err := s.Summary(context.Background(), repo, "ada", "nope")
	assert.True(t, errors.Is(err, curriculum.ErrNotFound))
}
