package curriculum

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjpl/algolearn/internal/models"
)

func Test_Export_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "curriculum.json")

	require.NoError(t, Export(context.Background(), DefaultDataset(), path))

	ds, info := LoadDataset(path)
	assert.Equal(t, SourceFile, info.Source)
	assert.Len(t, ds.Curricula, 3)
	assert.Equal(t, 11, ds.LessonCount())

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func Test_Export_UpgradesLegacy(t *testing.T) {
	dir := t.TempDir()
	legacy := writeFile(t, dir, "legacy.json", `{"modules":[{"id":"m1","lessons":[{"id":"l1"}]}]}`)
	out := filepath.Join(dir, "upgraded.json")

	ds, _ := LoadDataset(legacy)
	require.NoError(t, Export(context.Background(), ds, out))

	again, info := LoadDataset(out)
	assert.Equal(t, SourceFile, info.Source)
	require.Len(t, again.Curricula, 1)
	assert.Equal(t, 1, again.Curricula[0].LessonCount)
}

func Test_Export_EmptyDatasetWritesArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Export(context.Background(), &models.Dataset{}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"curricula": []`)
	assert.Contains(t, string(data), `"modules": []`)
}

func Test_Export_ConcurrentWritersProduceValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, Export(context.Background(), DefaultDataset(), path))
		}()
	}
	wg.Wait()

	_, _, err := parseFile(t, path)
	assert.NoError(t, err)
}

func parseFile(t *testing.T, path string) (*models.Dataset, Source, error) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return ParseDataset(data)
}
