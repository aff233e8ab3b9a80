package curriculum

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Watch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.json", `{"curricula":[{"id":"before"}],"modules":[]}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Manager, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, nil, path, func(m *Manager, info LoadInfo) {
			if info.Source == SourceFile {
				reloaded <- m
			}
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"curricula":[{"id":"after"}],"modules":[]}`), 0644))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case m := <-reloaded:
			if _, err := m.FindByID("after"); err == nil {
				cancel()
				assert.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func Test_Watch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.json", `{"curricula":[],"modules":[]}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 8)
	go Watch(ctx, nil, path, func(*Manager, LoadInfo) { calls <- struct{}{} })

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644))

	select {
	case <-calls:
		t.Fatal("reload fired for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func Test_Watch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), nil, filepath.Join(t.TempDir(), "gone", "c.json"), func(*Manager, LoadInfo) {})
	assert.Error(t, err)
}
