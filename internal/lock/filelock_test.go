package lock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TryAcquire_CreatesLockFile(t *testing.T) {
	path := PathFor(filepath.Join(t.TempDir(), "export.json"))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	l, err := TryAcquire(path)
	require.NoError(t, err)
	require.NotNil(t, l)
	defer l.Release()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, path, l.Path())
}

func Test_TryAcquire_ReturnsNilWhenHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.lock")

	first, err := TryAcquire(path)
	require.NoError(t, err)
	require.NotNil(t, first)
	defer first.Release()

	second, err := TryAcquire(path)
	require.NoError(t, err)
	assert.Nil(t, second)
}

func Test_Acquire_WaitsForRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.lock")

	first, err := TryAcquire(path)
	require.NoError(t, err)

	acquired := make(chan *FileLock, 1)
	go func() {
		l, err := Acquire(context.Background(), path)
		if err == nil {
			acquired <- l
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second holder got the lock while first still held it")
	case <-time.After(60 * time.Millisecond):
	}

	require.NoError(t, first.Release())

	select {
	case l := <-acquired:
		require.NoError(t, l.Release())
	case <-time.After(2 * time.Second):
		t.Fatal("lock was not handed over after release")
	}
}

func Test_Acquire_ContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.lock")

	held, err := TryAcquire(path)
	require.NoError(t, err)
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	l, err := Acquire(ctx, path)
	assert.Nil(t, l)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func Test_Release_Idempotent(t *testing.T) {
	l, err := TryAcquire(filepath.Join(t.TempDir(), "x.lock"))
	require.NoError(t, err)

	assert.NoError(t, l.Release())
	assert.NoError(t, l.Release())
}

func Test_TryAcquire_BadDirectory(t *testing.T) {
	_, err := TryAcquire(filepath.Join(t.TempDir(), "missing", "x.lock"))
	assert.Error(t, err)
}
