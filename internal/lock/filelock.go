// Package lock serializes writers of shared files with an advisory flock.
package lock

import (
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"
)

const pollInterval = 25 * time.Millisecond

// FileLock is an exclusive advisory lock held on a sidecar file
type FileLock struct {
	path     string
	file     *os.File
	released bool
	mu       sync.Mutex
}

// PathFor returns the sidecar lock path used for target
func PathFor(target string) string {
	return target + ".lock"
}

// TryAcquire takes the lock without waiting. It returns (nil, nil) when
// another holder has it.
func TryAcquire(path string) (*FileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return nil, nil
		}
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &FileLock{path: path, file: file}, nil
}

// Acquire polls TryAcquire until the lock is free or ctx is done
func Acquire(ctx context.Context, path string) (*FileLock, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		l, err := TryAcquire(path)
		if err != nil {
			return nil, err
		}
		if l != nil {
			return l, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", path, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Path returns the lock file path
func (l *FileLock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. Safe to call more than once.
func (l *FileLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return nil
	}
	l.released = true

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
