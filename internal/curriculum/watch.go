package curriculum

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bjpl/algolearn/internal/logging"
)

// ReloadFunc receives a freshly loaded Manager after the watched file changes
type ReloadFunc func(*Manager, LoadInfo)

// Watch reloads path whenever it is written or created,
// calling onReload with the result. It watches the parent directory so that
// atomic replacements are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, log *logging.Logger, path string, onReload ReloadFunc) error {
	if log == nil {
		log = logging.Nop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watch_start", "path", abs)

	for {
		select {
		case <-ctx.Done():
			log.Info("watch_stop", "path", abs)
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("watch_event", "path", ev.Name, "op", ev.Op.String())
			m, info := Load(log, abs)
			onReload(m, info)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch_error", "error", err.Error())
		}
	}
}
