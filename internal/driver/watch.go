package driver

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces editor save bursts (write, chmod, rename) into a
// single rebuild.
const watchDebounce = 100 * time.Millisecond

// Watch calls fn with the set of changed paths whenever one of paths is
// written or replaced. Directories are watched rather than files so that
// editors that save by renaming keep triggering. Watch blocks until ctx is
// done or fn returns an error.
func Watch(ctx context.Context, paths []string, fn func(changed []string) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	wanted := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		wanted[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if orig, ok := wanted[abs]; ok {
				pending[orig] = true
				timer.Reset(watchDebounce)
			}
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for _, p := range paths {
				if pending[p] {
					changed = append(changed, p)
				}
			}
			clear(pending)
			if err := fn(changed); err != nil {
				return err
			}
		}
	}
}
