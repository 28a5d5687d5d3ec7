package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a filesystem change.
type ChangeEvent struct {
	Path       string
	ChangeType string // "create", "write", "remove", "rename"
}

// FSWatcher watches a single directory. Events for names that do not pass
// the filter are dropped before debouncing.
type FSWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   func(name string) bool
	onChange func(ChangeEvent)
}

func NewFSWatcher(debounce time.Duration, onChange func(ChangeEvent)) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 200 * time.Millisecond
	}
	return &FSWatcher{
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// OnlyFile restricts events to one base name.
func (w *FSWatcher) OnlyFile(name string) *FSWatcher {
	w.filter = func(path string) bool { return filepath.Base(path) == name }
	return w
}

// Watch adds dir to the watch list. Watching the directory rather than the
// file keeps events flowing when the file is created or replaced.
func (w *FSWatcher) Watch(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *FSWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var lastEvent ChangeEvent
	debouncer := NewDebouncer(w.debounce, func() {
		if w.onChange != nil {
			w.onChange(lastEvent)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			debouncer.Flush()
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}
			if w.filter != nil && !w.filter(event.Name) {
				continue
			}
			lastEvent = ChangeEvent{Path: event.Name, ChangeType: changeType}
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
