package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Follower reports complete lines appended to a file, like tail -f.
type Follower struct {
	path     string
	debounce time.Duration
	onLines  func([]string)

	mu      sync.Mutex
	offset  int64
	partial []byte
}

func NewFollower(path string, debounce time.Duration, onLines func([]string)) *Follower {
	return &Follower{path: path, debounce: debounce, onLines: onLines}
}

// SeekEnd skips everything currently in the file.
func (f *Follower) SeekEnd() error {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	f.mu.Lock()
	f.offset = info.Size()
	f.partial = nil
	f.mu.Unlock()
	return nil
}

// Poll reads bytes written since the last poll and emits the complete lines.
// A file that shrank is read again from the start.
func (f *Follower) Poll() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.offset, f.partial = 0, nil
			return nil
		}
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < f.offset {
		f.offset, f.partial = 0, nil
	}
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.offset += int64(len(data))

	data = append(f.partial, data...)
	cut := bytes.LastIndexByte(data, '\n')
	if cut < 0 {
		f.partial = data
		return nil
	}
	f.partial = append([]byte(nil), data[cut+1:]...)

	var lines []string
	for _, line := range bytes.Split(data[:cut], []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, string(line))
	}
	if len(lines) > 0 && f.onLines != nil {
		f.onLines(lines)
	}
	return nil
}

// Run polls on every change to the file until ctx is cancelled. Poll errors
// are passed to onError and do not stop the loop.
func (f *Follower) Run(ctx context.Context, onError func(error)) error {
	w, err := NewFSWatcher(f.debounce, func(ChangeEvent) {
		if err := f.Poll(); err != nil && onError != nil {
			onError(err)
		}
	})
	if err != nil {
		return err
	}
	w.OnlyFile(filepath.Base(f.path))
	if err := w.Watch(filepath.Dir(f.path)); err != nil {
		return err
	}
	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
