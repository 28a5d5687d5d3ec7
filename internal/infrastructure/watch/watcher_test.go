package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestFSWatcher_DetectsFileWrite(t *testing.T) {
	dir := t.TempDir()

	ledgerFile := filepath.Join(dir, "policy.dat")
	if err := os.WriteFile(ledgerFile, []byte("1944\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var eventCount atomic.Int32
	w, err := NewFSWatcher(50*time.Millisecond, func(e ChangeEvent) {
		eventCount.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(dir); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Run(ctx)
	}()

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(ledgerFile, []byte("1944\n1945\n"), 0600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	cancel()

	if eventCount.Load() == 0 {
		t.Error("expected at least one change event")
	}
}

func TestFSWatcher_OnlyFileIgnoresOthers(t *testing.T) {
	dir := t.TempDir()

	var eventCount atomic.Int32
	w, err := NewFSWatcher(50*time.Millisecond, func(e ChangeEvent) {
		eventCount.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	w.OnlyFile("policy.dat")
	if err := w.Watch(dir); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "const.dat"), []byte("1944\n"), 0600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	cancel()

	if got := eventCount.Load(); got != 0 {
		t.Errorf("expected no events for other files, got %d", got)
	}
}

func TestFSWatcher_ContextCancellation(t *testing.T) {
	dir := t.TempDir()

	w, err := NewFSWatcher(50*time.Millisecond, func(e ChangeEvent) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(dir); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop after context cancellation")
	}
}
