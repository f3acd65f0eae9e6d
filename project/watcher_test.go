package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsLuaFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(50 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changes := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(paths []string) {
			select {
			case changes <- paths:
			default:
			}
		})
	}()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "main.lua")
	if err := os.WriteFile(target, []byte("x=1"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		if len(paths) != 1 || filepath.Base(paths[0]) != "main.lua" {
			t.Errorf("changed paths = %v", paths)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() = %v", err)
	}
}
