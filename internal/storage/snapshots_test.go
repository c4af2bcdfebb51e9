package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"thermalcam/internal/config"
	"thermalcam/internal/logger"
	"thermalcam/internal/models"
	"thermalcam/internal/repository/sqlite"
)

var (
	sLogOnce sync.Once
	sLogger  *logger.Logger
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	sLogOnce.Do(func() {
		dir, err := os.MkdirTemp("", "storage_test_logs")
		if err != nil {
			t.Fatalf("Failed to create temp dir: %v", err)
		}
		cfg := config.Load()
		cfg.LogDir = dir
		sLogger = logger.NewLogger(cfg)
	})
	return sLogger
}

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSnapshotStore(filepath.Join(dir, "stills"), sqlite.NewSnapshotRepository(db), newTestLogger(t))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestSnapshotStore_SaveResolveDelete(t *testing.T) {
	store := newTestStore(t)

	capturedAt := time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)
	var snapshot models.Snapshot
	saved, err := store.Save([]byte("jpeg-bytes"), "thermal", capturedAt, &snapshot)
	if err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}
	if saved.ID == 0 {
		t.Error("saved snapshot has no ID")
	}
	if saved.Filename != "2025-06-01_10-30-00.000_thermal.jpg" {
		t.Errorf("unexpected filename: %s", saved.Filename)
	}
	if saved.FileSize != int64(len("jpeg-bytes")) {
		t.Errorf("unexpected file size: %d", saved.FileSize)
	}

	data, err := os.ReadFile(saved.FilePath)
	if err != nil {
		t.Fatalf("still not written: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Error("still content mismatch")
	}

	path, err := store.Resolve(saved.Filename)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if path != saved.FilePath {
		t.Errorf("Resolve returned %s, want %s", path, saved.FilePath)
	}

	if err := store.Delete(saved.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(saved.FilePath); !os.IsNotExist(err) {
		t.Error("still not removed from disk")
	}
	if _, err := store.Resolve(saved.Filename); err == nil {
		t.Error("Resolve should fail after delete")
	}
}

func TestSnapshotStore_ResolveRefusesUnknownNames(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Resolve("../../etc/passwd"); err == nil {
		t.Error("Resolve accepted a name that was never stored")
	}
	if _, err := store.Resolve("ghost.jpg"); err == nil {
		t.Error("Resolve accepted an unknown filename")
	}
}
