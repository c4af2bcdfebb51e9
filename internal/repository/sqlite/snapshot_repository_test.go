package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"thermalcam/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "snapshot_repo_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotRepository_InsertAndGet(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	snap := &models.Snapshot{
		Filename:   "2025-06-01_10-00-00.000_thermal.jpg",
		Source:     "thermal",
		CapturedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		FilePath:   "/snapshots/2025-06-01_10-00-00.000_thermal.jpg",
		FileSize:   2048,
		MaxTemp:    sql.NullFloat64{Float64: 31.5, Valid: true},
		MinTemp:    sql.NullFloat64{Float64: 19.25, Valid: true},
	}

	id, err := repo.Insert(snap)
	if err != nil {
		t.Fatalf("Failed to insert snapshot: %v", err)
	}
	if id == 0 {
		t.Error("Insert returned zero ID")
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing snapshot")
	}
	if got.Filename != snap.Filename || got.Source != "thermal" || got.FileSize != 2048 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if !got.MaxTemp.Valid || got.MaxTemp.Float64 != 31.5 {
		t.Errorf("unexpected max_temp: %+v", got.MaxTemp)
	}
	if !got.CapturedAt.Equal(snap.CapturedAt) {
		t.Errorf("captured_at changed: %v != %v", got.CapturedAt, snap.CapturedAt)
	}

	byName, err := repo.GetByFilename(snap.Filename)
	if err != nil {
		t.Fatalf("Failed to get snapshot by filename: %v", err)
	}
	if byName == nil || byName.ID != id {
		t.Errorf("GetByFilename mismatch: %+v", byName)
	}
}

func TestSnapshotRepository_GetMissing(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	got, err := repo.GetByID(42)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing ID, got %+v", got)
	}

	got, err = repo.GetByFilename("nope.jpg")
	if err != nil {
		t.Fatalf("GetByFilename failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing filename, got %+v", got)
	}
}

func TestSnapshotRepository_GetAllOrderAndFilter(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, source := range []string{"camera", "thermal", "camera"} {
		_, err := repo.Insert(&models.Snapshot{
			Filename:   source + "_" + base.Add(time.Duration(i)*time.Minute).Format("15-04-05") + ".jpg",
			Source:     source,
			CapturedAt: base.Add(time.Duration(i) * time.Minute),
			FilePath:   "/snapshots/x.jpg",
			FileSize:   100,
		})
		if err != nil {
			t.Fatalf("Failed to insert snapshot %d: %v", i, err)
		}
	}

	all, err := repo.GetAll("")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAll returned %d snapshots, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CapturedAt.After(all[i-1].CapturedAt) {
			t.Errorf("snapshots not ordered newest first: %v before %v", all[i-1].CapturedAt, all[i].CapturedAt)
		}
	}

	cameras, err := repo.GetAll("camera")
	if err != nil {
		t.Fatalf("GetAll(camera) failed: %v", err)
	}
	if len(cameras) != 2 {
		t.Errorf("GetAll(camera) returned %d snapshots, want 2", len(cameras))
	}
	for _, s := range cameras {
		if s.Source != "camera" {
			t.Errorf("filter leaked source %q", s.Source)
		}
	}
}

func TestSnapshotRepository_Delete(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	id, err := repo.Insert(&models.Snapshot{
		Filename:   "gone.jpg",
		Source:     "camera",
		CapturedAt: time.Now(),
		FilePath:   "/snapshots/gone.jpg",
		FileSize:   1,
	})
	if err != nil {
		t.Fatalf("Failed to insert snapshot: %v", err)
	}

	if err := repo.Delete(id); err != nil {
		t.Fatalf("Failed to delete snapshot: %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID after delete failed: %v", err)
	}
	if got != nil {
		t.Errorf("snapshot still present after delete: %+v", got)
	}
}

func TestSnapshotRepository_BulkInsertIgnoresDuplicates(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	batch := []models.Snapshot{
		{Filename: "a.jpg", Source: "camera", CapturedAt: time.Now(), FilePath: "/s/a.jpg", FileSize: 1},
		{Filename: "b.jpg", Source: "thermal", CapturedAt: time.Now(), FilePath: "/s/b.jpg", FileSize: 2},
		{Filename: "a.jpg", Source: "camera", CapturedAt: time.Now(), FilePath: "/s/a.jpg", FileSize: 1},
	}
	if err := repo.BulkInsert(batch); err != nil {
		t.Fatalf("BulkInsert failed: %v", err)
	}

	all, err := repo.GetAll("")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("BulkInsert stored %d snapshots, want 2 (duplicate filename ignored)", len(all))
	}
}
