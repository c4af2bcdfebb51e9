// Package storage writes snapshot stills to disk and keeps their metadata
// rows in the snapshot repository.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"thermalcam/internal/logger"
	"thermalcam/internal/models"
	"thermalcam/internal/repository/sqlite"
)

// SnapshotStore persists captured stills. Writes go straight through to
// disk plus one metadata row; snapshots are user-triggered and rare.
type SnapshotStore struct {
	dir    string
	repo   *sqlite.SnapshotRepository
	logger *logger.Logger
}

// NewSnapshotStore creates the store and ensures the stills directory
// exists.
func NewSnapshotStore(dir string, repo *sqlite.SnapshotRepository, log *logger.Logger) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotStore{dir: dir, repo: repo, logger: log}, nil
}

// Save writes the JPEG to disk and records its metadata. The max/min
// temperatures are only set for thermal snapshots.
func (s *SnapshotStore) Save(jpeg []byte, source string, capturedAt time.Time, snapshot *models.Snapshot) (*models.Snapshot, error) {
	filename := fmt.Sprintf("%s_%s.jpg", capturedAt.Format("2006-01-02_15-04-05.000"), source)
	fullpath := filepath.Join(s.dir, filename)

	if err := os.WriteFile(fullpath, jpeg, 0644); err != nil {
		return nil, fmt.Errorf("failed to save snapshot %s: %w", filename, err)
	}

	snapshot.Filename = filename
	snapshot.Source = source
	snapshot.CapturedAt = capturedAt
	snapshot.FilePath = fullpath
	snapshot.FileSize = int64(len(jpeg))

	id, err := s.repo.Insert(snapshot)
	if err != nil {
		os.Remove(fullpath)
		return nil, err
	}
	snapshot.ID = id

	s.logger.Info("Saved %s snapshot %s (%d bytes)", source, filename, len(jpeg))
	return snapshot, nil
}

// Delete removes the metadata row and the still from disk.
func (s *SnapshotStore) Delete(id int64) error {
	snapshot, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("snapshot %d not found", id)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if err := os.Remove(snapshot.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warning("Failed to remove still %s: %v", snapshot.FilePath, err)
	}
	return nil
}

// List returns stored snapshots, newest first.
func (s *SnapshotStore) List(source string) ([]models.Snapshot, error) {
	return s.repo.GetAll(source)
}

// Resolve returns the on-disk path for a stored filename, refusing names
// that are not present in the repository.
func (s *SnapshotStore) Resolve(filename string) (string, error) {
	snapshot, err := s.repo.GetByFilename(filename)
	if err != nil {
		return "", err
	}
	if snapshot == nil {
		return "", fmt.Errorf("snapshot %s not found", filename)
	}
	return snapshot.FilePath, nil
}

// Dir returns the stills directory.
func (s *SnapshotStore) Dir() string {
	return s.dir
}
