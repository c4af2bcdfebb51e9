package sqlite

import (
	"database/sql"
	"fmt"

	"thermalcam/internal/models"
)

// SnapshotRepository stores snapshot metadata in SQLite.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SQLite snapshot repository.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Insert adds a new snapshot record and returns its ID.
func (r *SnapshotRepository) Insert(s *models.Snapshot) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO snapshots (filename, source, captured_at, filepath, filesize, max_temp, min_temp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.Filename, s.Source, s.CapturedAt, s.FilePath, s.FileSize, s.MaxTemp, s.MinTemp)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves a snapshot by its ID, or nil when absent.
func (r *SnapshotRepository) GetByID(id int64) (*models.Snapshot, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var s models.Snapshot
	err := r.db.Conn().QueryRow(`
		SELECT id, filename, source, captured_at, filepath, filesize, max_temp, min_temp
		FROM snapshots WHERE id = ?
	`, id).Scan(&s.ID, &s.Filename, &s.Source, &s.CapturedAt, &s.FilePath, &s.FileSize, &s.MaxTemp, &s.MinTemp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &s, nil
}

// GetByFilename retrieves a snapshot by filename, or nil when absent.
func (r *SnapshotRepository) GetByFilename(filename string) (*models.Snapshot, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var s models.Snapshot
	err := r.db.Conn().QueryRow(`
		SELECT id, filename, source, captured_at, filepath, filesize, max_temp, min_temp
		FROM snapshots WHERE filename = ?
	`, filename).Scan(&s.ID, &s.Filename, &s.Source, &s.CapturedAt, &s.FilePath, &s.FileSize, &s.MaxTemp, &s.MinTemp)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &s, nil
}

// GetAll retrieves snapshots, newest first, optionally filtered by source.
func (r *SnapshotRepository) GetAll(source string) ([]models.Snapshot, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT id, filename, source, captured_at, filepath, filesize, max_temp, min_temp
		FROM snapshots
	`
	args := []interface{}{}
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY captured_at DESC"

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var s models.Snapshot
		if err := rows.Scan(&s.ID, &s.Filename, &s.Source, &s.CapturedAt, &s.FilePath, &s.FileSize, &s.MaxTemp, &s.MinTemp); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Delete removes a snapshot record.
func (r *SnapshotRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM snapshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// BulkInsert inserts many records in one transaction; used by cmd/migrate.
func (r *SnapshotRepository) BulkInsert(snapshots []models.Snapshot) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO snapshots (filename, source, captured_at, filepath, filesize, max_temp, min_temp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range snapshots {
		if _, err := stmt.Exec(s.Filename, s.Source, s.CapturedAt, s.FilePath, s.FileSize, s.MaxTemp, s.MinTemp); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert %s: %w", s.Filename, err)
		}
	}

	return tx.Commit()
}
