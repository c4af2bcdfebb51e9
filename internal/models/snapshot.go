package models

import (
	"database/sql"
	"time"
)

// Snapshot is a still image captured from one of the pipelines, stored on
// disk with its metadata row.
type Snapshot struct {
	ID         int64           `json:"id"`
	Filename   string          `json:"filename"`
	Source     string          `json:"source"` // "camera" or "thermal"
	CapturedAt time.Time       `json:"captured_at"`
	FilePath   string          `json:"-"`
	FileSize   int64           `json:"file_size"`
	MaxTemp    sql.NullFloat64 `json:"-"`
	MinTemp    sql.NullFloat64 `json:"-"`
}
