package dto

import "thermalcam/internal/models"

// SnapshotInfo is the gallery listing shape for one stored still.
type SnapshotInfo struct {
	ID         int64    `json:"id"`
	Filename   string   `json:"filename"`
	Source     string   `json:"source"`
	CapturedAt string   `json:"captured_at"`
	FileSize   int64    `json:"file_size"`
	MaxTemp    *float64 `json:"max,omitempty"`
	MinTemp    *float64 `json:"min,omitempty"`
}

// NewSnapshotInfo converts a stored snapshot record to its listing shape.
func NewSnapshotInfo(s models.Snapshot) SnapshotInfo {
	info := SnapshotInfo{
		ID:         s.ID,
		Filename:   s.Filename,
		Source:     s.Source,
		CapturedAt: s.CapturedAt.Format("2006-01-02 15:04:05"),
		FileSize:   s.FileSize,
	}
	if s.MaxTemp.Valid {
		v := s.MaxTemp.Float64
		info.MaxTemp = &v
	}
	if s.MinTemp.Valid {
		v := s.MinTemp.Float64
		info.MinTemp = &v
	}
	return info
}
