package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"thermalcam/internal/config"
	"thermalcam/internal/dto"
	"thermalcam/internal/history"
	"thermalcam/internal/logger"
	"thermalcam/internal/models"
	"thermalcam/internal/pipeline"
	"thermalcam/internal/render"
	"thermalcam/internal/storage"
)

// CaptureSnapshotHandler captures the current frame of the requested
// source through the staleness-gated read path and stores it as a still.
func CaptureSnapshotHandler(thermal *pipeline.Thermal, camera *pipeline.Camera, store *storage.SnapshotStore, cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		source := r.URL.Query().Get("source")
		if source == "" {
			source = "camera"
		}

		var snapshot models.Snapshot
		var jpeg []byte

		switch source {
		case "camera":
			camera.EnsureStarted()
			frame, capturedAt, ok := camera.Latest(cfg.StreamFrameMaxAge)
			if !ok {
				writeJSONError(w, http.StatusServiceUnavailable, "Camera data not available")
				return
			}
			encoded, err := render.CameraJPEG(frame, cfg.StreamWidth, cfg.StreamHeight, cfg.JPEGQuality)
			if err != nil {
				log.Error("Snapshot encode failed: %v", err)
				writeJSONError(w, http.StatusInternalServerError, "Snapshot encode failed")
				return
			}
			jpeg = encoded
			snapshot.CapturedAt = capturedAt

		case "thermal":
			thermal.EnsureStarted()
			frame, capturedAt, ok := thermal.Latest(cfg.ThermalMaxAge)
			if !ok {
				writeJSONError(w, http.StatusServiceUnavailable, "MLX90640 data not available")
				return
			}
			encoded, err := render.ThermalJPEG(frame, cfg.ThermalStreamWidth, cfg.ThermalStreamHeight, cfg.JPEGQuality)
			if err != nil {
				log.Error("Snapshot encode failed: %v", err)
				writeJSONError(w, http.StatusInternalServerError, "Snapshot encode failed")
				return
			}
			jpeg = encoded
			snapshot.CapturedAt = capturedAt
			snapshot.MaxTemp = sql.NullFloat64{Float64: history.Round2(frame.Max), Valid: true}
			snapshot.MinTemp = sql.NullFloat64{Float64: history.Round2(frame.Min), Valid: true}

		default:
			writeJSONError(w, http.StatusBadRequest, "Unknown source: "+source)
			return
		}

		saved, err := store.Save(jpeg, source, snapshot.CapturedAt, &snapshot)
		if err != nil {
			log.Error("Snapshot save failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Snapshot save failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dto.NewSnapshotInfo(*saved))
	}
}

// ListSnapshotsHandler lists stored stills, newest first.
func ListSnapshotsHandler(store *storage.SnapshotStore, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshots, err := store.List(r.URL.Query().Get("source"))
		if err != nil {
			log.Error("Snapshot list failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Snapshot list failed")
			return
		}

		infos := make([]dto.SnapshotInfo, 0, len(snapshots))
		for _, s := range snapshots {
			infos = append(infos, dto.NewSnapshotInfo(s))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(infos); err != nil {
			log.Error("Error encoding snapshot list: %v", err)
		}
	}
}

// ViewSnapshotHandler serves one stored still by filename.
func ViewSnapshotHandler(store *storage.SnapshotStore, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := filepath.Base(r.URL.Query().Get("file"))
		path, err := store.Resolve(filename)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

// DeleteSnapshotHandler removes a stored still and its metadata.
func DeleteSnapshotHandler(store *storage.SnapshotStore, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid snapshot id")
			return
		}

		if err := store.Delete(id); err != nil {
			log.Error("Snapshot delete failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Snapshot delete failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
