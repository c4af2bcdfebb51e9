package handlers

import (
	"encoding/json"
	"net/http"

	"thermalcam/internal/config"
	"thermalcam/internal/dto"
	"thermalcam/internal/logger"
	"thermalcam/internal/pipeline"
)

// HealthHandler reports per-source availability. It always responds 200;
// an unavailable source is a status string, not an HTTP failure. Hitting
// it also starts both acquisition loops, so the dashboard's first health
// probe warms the pipelines.
func HealthHandler(thermal *pipeline.Thermal, camera *pipeline.Camera, cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		thermal.EnsureStarted()
		camera.EnsureStarted()

		status := dto.HealthStatus{
			Camera:       "unavailable",
			Thermal:      "unavailable",
			CameraError:  camera.LastError(),
			ThermalError: thermal.LastError(),
		}
		if _, _, ok := camera.Latest(cfg.StreamFrameMaxAge); ok {
			status.Camera = "ok"
		}
		if _, _, ok := thermal.Latest(cfg.ThermalMaxAge); ok {
			status.Thermal = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Error("Error encoding health response: %v", err)
		}
	}
}
