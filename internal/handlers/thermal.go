package handlers

import (
	"encoding/json"
	"net/http"

	"thermalcam/internal/config"
	"thermalcam/internal/dto"
	"thermalcam/internal/history"
	"thermalcam/internal/logger"
	"thermalcam/internal/pipeline"
	"thermalcam/internal/sensor"
)

// ThermalDataHandler serves the latest thermal grid as JSON for the
// frontend heatmap. Unavailable or stale data is a 503 with the recorded
// reason as the body.
func ThermalDataHandler(thermal *pipeline.Thermal, cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		thermal.EnsureStarted()
		if !thermal.IsReady() {
			http.Error(w, "MLX90640 not available", http.StatusServiceUnavailable)
			return
		}

		frame, _, ok := thermal.Latest(cfg.ThermalMaxAge)
		if !ok {
			http.Error(w, "MLX90640 data not available", http.StatusServiceUnavailable)
			return
		}

		data := dto.ThermalData{
			Width:  sensor.FrameCols,
			Height: sensor.FrameRows,
			Temps:  frame.Temps,
			Max:    history.Round2(frame.Max),
			Min:    history.Round2(frame.Min),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error("Error encoding thermal response: %v", err)
		}
	}
}
