package handlers

import (
	"encoding/json"
	"net/http"

	"thermalcam/internal/config"
	"thermalcam/internal/dto"
	"thermalcam/internal/history"
	"thermalcam/internal/logger"
	"thermalcam/internal/pipeline"
)

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message})
}

// TemperatureHandler returns the current max/min reading and records it in
// the history log. History records requests, not samples: two calls inside
// one sampling interval yield two entries with the same values.
func TemperatureHandler(thermal *pipeline.Thermal, log *history.Log, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		thermal.EnsureStarted()
		if !thermal.IsReady() {
			writeJSONError(w, http.StatusInternalServerError, "Thermal sensor not initialized")
			return
		}

		frame, _, ok := thermal.Latest(cfg.ThermalMaxAge)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "MLX90640 data not available")
			return
		}

		entry := log.Record(frame.Max, frame.Min)

		w.Header().Set("Content-Type", "application/json")
		reading := dto.TemperatureReading{Max: entry.Max, Min: entry.Min}
		if err := json.NewEncoder(w).Encode(reading); err != nil {
			logger.Error("Error encoding temperature response: %v", err)
		}
	}
}

// TemperatureHistoryHandler returns the recorded readings, oldest first.
func TemperatureHistoryHandler(log *history.Log, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := log.Snapshot()
		if entries == nil {
			entries = []history.Entry{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logger.Error("Error encoding history response: %v", err)
		}
	}
}
