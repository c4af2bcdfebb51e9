package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"thermalcam/internal/config"
	"thermalcam/internal/handlers"
	"thermalcam/internal/history"
	"thermalcam/internal/logger"
	"thermalcam/internal/pipeline"
	ws "thermalcam/internal/services/websocket"
	"thermalcam/internal/storage"
)

// dynamicHTMLHandler serves /path as <static>/path.html if the file
// exists; otherwise 404. "/" maps to index.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, path+".html")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers static file serving and all API endpoints.
func SetupRoutes(
	thermal *pipeline.Thermal,
	camera *pipeline.Camera,
	hub *ws.HubService,
	historyLog *history.Log,
	store *storage.SnapshotStore,
	cfg *config.Config,
	logger *logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// Streams
	cameraStream := handlers.CameraStreamHandler(camera, cfg, logger)
	mux.HandleFunc("/stream", cameraStream)
	mux.HandleFunc("/video_usb", cameraStream)
	mux.HandleFunc("/video_thermal", handlers.ThermalStreamHandler(thermal, cfg, logger))

	// Thermal data
	mux.HandleFunc("/thermal", handlers.ThermalDataHandler(thermal, cfg, logger))
	mux.HandleFunc("/temperature", handlers.TemperatureHandler(thermal, historyLog, cfg, logger))
	mux.HandleFunc("/temperature_history", handlers.TemperatureHistoryHandler(historyLog, logger))

	// Health
	mux.HandleFunc("/healthz", handlers.HealthHandler(thermal, camera, cfg, logger))

	// Live readings
	mux.HandleFunc("/api/live", handlers.LiveWebsocketHandler(hub, thermal, logger))

	// Snapshot gallery
	mux.HandleFunc("/api/snapshots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			handlers.CaptureSnapshotHandler(thermal, camera, store, cfg, logger)(w, r)
			return
		}
		handlers.ListSnapshotsHandler(store, logger)(w, r)
	})
	mux.HandleFunc("/api/snapshots/view", handlers.ViewSnapshotHandler(store, logger))
	mux.HandleFunc("/api/snapshots/delete", handlers.DeleteSnapshotHandler(store, logger))

	// Automatic HTML handler mapping, for example /history -> static/history.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDir))

	return mux
}
