// Package app owns all process-scoped state: configuration, logger,
// pipelines, history, hub, and snapshot storage. Exactly one App exists
// per process; every handler receives its dependencies from here instead
// of reaching for globals.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"thermalcam/internal/capture"
	"thermalcam/internal/config"
	"thermalcam/internal/dto"
	"thermalcam/internal/history"
	"thermalcam/internal/logger"
	"thermalcam/internal/pipeline"
	"thermalcam/internal/repository/sqlite"
	"thermalcam/internal/routes"
	"thermalcam/internal/sensor"
	ws "thermalcam/internal/services/websocket"
	"thermalcam/internal/storage"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	thermal    *pipeline.Thermal
	camera     *pipeline.Camera
	hub        *ws.HubService
	historyLog *history.Log
	db         *sqlite.DB
	store      *storage.SnapshotStore
	manager    *capture.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	reader := sensor.NewReader(cfg, log, thermalOpener(cfg))
	thermal := pipeline.NewThermal(cfg, log, reader)

	manager := capture.NewManager(cfg, log, capture.OpenWebcam)
	camera := pipeline.NewCamera(cfg, log, manager)

	hub := ws.NewHubService(log)
	thermal.SetListener(func(frame sensor.Frame, capturedAt time.Time) {
		reading := dto.LiveReading{
			Time: capturedAt.Format("15:04:05"),
			Max:  history.Round2(frame.Max),
			Min:  history.Round2(frame.Min),
		}
		msg, err := json.Marshal(reading)
		if err != nil {
			return
		}
		hub.Broadcast(msg)
	})

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewSnapshotStore(cfg.SnapshotDir, sqlite.NewSnapshotRepository(db), log)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		config:     cfg,
		logger:     log,
		thermal:    thermal,
		camera:     camera,
		hub:        hub,
		historyLog: history.NewLog(cfg.TempHistorySize),
		db:         db,
		store:      store,
		manager:    manager,
	}, nil
}

// thermalOpener picks the sensor backend once at startup: the simulator
// when MLX_SIMULATE is set, otherwise no driver is linked on this build
// and the reader takes the sticky-unavailable path.
func thermalOpener(cfg *config.Config) sensor.Opener {
	if cfg.MLXSimulate {
		return sensor.OpenSimulated
	}
	return func() (sensor.Device, error) {
		return nil, errors.New("no MLX90640 driver available (set MLX_SIMULATE=1 for the simulator)")
	}
}

func (a *App) Run() error {
	go a.hub.Run()

	router := routes.SetupRoutes(a.thermal, a.camera, a.hub, a.historyLog, a.store, a.config, a.logger)

	a.logger.Info("Thermal dashboard server listening on :%d", a.config.Port)
	a.logger.Info("Snapshots: %s, DB: %s", a.config.SnapshotDir, a.config.DBPath)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Shutdown cancels the acquisition loops and releases hardware handles.
// Loops are not joined; they observe cancellation within one polling
// interval.
func (a *App) Shutdown() {
	a.thermal.Stop()
	a.camera.Stop()
	a.manager.Close()
	a.db.Close()
}
