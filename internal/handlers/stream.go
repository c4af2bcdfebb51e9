package handlers

import (
	"fmt"
	"net/http"
	"time"

	"thermalcam/internal/config"
	"thermalcam/internal/logger"
	"thermalcam/internal/pipeline"
	"thermalcam/internal/render"
)

const mjpegContentType = "multipart/x-mixed-replace; boundary=frame"

// writeMJPEGPart writes one JPEG as a multipart frame and flushes it to
// the client.
func writeMJPEGPart(w http.ResponseWriter, flusher http.Flusher, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\n\r\n"); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// CameraStreamHandler serves the USB camera as an MJPEG stream. Frames are
// paced at the target FPS and a frame is only emitted when it is fresh and
// newer than the last one sent to this client.
func CameraStreamHandler(camera *pipeline.Camera, cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !camera.Enabled() {
			http.Error(w, "Camera backend not available", http.StatusServiceUnavailable)
			return
		}
		camera.EnsureStarted()

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", mjpegContentType)

		targetFPS := cfg.TargetFPS
		if targetFPS < 1 {
			targetFPS = 1
		}
		frameInterval := time.Duration(float64(time.Second) / targetFPS)
		var lastTick time.Time
		var lastSent time.Time

		for r.Context().Err() == nil {
			now := time.Now()
			if now.Sub(lastTick) < frameInterval {
				time.Sleep(frameInterval / 2)
				continue
			}
			lastTick = now

			frame, capturedAt, ok := camera.Latest(cfg.StreamFrameMaxAge)
			if !ok {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			if !capturedAt.After(lastSent) {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			lastSent = capturedAt

			jpeg, err := render.CameraJPEG(frame, cfg.StreamWidth, cfg.StreamHeight, cfg.JPEGQuality)
			if err != nil {
				log.WarningThrottled("camera-encode", 5*time.Second, "Camera frame encode failed: %v", err)
				continue
			}
			if err := writeMJPEGPart(w, flusher, jpeg); err != nil {
				return
			}
		}
	}
}

// ThermalStreamHandler serves the MLX90640 as a colorized MJPEG heatmap.
func ThermalStreamHandler(thermal *pipeline.Thermal, cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		thermal.EnsureStarted()
		if !thermal.IsReady() {
			http.Error(w, "MLX90640 not available", http.StatusServiceUnavailable)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", mjpegContentType)

		var lastSent time.Time
		for r.Context().Err() == nil {
			frame, capturedAt, ok := thermal.Latest(cfg.ThermalMaxAge)
			if !ok {
				time.Sleep(200 * time.Millisecond)
				continue
			}
			if !capturedAt.After(lastSent) {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			lastSent = capturedAt

			jpeg, err := render.ThermalJPEG(frame, cfg.ThermalStreamWidth, cfg.ThermalStreamHeight, cfg.JPEGQuality)
			if err != nil {
				log.WarningThrottled("thermal-encode", 5*time.Second, "Thermal frame encode failed: %v", err)
				continue
			}
			if err := writeMJPEGPart(w, flusher, jpeg); err != nil {
				return
			}
			time.Sleep(cfg.ThermalStreamInterval)
		}
	}
}
