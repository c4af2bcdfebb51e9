// Package capture owns the USB camera handle. It opens the device lazily,
// hands frames to the camera acquisition loop, and supports an explicit
// reset-and-reopen to recover a wedged device without restarting the
// process.
package capture

import (
	"errors"
	"sync"
	"time"

	"thermalcam/internal/config"
	"thermalcam/internal/logger"
)

// ErrOpenFailed means the capture device could not be opened.
var ErrOpenFailed = errors.New("camera open failed")

// Frame is one captured image: a raw pixel buffer plus its geometry. Data
// is never shared by reference across goroutines.
type Frame struct {
	Data    []byte
	Width   int
	Height  int
	MatType int
}

// Clone returns an independent copy of the frame.
func (f Frame) Clone() Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return Frame{Data: data, Width: f.Width, Height: f.Height, MatType: f.MatType}
}

// Device is the hardware boundary to the camera backend.
type Device interface {
	// Read grabs one frame; ok is false when the grab failed.
	Read() (frame Frame, ok bool)
	// Close releases the device.
	Close() error
}

// Opener opens and configures the capture device.
type Opener func(cfg *config.Config) (Device, error)

// Manager guards the shared capture handle. Only the camera acquisition
// loop reads frames; the lock serializes open and reset, never a read and
// a buffer write together.
type Manager struct {
	cfg    *config.Config
	logger *logger.Logger
	open   Opener

	mu     sync.Mutex
	device Device

	errMu   sync.Mutex
	lastErr string
}

// NewManager creates a Manager. The capability flag CameraEnabled is
// resolved here once: when the camera backend is disabled, every call
// short-circuits to unavailable without touching hardware.
func NewManager(cfg *config.Config, log *logger.Logger, open Opener) *Manager {
	return &Manager{cfg: cfg, logger: log, open: open}
}

// Enabled reports the camera capability flag.
func (m *Manager) Enabled() bool {
	return m.cfg.CameraEnabled
}

// Handle returns the open capture device, opening it on first use. Returns
// nil when the backend is disabled or the device cannot be opened.
func (m *Manager) Handle() Device {
	if !m.cfg.CameraEnabled {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return m.device
	}

	device, err := m.open(m.cfg)
	if err != nil {
		m.setError("Camera open failed")
		m.logger.WarningThrottled("camera-open", 5*time.Second, "Camera open failed: %v", err)
		return nil
	}
	m.device = device
	m.clearError()
	m.logger.Info("Camera opened (%dx%d)", m.cfg.CameraWidth, m.cfg.CameraHeight)
	return m.device
}

// Reset closes and discards the handle so the next Handle call reopens the
// device. Called by the acquisition loop after a run of consecutive read
// failures.
func (m *Manager) Reset() {
	m.mu.Lock()
	if m.device != nil {
		m.device.Close()
		m.device = nil
	}
	m.mu.Unlock()

	m.setError("Camera reset after read failure")
	m.logger.Warning("Camera handle reset after read failures")
}

// Close releases the device on process teardown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device != nil {
		m.device.Close()
		m.device = nil
	}
}

// LastError returns the most recent failure reason, empty after a
// successful open.
func (m *Manager) LastError() string {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	return m.lastErr
}

func (m *Manager) setError(msg string) {
	m.errMu.Lock()
	m.lastErr = msg
	m.errMu.Unlock()
}

func (m *Manager) clearError() {
	m.errMu.Lock()
	m.lastErr = ""
	m.errMu.Unlock()
}
