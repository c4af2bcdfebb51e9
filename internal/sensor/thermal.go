// Package sensor wraps the MLX90640 thermal sensor behind a thread-safe
// reader with lazy one-time initialization and bounded retry on transient
// read failures.
package sensor

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"thermalcam/internal/config"
	"thermalcam/internal/logger"
)

var (
	// ErrNotReady means the sensor never initialized or init failed.
	ErrNotReady = errors.New("MLX90640 sensor not available")
	// ErrReadFailed means every read attempt of one ReadFrame call failed.
	ErrReadFailed = errors.New("MLX90640 read failed")
)

// Reader initialization states.
const (
	stateUninitialized int32 = iota
	stateInitializing
	stateReady
	stateFailed
)

// Reader owns the thermal device handle. Initialization happens lazily on
// first use and exactly once across all callers; once it fails it stays
// failed for the reader's lifetime. Physical reads are serialized because
// the hardware interface is not reentrant.
type Reader struct {
	open   Opener
	logger *logger.Logger

	retries    int
	retryDelay time.Duration

	state  atomic.Int32
	initMu sync.Mutex
	device Device

	readMu  sync.Mutex
	scratch []float64

	errMu   sync.Mutex
	lastErr string
}

// NewReader creates a Reader that brings the hardware up via open on first
// use.
func NewReader(cfg *config.Config, log *logger.Logger, open Opener) *Reader {
	retries := cfg.MLXRetries
	if retries < 1 {
		retries = 1
	}
	return &Reader{
		open:       open,
		logger:     log,
		retries:    retries,
		retryDelay: cfg.MLXRetryDelay,
		scratch:    make([]float64, FramePixels),
	}
}

// ensureInitialized performs hardware bring-up exactly once. The state enum
// is read without the lock on the fast path; the lock plus a recheck make
// the slow path safe under concurrent first access.
func (r *Reader) ensureInitialized() {
	if r.state.Load() != stateUninitialized {
		return
	}

	r.initMu.Lock()
	defer r.initMu.Unlock()

	if r.state.Load() != stateUninitialized {
		return
	}
	r.state.Store(stateInitializing)

	device, err := r.open()
	if err != nil {
		r.setError("MLX90640 init failed")
		r.logger.Error("MLX90640 init failed: %v", err)
		r.state.Store(stateFailed)
		return
	}
	r.device = device
	r.clearError()
	r.state.Store(stateReady)
	r.logger.Info("MLX90640 initialized")
}

// IsReady reports whether the sensor is usable, initializing it first if
// nobody has tried yet.
func (r *Reader) IsReady() bool {
	r.ensureInitialized()
	return r.state.Load() == stateReady
}

// ReadFrame performs one physical read with bounded retry and returns the
// frame with its max/min. Only one physical read is in flight at a time.
func (r *Reader) ReadFrame() (Frame, error) {
	r.ensureInitialized()
	if r.state.Load() != stateReady {
		r.setError(ErrNotReady.Error())
		return Frame{}, ErrNotReady
	}

	r.readMu.Lock()
	var lastErr error
	for attempt := 0; attempt < r.retries; attempt++ {
		lastErr = r.device.ReadInto(r.scratch)
		if lastErr == nil {
			break
		}
		time.Sleep(r.retryDelay)
	}
	if lastErr != nil {
		r.readMu.Unlock()
		r.setError(ErrReadFailed.Error())
		return Frame{}, fmt.Errorf("%w: %v", ErrReadFailed, lastErr)
	}

	frame := Frame{Temps: make([]float64, FramePixels)}
	copy(frame.Temps, r.scratch)
	r.readMu.Unlock()

	frame.Max = frame.Temps[0]
	frame.Min = frame.Temps[0]
	for _, v := range frame.Temps[1:] {
		if v > frame.Max {
			frame.Max = v
		}
		if v < frame.Min {
			frame.Min = v
		}
	}

	r.clearError()
	return frame, nil
}

// LastError returns the most recent failure reason, empty after a success.
func (r *Reader) LastError() string {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.lastErr
}

// Close releases the device if it was opened.
func (r *Reader) Close() error {
	r.initMu.Lock()
	defer r.initMu.Unlock()
	if r.device != nil {
		err := r.device.Close()
		r.device = nil
		r.state.Store(stateFailed)
		return err
	}
	return nil
}

func (r *Reader) setError(msg string) {
	r.errMu.Lock()
	r.lastErr = msg
	r.errMu.Unlock()
}

func (r *Reader) clearError() {
	r.errMu.Lock()
	r.lastErr = ""
	r.errMu.Unlock()
}
