package capture

import (
	"errors"
	"os"
	"sync"
	"testing"

	"thermalcam/internal/config"
	"thermalcam/internal/logger"
)

type fakeCam struct {
	mu      sync.Mutex
	reads   int
	closes  int
	failAll bool
}

func (c *fakeCam) Read() (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.failAll {
		return Frame{}, false
	}
	return Frame{Data: []byte{1, 2, 3}, Width: 3, Height: 1, MatType: 16}, true
}

func (c *fakeCam) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

var (
	camLogOnce sync.Once
	camLogger  *logger.Logger
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	camLogOnce.Do(func() {
		dir, err := os.MkdirTemp("", "capture_test_logs")
		if err != nil {
			t.Fatalf("Failed to create temp dir: %v", err)
		}
		cfg := config.Load()
		cfg.LogDir = dir
		camLogger = logger.NewLogger(cfg)
	})
	return camLogger
}

func TestManager_OpensLazilyAndOnce(t *testing.T) {
	cfg := config.Load()
	cfg.CameraEnabled = true

	opens := 0
	cam := &fakeCam{}
	m := NewManager(cfg, newTestLogger(t), func(*config.Config) (Device, error) {
		opens++
		return cam, nil
	})

	if opens != 0 {
		t.Fatal("device opened before first use")
	}
	for i := 0; i < 5; i++ {
		if m.Handle() == nil {
			t.Fatal("expected a device handle")
		}
	}
	if opens != 1 {
		t.Errorf("device opened %d times, want 1", opens)
	}
}

func TestManager_OpenFailureRecordsError(t *testing.T) {
	cfg := config.Load()
	cfg.CameraEnabled = true

	m := NewManager(cfg, newTestLogger(t), func(*config.Config) (Device, error) {
		return nil, errors.New("no such device")
	})

	if m.Handle() != nil {
		t.Fatal("expected nil handle on open failure")
	}
	if m.LastError() != "Camera open failed" {
		t.Errorf("unexpected last error: %q", m.LastError())
	}
}

func TestManager_ResetForcesReopen(t *testing.T) {
	cfg := config.Load()
	cfg.CameraEnabled = true

	opens := 0
	cam := &fakeCam{}
	m := NewManager(cfg, newTestLogger(t), func(*config.Config) (Device, error) {
		opens++
		return cam, nil
	})

	m.Handle()
	m.Reset()

	if cam.closes != 1 {
		t.Errorf("device closed %d times after reset, want 1", cam.closes)
	}
	if m.LastError() != "Camera reset after read failure" {
		t.Errorf("unexpected last error: %q", m.LastError())
	}

	m.Handle()
	if opens != 2 {
		t.Errorf("device opened %d times, want reopen after reset", opens)
	}
	if m.LastError() != "" {
		t.Errorf("error not cleared by successful reopen: %q", m.LastError())
	}
}

func TestManager_DisabledBackendShortCircuits(t *testing.T) {
	cfg := config.Load()
	cfg.CameraEnabled = false

	m := NewManager(cfg, newTestLogger(t), func(*config.Config) (Device, error) {
		t.Fatal("opener must not run when the backend is disabled")
		return nil, nil
	})

	if m.Enabled() {
		t.Error("Enabled should report false")
	}
	if m.Handle() != nil {
		t.Error("Handle should be nil when disabled")
	}
}

func TestFrame_CloneIsIndependent(t *testing.T) {
	f := Frame{Data: []byte{1, 2}, Width: 2, Height: 1}
	c := f.Clone()
	c.Data[0] = 9
	if f.Data[0] != 1 {
		t.Error("clone aliases the original buffer")
	}
}
