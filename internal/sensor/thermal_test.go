package sensor

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"thermalcam/internal/config"
	"thermalcam/internal/logger"
)

type fakeDevice struct {
	mu       sync.Mutex
	reads    int
	failNext int
	fill     float64
	rig      func(dest []float64)
}

func (d *fakeDevice) ReadInto(dest []float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	if d.failNext > 0 {
		d.failNext--
		return errors.New("frame not ready")
	}
	if d.rig != nil {
		d.rig(dest)
		return nil
	}
	for i := range dest {
		dest[i] = d.fill
	}
	return nil
}

func (d *fakeDevice) Close() error { return nil }

func (d *fakeDevice) readCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.MLXRetries = 3
	cfg.MLXRetryDelay = time.Millisecond
	return cfg
}

var (
	testLogOnce sync.Once
	testLogger  *logger.Logger
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	testLogOnce.Do(func() {
		dir, err := os.MkdirTemp("", "sensor_test_logs")
		if err != nil {
			t.Fatalf("Failed to create temp dir: %v", err)
		}
		cfg := config.Load()
		cfg.LogDir = dir
		testLogger = logger.NewLogger(cfg)
	})
	return testLogger
}

func TestReader_InitHappensOnce(t *testing.T) {
	var opens atomic.Int32
	device := &fakeDevice{fill: 20}
	reader := NewReader(testConfig(), newTestLogger(t), func() (Device, error) {
		opens.Add(1)
		return device, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !reader.IsReady() {
				t.Error("reader should be ready")
			}
		}()
	}
	wg.Wait()

	if got := opens.Load(); got != 1 {
		t.Errorf("hardware opened %d times, want exactly 1", got)
	}
}

func TestReader_InitFailureIsSticky(t *testing.T) {
	var opens atomic.Int32
	reader := NewReader(testConfig(), newTestLogger(t), func() (Device, error) {
		opens.Add(1)
		return nil, errors.New("no i2c bus")
	})

	for i := 0; i < 3; i++ {
		if reader.IsReady() {
			t.Fatal("reader must not report ready after a failed init")
		}
	}
	if got := opens.Load(); got != 1 {
		t.Errorf("init retried %d times, want a single sticky attempt", got)
	}
	if reader.LastError() != "MLX90640 init failed" {
		t.Errorf("unexpected last error: %q", reader.LastError())
	}

	if _, err := reader.ReadFrame(); !errors.Is(err, ErrNotReady) {
		t.Errorf("ReadFrame after failed init: got %v, want ErrNotReady", err)
	}
}

func TestReader_RetriesThenSucceeds(t *testing.T) {
	device := &fakeDevice{failNext: 2, fill: 25}
	reader := NewReader(testConfig(), newTestLogger(t), func() (Device, error) {
		return device, nil
	})

	frame, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("expected success on the third attempt, got %v", err)
	}
	if got := device.readCount(); got != 3 {
		t.Errorf("issued %d physical reads, want 3", got)
	}
	if frame.Max != 25 || frame.Min != 25 {
		t.Errorf("unexpected stats: max=%v min=%v", frame.Max, frame.Min)
	}
	if reader.LastError() != "" {
		t.Errorf("last error not cleared on success: %q", reader.LastError())
	}
}

func TestReader_ReadExhaustedAfterAllRetries(t *testing.T) {
	device := &fakeDevice{failNext: 100}
	reader := NewReader(testConfig(), newTestLogger(t), func() (Device, error) {
		return device, nil
	})

	_, err := reader.ReadFrame()
	if !errors.Is(err, ErrReadFailed) {
		t.Fatalf("got %v, want ErrReadFailed", err)
	}
	if got := device.readCount(); got != 3 {
		t.Errorf("issued %d physical reads, want exactly retries=3", got)
	}
	if reader.LastError() != ErrReadFailed.Error() {
		t.Errorf("unexpected last error: %q", reader.LastError())
	}

	// A later success clears the recorded error.
	device.mu.Lock()
	device.failNext = 0
	device.fill = 30
	device.mu.Unlock()
	if _, err := reader.ReadFrame(); err != nil {
		t.Fatalf("expected recovery: %v", err)
	}
	if reader.LastError() != "" {
		t.Errorf("error not cleared after recovery: %q", reader.LastError())
	}
}

func TestReader_SuccessAtFirstAttemptStopsRetrying(t *testing.T) {
	device := &fakeDevice{fill: 22}
	reader := NewReader(testConfig(), newTestLogger(t), func() (Device, error) {
		return device, nil
	})

	if _, err := reader.ReadFrame(); err != nil {
		t.Fatal(err)
	}
	if got := device.readCount(); got != 1 {
		t.Errorf("issued %d physical reads, want 1", got)
	}
}

func TestReader_MaxMinOverRamp(t *testing.T) {
	device := &fakeDevice{rig: func(dest []float64) {
		for i := range dest {
			dest[i] = float64(i + 1)
		}
	}}
	reader := NewReader(testConfig(), newTestLogger(t), func() (Device, error) {
		return device, nil
	})

	frame, err := reader.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if frame.Max != 768.0 {
		t.Errorf("max = %v, want 768.0", frame.Max)
	}
	if frame.Min != 1.0 {
		t.Errorf("min = %v, want 1.0", frame.Min)
	}
	if len(frame.Temps) != FramePixels {
		t.Errorf("frame has %d samples, want %d", len(frame.Temps), FramePixels)
	}
}

func TestFrame_CloneIsIndependent(t *testing.T) {
	f := Frame{Temps: []float64{1, 2, 3}, Max: 3, Min: 1}
	c := f.Clone()
	c.Temps[0] = 99
	if f.Temps[0] != 1 {
		t.Error("clone aliases the original frame")
	}
}

func TestSimulatedDevice_ProducesPlausibleFrames(t *testing.T) {
	device, err := OpenSimulated()
	if err != nil {
		t.Fatal(err)
	}
	defer device.Close()

	dest := make([]float64, FramePixels)
	if err := device.ReadInto(dest); err != nil {
		t.Fatal(err)
	}
	for i, v := range dest {
		if v < 0 || v > 60 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}
