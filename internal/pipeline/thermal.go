package pipeline

import (
	"context"
	"time"

	"thermalcam/internal/buffer"
	"thermalcam/internal/config"
	"thermalcam/internal/logger"
	"thermalcam/internal/sensor"
)

// ThermalListener receives every successfully published thermal frame.
// The websocket hub uses this to push live readings to dashboard clients.
type ThermalListener func(frame sensor.Frame, capturedAt time.Time)

// Thermal is the thermal acquisition pipeline: one background loop reading
// the sensor at a fixed interval into a latest-frame buffer.
type Thermal struct {
	reader   *sensor.Reader
	buf      *buffer.Latest[sensor.Frame]
	cfg      *config.Config
	logger   *logger.Logger
	listener ThermalListener

	runner runner
}

// NewThermal creates the pipeline around an initialized-on-demand reader.
func NewThermal(cfg *config.Config, log *logger.Logger, reader *sensor.Reader) *Thermal {
	return &Thermal{
		reader: reader,
		buf:    buffer.NewLatest(sensor.Frame.Clone),
		cfg:    cfg,
		logger: log,
	}
}

// SetListener registers the live-readings listener. Must be called before
// the loop starts.
func (p *Thermal) SetListener(fn ThermalListener) {
	p.listener = fn
}

// EnsureStarted launches the acquisition loop if it is not running.
// Handlers call this on every relevant request.
func (p *Thermal) EnsureStarted() {
	p.runner.ensureStarted(p.run)
}

// Stop cancels the loop; it exits within one polling interval.
func (p *Thermal) Stop() {
	p.runner.stop()
}

// IsReady reports sensor availability, initializing it on first call.
func (p *Thermal) IsReady() bool {
	return p.reader.IsReady()
}

// LastError returns the sensor's most recent failure reason.
func (p *Thermal) LastError() string {
	return p.reader.LastError()
}

// Latest returns a copy of the freshest frame if it is no older than
// maxAge.
func (p *Thermal) Latest(maxAge time.Duration) (sensor.Frame, time.Time, bool) {
	return p.buf.Get(maxAge)
}

func (p *Thermal) run(ctx context.Context) {
	interval := p.cfg.ThermalReadInterval
	p.logger.Info("Thermal acquisition loop started (interval %v)", interval)

	for ctx.Err() == nil {
		if !p.reader.IsReady() {
			if !sleep(ctx, notReadyBackoff) {
				break
			}
			continue
		}

		frame, err := p.reader.ReadFrame()
		if err != nil {
			p.logger.WarningThrottled("thermal-read", logEvery, "MLX90640 read failed: %v", err)
			if !sleep(ctx, interval) {
				break
			}
			continue
		}

		now := time.Now()
		p.buf.Set(frame, now)
		if p.listener != nil {
			p.listener(frame, now)
		}

		if !sleep(ctx, interval) {
			break
		}
	}
	p.logger.Info("Thermal acquisition loop stopped")
}
