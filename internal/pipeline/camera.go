package pipeline

import (
	"context"
	"time"

	"thermalcam/internal/buffer"
	"thermalcam/internal/capture"
	"thermalcam/internal/config"
	"thermalcam/internal/logger"
)

// resetThreshold is the number of consecutive read failures after which the
// capture handle is reset and reopened.
const resetThreshold = 5

// failureBackoff is the pause after a failed camera read.
const failureBackoff = 100 * time.Millisecond

// Camera is the camera acquisition pipeline: one background loop grabbing
// frames at a target rate into a latest-frame buffer, with handle reset
// after repeated failures.
type Camera struct {
	manager *capture.Manager
	buf     *buffer.Latest[capture.Frame]
	cfg     *config.Config
	logger  *logger.Logger

	runner runner
}

// NewCamera creates the pipeline around the capture handle manager.
func NewCamera(cfg *config.Config, log *logger.Logger, manager *capture.Manager) *Camera {
	return &Camera{
		manager: manager,
		buf:     buffer.NewLatest(capture.Frame.Clone),
		cfg:     cfg,
		logger:  log,
	}
}

// EnsureStarted launches the acquisition loop if it is not running. A
// disabled camera backend never starts a loop.
func (p *Camera) EnsureStarted() {
	if !p.manager.Enabled() {
		return
	}
	p.runner.ensureStarted(p.run)
}

// Stop cancels the loop; it exits within one polling interval.
func (p *Camera) Stop() {
	p.runner.stop()
}

// Available reports whether the camera backend is enabled and a frame has
// ever been captured.
func (p *Camera) Available() bool {
	return p.manager.Enabled() && p.buf.HasValue()
}

// Enabled reports the camera capability flag.
func (p *Camera) Enabled() bool {
	return p.manager.Enabled()
}

// LastError returns the capture manager's most recent failure reason.
func (p *Camera) LastError() string {
	return p.manager.LastError()
}

// Latest returns a copy of the freshest frame if it is no older than
// maxAge.
func (p *Camera) Latest(maxAge time.Duration) (capture.Frame, time.Time, bool) {
	return p.buf.Get(maxAge)
}

func (p *Camera) run(ctx context.Context) {
	fps := p.cfg.CameraReadFPS
	if fps < 1 {
		fps = 1
	}
	frameInterval := time.Duration(float64(time.Second) / fps)
	var lastRead time.Time
	failures := 0

	p.logger.Info("Camera acquisition loop started (target %.0f fps)", fps)

	for ctx.Err() == nil {
		device := p.manager.Handle()
		if device == nil {
			if !sleep(ctx, notReadyBackoff) {
				break
			}
			continue
		}

		now := time.Now()
		if now.Sub(lastRead) < frameInterval {
			// Approximate the target rate from below rather than
			// scheduling precisely.
			if !sleep(ctx, frameInterval/2) {
				break
			}
			continue
		}
		lastRead = now

		frame, ok := device.Read()
		if !ok {
			failures++
			p.logger.WarningThrottled("camera-read", logEvery, "Camera read failed (%d)", failures)
			if failures >= resetThreshold {
				p.manager.Reset()
				failures = 0
			}
			if !sleep(ctx, failureBackoff) {
				break
			}
			continue
		}

		failures = 0
		p.buf.Set(frame, time.Now())
	}
	p.logger.Info("Camera acquisition loop stopped")
}
