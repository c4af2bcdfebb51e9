package sensor

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// SimulatedDevice produces a plausible indoor scene with a warm blob
// drifting across the grid. It stands in for real hardware on development
// machines (MLX_SIMULATE=1).
type SimulatedDevice struct {
	mu    sync.Mutex
	rng   *rand.Rand
	start time.Time
}

// OpenSimulated returns an Opener yielding a SimulatedDevice.
func OpenSimulated() (Device, error) {
	return &SimulatedDevice{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		start: time.Now(),
	}, nil
}

// ReadInto fills dest with an ambient field plus a moving hot spot.
func (d *SimulatedDevice) ReadInto(dest []float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	elapsed := time.Since(d.start).Seconds()
	cx := float64(FrameCols)/2 + 10*math.Sin(elapsed/5)
	cy := float64(FrameRows)/2 + 6*math.Cos(elapsed/7)

	for y := 0; y < FrameRows; y++ {
		for x := 0; x < FrameCols; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			ambient := 21.0 + d.rng.Float64()*0.4
			hot := 14.0 * math.Exp(-(dx*dx+dy*dy)/18.0)
			dest[y*FrameCols+x] = ambient + hot
		}
	}
	return nil
}

// Close is a no-op for the simulator.
func (d *SimulatedDevice) Close() error {
	return nil
}
