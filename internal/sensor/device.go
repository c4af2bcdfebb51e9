package sensor

// Frame geometry of the MLX90640: 24 rows by 32 columns, row-major.
const (
	FrameRows   = 24
	FrameCols   = 32
	FramePixels = FrameRows * FrameCols
)

// Frame is one thermal reading. Temps holds FramePixels values in degrees
// Celsius, row-major. A Frame is never mutated after ReadFrame returns it.
type Frame struct {
	Temps []float64
	Max   float64
	Min   float64
}

// Clone returns an independent copy of the frame.
func (f Frame) Clone() Frame {
	temps := make([]float64, len(f.Temps))
	copy(temps, f.Temps)
	return Frame{Temps: temps, Max: f.Max, Min: f.Min}
}

// Device is the hardware boundary to the thermal sensor. Implementations
// block during ReadInto and may return transient errors that warrant a
// retry. ReadInto is never called concurrently.
type Device interface {
	// ReadInto fills dest (length FramePixels) with one frame.
	ReadInto(dest []float64) error
	// Close releases the underlying bus handle.
	Close() error
}

// Opener brings up the sensor hardware. Called at most once per Reader;
// a failure leaves the reader permanently unavailable.
type Opener func() (Device, error)
