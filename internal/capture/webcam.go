package capture

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"thermalcam/internal/config"
)

// webcam adapts gocv.VideoCapture to the Device interface. The scratch Mat
// is reused across reads; Read copies the pixels out before returning.
type webcam struct {
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

// OpenWebcam opens the configured capture source. The named device path is
// preferred when it exists on the filesystem, otherwise the numeric index
// is used. The internal driver queue is kept at one frame so reads always
// prefer the latest frame over queued ones.
func OpenWebcam(cfg *config.Config) (Device, error) {
	var source interface{} = cfg.CameraIndex
	if _, err := os.Stat(cfg.CameraPath); err == nil {
		source = cfg.CameraPath
	}

	vc, err := gocv.OpenVideoCapture(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.CameraWidth))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.CameraHeight))
	vc.Set(gocv.VideoCaptureBufferSize, 1)

	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: source %v", ErrOpenFailed, source)
	}

	return &webcam{vc: vc, mat: gocv.NewMat()}, nil
}

func (w *webcam) Read() (Frame, bool) {
	if ok := w.vc.Read(&w.mat); !ok || w.mat.Empty() {
		return Frame{}, false
	}

	data := w.mat.ToBytes()
	frame := Frame{
		Data:    make([]byte, len(data)),
		Width:   w.mat.Cols(),
		Height:  w.mat.Rows(),
		MatType: int(w.mat.Type()),
	}
	copy(frame.Data, data)
	return frame, true
}

func (w *webcam) Close() error {
	w.mat.Close()
	return w.vc.Close()
}
