// Package render turns acquired frames into JPEG bytes for the streaming
// endpoints and the snapshot gallery. It is a stateless transform layer;
// all concurrency lives in the pipelines.
package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"thermalcam/internal/capture"
	"thermalcam/internal/sensor"
)

// ThermalJPEG renders the 24x32 temperature grid as an inferno-colormapped
// JPEG of the given output size.
func ThermalJPEG(frame sensor.Frame, width, height, quality int) ([]byte, error) {
	if len(frame.Temps) != sensor.FramePixels {
		return nil, fmt.Errorf("thermal frame has %d samples, want %d", len(frame.Temps), sensor.FramePixels)
	}

	grid := gocv.NewMatWithSize(sensor.FrameRows, sensor.FrameCols, gocv.MatTypeCV64F)
	defer grid.Close()
	for y := 0; y < sensor.FrameRows; y++ {
		for x := 0; x < sensor.FrameCols; x++ {
			grid.SetDoubleAt(y, x, frame.Temps[y*sensor.FrameCols+x])
		}
	}

	normalized := gocv.NewMat()
	defer normalized.Close()
	gocv.Normalize(grid, &normalized, 0, 255, gocv.NormMinMax)

	gray := gocv.NewMat()
	defer gray.Close()
	normalized.ConvertTo(&gray, gocv.MatTypeCV8U)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(gray, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationCubic)

	colored := gocv.NewMat()
	defer colored.Close()
	gocv.ApplyColorMap(resized, &colored, gocv.ColormapInferno)

	return encodeJPEG(colored, quality)
}

// CameraJPEG encodes a captured frame as a JPEG, resizing it to the given
// output size when it differs from the capture size.
func CameraJPEG(frame capture.Frame, width, height, quality int) ([]byte, error) {
	if len(frame.Data) == 0 {
		return nil, fmt.Errorf("empty camera frame")
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatType(frame.MatType), frame.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap camera frame: %w", err)
	}
	defer mat.Close()

	if frame.Width != width || frame.Height != height {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(mat, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
		return encodeJPEG(resized, quality)
	}
	return encodeJPEG(mat, quality)
}

func encodeJPEG(mat gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
