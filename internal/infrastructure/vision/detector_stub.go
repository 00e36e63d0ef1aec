//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// YOLODetector заглушка детектора (без OpenCV).
type YOLODetector struct {
	InputSide int
	NMSThresh float32
}

// NewYOLODetector возвращает ошибку, если сборка без тега gocv.
func NewYOLODetector(modelPath string, labels []string) (*YOLODetector, error) {
	_ = modelPath
	_ = labels
	return nil, errNoGoCV
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, frame entity.Frame, minConfidence float64) ([]entity.RawDetection, error) {
	return nil, errNoGoCV
}

// Close ничего не делает.
func (d *YOLODetector) Close() error {
	return nil
}

// MatCropper заглушка обрезки.
type MatCropper struct{}

// Crop возвращает ошибку, если сборка без тега gocv.
func (MatCropper) Crop(frame entity.Frame, box entity.BoundingBox) (entity.Frame, error) {
	return entity.Frame{}, errNoGoCV
}

// Camera заглушка камеры.
type Camera struct{}

// OpenCamera возвращает ошибку, если сборка без тега gocv.
func OpenCamera(device int) (*Camera, error) {
	_ = device
	return nil, errNoGoCV
}

// Capture возвращает ошибку, если сборка без тега gocv.
func (c *Camera) Capture(ctx context.Context) (entity.Frame, error) {
	return entity.Frame{}, errNoGoCV
}

// Close ничего не делает.
func (c *Camera) Close() error {
	return nil
}

var (
	_ port.ObjectDetector = (*YOLODetector)(nil)
	_ port.FrameCropper   = MatCropper{}
	_ port.FrameSource    = (*Camera)(nil)
)
