package port

import (
	"context"

	"egg-grader/internal/domain/entity"
)

// ObjectDetector интерфейс внешнего детектора яиц
type ObjectDetector interface {
	// Detect находит объекты с уверенностью не ниже minConfidence.
	// Порядок результатов задаёт сам детектор, первый считается лучшим.
	Detect(ctx context.Context, frame entity.Frame, minConfidence float64) ([]entity.RawDetection, error)
}

// FrameCropper вырезает область кадра
type FrameCropper interface {
	// Crop возвращает закодированную область box кадра frame
	Crop(frame entity.Frame, box entity.BoundingBox) (entity.Frame, error)
}

// FrameSource интерфейс камеры
type FrameSource interface {
	// Capture делает один снимок
	Capture(ctx context.Context) (entity.Frame, error)
}
