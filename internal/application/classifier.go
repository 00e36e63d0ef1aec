package app

import (
	"context"
	"fmt"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
)

// DefaultConfidenceFloor нижний порог уверенности детектора.
const DefaultConfidenceFloor = 0.3

// Classifier оборачивает внешний детектор и расчёт размера в один результат.
type Classifier struct {
	detector      port.ObjectDetector
	cropper       port.FrameCropper
	minConfidence float64
	sizes         entity.SizeThresholds
	logger        *logger.Logger
}

// NewClassifier создаёт классификатор.
func NewClassifier(detector port.ObjectDetector, cropper port.FrameCropper, minConfidence float64, sizes entity.SizeThresholds, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Classifier{
		detector:      detector,
		cropper:       cropper,
		minConfidence: minConfidence,
		sizes:         sizes,
		logger:        log,
	}
}

// Classify ищет яйцо на кадре. ok == false: яйца нет, это не ошибка.
func (c *Classifier) Classify(ctx context.Context, frame entity.Frame) (det entity.Detection, ok bool, err error) {
	if c.detector == nil {
		return entity.Detection{}, false, fmt.Errorf("%w: detector is not configured", entity.ErrClassification)
	}

	found, err := c.detector.Detect(ctx, frame, c.minConfidence)
	if err != nil {
		return entity.Detection{}, false, fmt.Errorf("%w: %v", entity.ErrClassification, err)
	}
	if len(found) == 0 {
		return entity.Detection{}, false, nil
	}

	// Берём первый результат детектора, свой порядок не вводим.
	best := found[0]
	box := best.Box.Clamp(frame.Width, frame.Height)
	if box.Empty() {
		c.logger.Warning("Detection resulted in an invalid crop: %+v", best.Box)
		return entity.Detection{}, false, nil
	}

	crop, err := c.cropper.Crop(frame, box)
	if err != nil {
		return entity.Detection{}, false, fmt.Errorf("%w: crop: %v", entity.ErrClassification, err)
	}
	if crop.Empty() {
		return entity.Detection{}, false, fmt.Errorf("%w: empty crop", entity.ErrClassification)
	}

	return entity.Detection{
		Label:      best.Label,
		Confidence: best.Confidence,
		Box:        box,
		Crop:       crop,
		Size:       c.sizes.Measure(crop.Width, crop.Height),
	}, true, nil
}
