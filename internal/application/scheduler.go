package app

import (
	"context"
	"fmt"
	"time"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/timeutil"
)

// DefaultSettleDelay время, за которое яйцо перестаёт катиться после сигнала.
const DefaultSettleDelay = 1300 * time.Millisecond

// flusher сбрасывает накопленный вход датчика
type flusher interface {
	Flush()
}

// CaptureScheduler выдерживает паузу после сигнала и делает один снимок.
type CaptureScheduler struct {
	settle time.Duration
	clock  timeutil.Clock
	input  flusher
	camera port.FrameSource
}

// NewCaptureScheduler создаёт планировщик съёмки.
func NewCaptureScheduler(settle time.Duration, clock timeutil.Clock, input flusher, camera port.FrameSource) *CaptureScheduler {
	return &CaptureScheduler{
		settle: settle,
		clock:  clock,
		input:  input,
		camera: camera,
	}
}

// Capture ждёт settle, сбрасывает вход датчика и снимает кадр.
// Ожидание прерывается только завершением ctx.
func (s *CaptureScheduler) Capture(ctx context.Context) (entity.Frame, error) {
	select {
	case <-s.clock.After(s.settle):
	case <-ctx.Done():
		return entity.Frame{}, ctx.Err()
	}

	// Повторные сигналы за время паузы это дребезг того же яйца.
	if s.input != nil {
		s.input.Flush()
	}

	frame, err := s.camera.Capture(ctx)
	if err != nil {
		return entity.Frame{}, fmt.Errorf("%w: %v", entity.ErrCapture, err)
	}
	if frame.Empty() {
		return entity.Frame{}, fmt.Errorf("%w: empty frame", entity.ErrCapture)
	}
	return frame, nil
}
