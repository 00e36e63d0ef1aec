package container

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/infrastructure/storage"
	"egg-grader/internal/timeutil"
)

type scriptedLine struct {
	events   []entity.DetectionEvent
	commands []string
}

func (s *scriptedLine) Poll(ctx context.Context) iter.Seq[entity.DetectionEvent] {
	return func(yield func(entity.DetectionEvent) bool) {
		for _, ev := range s.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func (s *scriptedLine) Flush() {}

func (s *scriptedLine) Send(command string) error {
	s.commands = append(s.commands, command)
	return nil
}

type stillCamera struct{}

func (stillCamera) Capture(ctx context.Context) (entity.Frame, error) {
	return entity.Frame{Data: []byte("frame"), Width: 640, Height: 480}, nil
}

type oneEgg struct{}

func (oneEgg) Detect(ctx context.Context, frame entity.Frame, minConfidence float64) ([]entity.RawDetection, error) {
	return []entity.RawDetection{{
		Label:      "AA - Premium",
		Confidence: 0.91,
		Box:        entity.BoundingBox{X: 100, Y: 100, Width: 240, Height: 320},
	}}, nil
}

type passCropper struct{}

func (passCropper) Crop(frame entity.Frame, box entity.BoundingBox) (entity.Frame, error) {
	return entity.Frame{Data: []byte("crop"), Width: box.Width, Height: box.Height}, nil
}

func TestContainer_WiresPipelineAndReports(t *testing.T) {
	start := time.Date(2025, 10, 20, 8, 0, 0, 0, time.Local)
	clock := timeutil.NewMockClock(start)
	line := &scriptedLine{events: []entity.DetectionEvent{
		{Kind: entity.ObjectDetected, At: start},
		{Kind: entity.ObjectDetected, At: start.Add(time.Second)},
	}}
	images, err := storage.NewDirImageStore(t.TempDir())
	require.NoError(t, err)
	results := storage.NewMemoryResultLog()

	c := New(Deps{
		Triggers:    line,
		Commands:    line,
		Camera:      stillCamera{},
		Detector:    oneEgg{},
		Cropper:     passCropper{},
		Images:      images,
		Results:     results,
		Subscribers: storage.NewMemorySubscriberRepository(),
		Clock:       clock,
	}, Settings{
		Cooldown:        2 * time.Second,
		SettleDelay:     1300 * time.Millisecond,
		ConfidenceFloor: 0.3,
		Sizes:           entity.DefaultSizeThresholds(),
	})

	ctx := context.Background()
	require.NoError(t, c.Pipeline.Run(ctx))

	require.Equal(t, []string{"GRADE_AA - Premium\n"}, line.commands)
	require.Equal(t, []time.Duration{1300 * time.Millisecond}, clock.Waits())

	stats, err := c.Reports.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalToday)
	require.Equal(t, map[string]int{"AA - Premium": 1}, stats.LabelCountsToday)

	last, ok, err := c.Reports.Last(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Large", last.Size)
	require.Equal(t, 400.0, last.DiagonalPixels)
	require.Equal(t, entity.PhaseIdle, c.Pipeline.State().Phase)
}
