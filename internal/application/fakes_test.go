package app

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/timeutil"
)

var t0 = time.Date(2025, 10, 20, 15, 26, 30, 0, time.Local)

type fakeTriggers struct {
	events  []entity.DetectionEvent
	flushes int
}

func (f *fakeTriggers) Poll(ctx context.Context) iter.Seq[entity.DetectionEvent] {
	return func(yield func(entity.DetectionEvent) bool) {
		for _, ev := range f.events {
			if ctx.Err() != nil || !yield(ev) {
				return
			}
		}
	}
}

func (f *fakeTriggers) Flush() { f.flushes++ }

type fakeCamera struct {
	clock    timeutil.Clock
	frame    entity.Frame
	err      error
	panics   bool
	captures []time.Time
}

func (c *fakeCamera) Capture(ctx context.Context) (entity.Frame, error) {
	c.captures = append(c.captures, c.clock.Now())
	if c.panics {
		panic("driver crashed")
	}
	if c.err != nil {
		return entity.Frame{}, c.err
	}
	return c.frame, nil
}

type fakeDetector struct {
	dets    []entity.RawDetection
	err     error
	panics  bool
	calls   int
	minConf float64
}

func (d *fakeDetector) Detect(ctx context.Context, frame entity.Frame, minConfidence float64) ([]entity.RawDetection, error) {
	d.calls++
	d.minConf = minConfidence
	if d.panics {
		panic("model exploded")
	}
	return d.dets, d.err
}

type fakeCropper struct {
	err error
}

func (c fakeCropper) Crop(frame entity.Frame, box entity.BoundingBox) (entity.Frame, error) {
	if c.err != nil {
		return entity.Frame{}, c.err
	}
	return entity.Frame{Data: []byte("crop"), Width: box.Width, Height: box.Height}, nil
}

type fakeImages struct {
	names []string
	err   error
}

func (s *fakeImages) Save(ctx context.Context, name string, crop entity.Frame) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.names = append(s.names, name)
	return "/eggs/" + name, nil
}

type fakeFeedback struct {
	mu     sync.Mutex
	grades []string
}

func (f *fakeFeedback) SendGrade(ctx context.Context, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grades = append(f.grades, label)
}

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) Send(command string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, command)
	return nil
}

type failingLog struct{}

func (failingLog) Append(ctx context.Context, record entity.EggRecord) error {
	return errors.New("disk full")
}

func (failingLog) Records(ctx context.Context) ([]entity.EggRecord, error) {
	return nil, errors.New("disk full")
}

type recordingListener struct {
	records []entity.EggRecord
}

func (l *recordingListener) OnRecord(ctx context.Context, record entity.EggRecord) {
	l.records = append(l.records, record)
}

func testFrame() entity.Frame {
	return entity.Frame{Data: []byte("jpeg"), Width: 640, Height: 480}
}
