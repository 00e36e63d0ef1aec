package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/timeutil"
)

func TestCaptureScheduler_WaitsSettleThenFlushes(t *testing.T) {
	clock := timeutil.NewMockClock(t0)
	triggers := &fakeTriggers{}
	camera := &fakeCamera{clock: clock, frame: testFrame()}

	s := NewCaptureScheduler(DefaultSettleDelay, clock, triggers, camera)
	frame, err := s.Capture(context.Background())
	require.NoError(t, err)
	require.Equal(t, testFrame(), frame)

	require.Equal(t, 1, triggers.flushes)
	require.Len(t, camera.captures, 1)
	require.GreaterOrEqual(t, camera.captures[0].Sub(t0), DefaultSettleDelay)
}

func TestCaptureScheduler_CaptureErrors(t *testing.T) {
	clock := timeutil.NewMockClock(t0)
	camera := &fakeCamera{clock: clock, err: errors.New("no frame")}
	s := NewCaptureScheduler(DefaultSettleDelay, clock, nil, camera)

	_, err := s.Capture(context.Background())
	require.ErrorIs(t, err, entity.ErrCapture)

	camera.err = nil
	camera.frame = entity.Frame{}
	_, err = s.Capture(context.Background())
	require.ErrorIs(t, err, entity.ErrCapture)
}

func TestCaptureScheduler_ShutdownDuringSettle(t *testing.T) {
	camera := &fakeCamera{clock: timeutil.RealClock{}, frame: testFrame()}
	s := NewCaptureScheduler(DefaultSettleDelay, timeutil.RealClock{}, nil, camera)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Capture(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, camera.captures)
}
