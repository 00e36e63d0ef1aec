package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMockClock_AfterAdvances(t *testing.T) {
	start := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	got := <-c.After(1300 * time.Millisecond)
	require.Equal(t, start.Add(1300*time.Millisecond), got)
	require.Equal(t, got, c.Now())
	require.Equal(t, []time.Duration{1300 * time.Millisecond}, c.Waits())

	c.Advance(time.Second)
	require.Equal(t, got.Add(time.Second), c.Now())

	c.Set(start)
	require.Equal(t, start, c.Now())
}

func TestRealClock_After(t *testing.T) {
	var c Clock = RealClock{}
	before := c.Now()
	<-c.After(5 * time.Millisecond)
	require.GreaterOrEqual(t, time.Since(before), 5*time.Millisecond)
}
