package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X: 10, Y: 20, Width: 8, Height: 6}
	x, y := b.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}

func TestBoundingBoxClamp(t *testing.T) {
	b := BoundingBox{X: -10, Y: 470, Width: 50, Height: 40}
	c := b.Clamp(640, 480)
	require.Equal(t, BoundingBox{X: 0, Y: 470, Width: 40, Height: 10}, c)
	require.False(t, c.Empty())

	outside := BoundingBox{X: 700, Y: 10, Width: 20, Height: 20}.Clamp(640, 480)
	require.True(t, outside.Empty())
}

func TestSizeThresholdsClassify(t *testing.T) {
	th := DefaultSizeThresholds()
	cases := []struct {
		diagonal float64
		want     SizeLabel
	}{
		{250, SizeSmall},
		{300, SizeSmall},
		{300.01, SizeMedium},
		{320, SizeMedium},
		{375, SizeMedium},
		{375.5, SizeLarge},
		{400, SizeLarge},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, th.Classify(tc.diagonal), "diagonal %v", tc.diagonal)
	}
}

func TestSizeThresholdsMeasure(t *testing.T) {
	m := DefaultSizeThresholds().Measure(300, 400)
	require.Equal(t, 500.0, m.DiagonalPixels)
	require.Equal(t, SizeLarge, m.Label)

	m = DefaultSizeThresholds().Measure(200, 150)
	require.Equal(t, 250.0, m.DiagonalPixels)
	require.Equal(t, SizeSmall, m.Label)

	m = DefaultSizeThresholds().Measure(220, 230)
	require.Equal(t, 318.28, m.DiagonalPixels)
	require.Equal(t, SizeMedium, m.Label)
}

func TestParseEvent(t *testing.T) {
	ev, ok := ParseEvent("OBJECT_DETECTED\r", fixedNow)
	require.True(t, ok)
	require.Equal(t, ObjectDetected, ev.Kind)
	require.Equal(t, fixedNow, ev.At)

	ev, ok = ParseEvent("  OBJECT_GONE ", fixedNow)
	require.True(t, ok)
	require.Equal(t, ObjectGone, ev.Kind)

	for _, line := range []string{"", "OBJECT_DET", "GRADE_A", "object_detected"} {
		_, ok := ParseEvent(line, fixedNow)
		require.False(t, ok, "line %q", line)
	}
}

func TestGradeCommand(t *testing.T) {
	require.Equal(t, "GRADE_A_Good\n", GradeCommand("A_Good"))
}
