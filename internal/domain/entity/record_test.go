package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 10, 20, 15, 26, 32, 0, time.Local)

func TestNewEggRecord(t *testing.T) {
	det := Detection{
		Label:      "A_Good",
		Confidence: 0.4237,
		Size:       SizeMeasurement{DiagonalPixels: 310, Label: SizeMedium},
	}
	r := NewEggRecord(fixedNow, det, "/eggs/x.jpg")
	require.Equal(t, EggRecord{
		Timestamp:      "2025-10-20 15:26:32",
		Label:          "A_Good",
		Confidence:     0.42,
		Size:           "Medium",
		DiagonalPixels: 310,
		ImagePath:      "/eggs/x.jpg",
	}, r)

	at, err := r.Time()
	require.NoError(t, err)
	require.True(t, at.Equal(fixedNow))
}

func TestComputeStats(t *testing.T) {
	records := []EggRecord{
		{Timestamp: "2025-10-19 10:00:00", Label: "A - Good"},
		{Timestamp: "2025-10-20 09:00:00", Label: "A - Good"},
		{Timestamp: "2025-10-20 09:05:00", Label: "Inedible"},
		{Timestamp: "2025-10-20 09:06:00", Label: ""},
	}

	stats := ComputeStats(records, fixedNow)
	require.Equal(t, 4, stats.TotalAllTime)
	require.Equal(t, 3, stats.TotalToday)
	require.Equal(t, map[string]int{"A - Good": 2, "Inedible": 1, "Unknown": 1}, stats.LabelCountsAllTime)
	require.Equal(t, map[string]int{"A - Good": 1, "Inedible": 1, "Unknown": 1}, stats.LabelCountsToday)

	sum := 0
	for _, n := range stats.LabelCountsAllTime {
		sum += n
	}
	require.Equal(t, stats.TotalAllTime, sum)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, fixedNow)
	require.Zero(t, stats.TotalAllTime)
	require.Zero(t, stats.TotalToday)
	require.Empty(t, stats.LabelCountsAllTime)
	require.NotNil(t, stats.LabelCountsToday)
}

func TestFilterByDate(t *testing.T) {
	records := []EggRecord{
		{Timestamp: "2025-10-19 10:00:00", Label: "a"},
		{Timestamp: "2025-10-20 09:00:00", Label: "b"},
	}
	got := FilterByDate(records, "2025-10-20")
	require.Len(t, got, 1)
	require.Equal(t, "b", got[0].Label)
}

func TestLastResultFromRecord(t *testing.T) {
	res := LastResultFromRecord(EggRecord{Timestamp: "2025-10-20 15:26:32", Label: "B - Fair", Confidence: 0.5, Size: "Large"})
	require.Equal(t, "10-20-2025", res.Date)
	require.Equal(t, "03:26:32 PM", res.Time)
	require.Equal(t, "B - Fair", res.Label)

	res = LastResultFromRecord(EggRecord{Timestamp: "garbage"})
	require.Equal(t, "N/A", res.Date)
}
