package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"egg-grader/internal/domain/entity"
)

func TestSortByConfidence(t *testing.T) {
	dets := []entity.RawDetection{
		{Label: "B - Fair", Confidence: 0.4},
		{Label: "AA - Premium", Confidence: 0.9},
		{Label: "A - Good", Confidence: 0.4},
	}
	sortByConfidence(dets)
	require.Equal(t, "AA - Premium", dets[0].Label)
	require.Equal(t, "B - Fair", dets[1].Label)
	require.Equal(t, "A - Good", dets[2].Label)
}
