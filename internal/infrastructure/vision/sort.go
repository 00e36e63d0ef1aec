package vision

import (
	"sort"

	"egg-grader/internal/domain/entity"
)

// sortByConfidence упорядочивает результаты по убыванию уверенности, равные сохраняют порядок.
func sortByConfidence(dets []entity.RawDetection) {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Confidence > dets[j].Confidence
	})
}
