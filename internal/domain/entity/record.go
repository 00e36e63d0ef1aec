package entity

import (
	"strings"
	"time"
)

const (
	TimestampLayout = "2006-01-02 15:04:05" // формат поля timestamp в журнале
	DateLayout      = "2006-01-02"          // префикс timestamp, по которому считается "сегодня"
)

// EggRecord запись журнала о классифицированном яйце. После добавления не меняется.
type EggRecord struct {
	Timestamp      string  `json:"timestamp"`
	Label          string  `json:"label"`
	Confidence     float64 `json:"confidence"`
	Size           string  `json:"size"`
	DiagonalPixels float64 `json:"diagonal_pixels"`
	ImagePath      string  `json:"image_path"`
}

// NewEggRecord собирает запись из результата детекции.
func NewEggRecord(at time.Time, det Detection, imagePath string) EggRecord {
	return EggRecord{
		Timestamp:      at.Format(TimestampLayout),
		Label:          det.Label,
		Confidence:     Round2(det.Confidence),
		Size:           string(det.Size.Label),
		DiagonalPixels: det.Size.DiagonalPixels,
		ImagePath:      imagePath,
	}
}

// OnDate сообщает, относится ли запись к дню date (YYYY-MM-DD).
func (r EggRecord) OnDate(date string) bool {
	return strings.HasPrefix(r.Timestamp, date)
}

// Time разбирает timestamp записи в локальном времени.
func (r EggRecord) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
}

// Stats производная статистика по журналу. Никогда не хранится, всегда пересчитывается.
type Stats struct {
	TotalAllTime       int            `json:"total_all_time"`
	TotalToday         int            `json:"total_today"`
	LabelCountsAllTime map[string]int `json:"label_counts_all_time"`
	LabelCountsToday   map[string]int `json:"label_counts_today"`
}

// ComputeStats считает статистику по записям на момент asOf.
func ComputeStats(records []EggRecord, asOf time.Time) Stats {
	today := asOf.Format(DateLayout)
	stats := Stats{
		TotalAllTime:       len(records),
		LabelCountsAllTime: make(map[string]int),
		LabelCountsToday:   make(map[string]int),
	}

	for _, r := range records {
		label := r.Label
		if label == "" {
			label = "Unknown"
		}
		stats.LabelCountsAllTime[label]++
		if r.OnDate(today) {
			stats.TotalToday++
			stats.LabelCountsToday[label]++
		}
	}

	return stats
}

// FilterByDate оставляет записи за день date (YYYY-MM-DD).
func FilterByDate(records []EggRecord, date string) []EggRecord {
	out := make([]EggRecord, 0, len(records))
	for _, r := range records {
		if r.OnDate(date) {
			out = append(out, r)
		}
	}
	return out
}
