package entity

import "time"

// Phase фаза конвейера
type Phase string

const (
	PhaseIdle           Phase = "idle"            // ждём сигнал датчика
	PhaseAwaitingSettle Phase = "awaiting_settle" // яйцо успокаивается перед съёмкой
	PhaseClassifying    Phase = "classifying"     // снимок сделан, идёт классификация
)

// LastResult последний классифицированный объект для экрана состояния.
type LastResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Size       string  `json:"size"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	ImagePath  string  `json:"image_path"`
}

// NoResult состояние экрана, пока ни одно яйцо не классифицировано.
func NoResult() LastResult {
	return LastResult{Label: "N/A", Size: "N/A", Date: "N/A", Time: "N/A"}
}

// LastResultFromRecord восстанавливает последний результат по записи журнала.
func LastResultFromRecord(r EggRecord) LastResult {
	res := LastResult{
		Label:      r.Label,
		Confidence: r.Confidence,
		Size:       r.Size,
		Date:       "N/A",
		Time:       "N/A",
		ImagePath:  r.ImagePath,
	}
	if at, err := r.Time(); err == nil {
		res.Date = at.Format("01-02-2006")
		res.Time = at.Format("03:04:05 PM")
	}
	return res
}

// PipelineState снимок состояния конвейера. Меняет его только контроллер.
type PipelineState struct {
	Phase       Phase      `json:"phase"`
	LastTrigger time.Time  `json:"last_trigger"`
	LastResult  LastResult `json:"last_result"`
}
