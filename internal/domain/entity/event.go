package entity

import (
	"strings"
	"time"
)

// EventKind тип сигнала от датчика
type EventKind string

const (
	ObjectDetected EventKind = "OBJECT_DETECTED" // яйцо пересекло точку детекции
	ObjectGone     EventKind = "OBJECT_GONE"     // яйцо ушло, только для журнала
)

// DetectionEvent сигнал датчика вместе со временем приёма
type DetectionEvent struct {
	Kind EventKind
	At   time.Time
}

// ParseEvent разбирает строку протокола. Неизвестные и битые строки отбрасываются.
func ParseEvent(line string, at time.Time) (DetectionEvent, bool) {
	switch EventKind(strings.TrimSpace(line)) {
	case ObjectDetected:
		return DetectionEvent{Kind: ObjectDetected, At: at}, true
	case ObjectGone:
		return DetectionEvent{Kind: ObjectGone, At: at}, true
	default:
		return DetectionEvent{}, false
	}
}

// GradeCommand строка, которую получает сортировщик после классификации.
func GradeCommand(label string) string {
	return "GRADE_" + label + "\n"
}
