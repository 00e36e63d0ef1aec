package storage

import (
	"context"
	"sync"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
)

// MemoryResultLog журнал в памяти, без сохранения на диск. Для пробных запусков.
type MemoryResultLog struct {
	mu      sync.RWMutex
	records []entity.EggRecord
}

// NewMemoryResultLog создаёт журнал с начальными записями.
func NewMemoryResultLog(initial ...entity.EggRecord) *MemoryResultLog {
	return &MemoryResultLog{records: append([]entity.EggRecord(nil), initial...)}
}

// Append добавляет запись.
func (l *MemoryResultLog) Append(ctx context.Context, record entity.EggRecord) error {
	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()
	return nil
}

// Records возвращает копию записей.
func (l *MemoryResultLog) Records(ctx context.Context) ([]entity.EggRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	records := make([]entity.EggRecord, len(l.records))
	copy(records, l.records)
	return records, nil
}

var _ port.ResultLog = (*MemoryResultLog)(nil)
