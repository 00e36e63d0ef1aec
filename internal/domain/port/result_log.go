package port

import (
	"context"

	"egg-grader/internal/domain/entity"
)

// ResultLog журнал классифицированных яиц. Только добавление, порядок вставки хронологический.
type ResultLog interface {
	// Append атомарно добавляет запись: читатель не увидит частично записанный журнал
	Append(ctx context.Context, record entity.EggRecord) error

	// Records возвращает все записи в порядке добавления
	Records(ctx context.Context) ([]entity.EggRecord, error)
}

// ImageStore сохраняет вырезанные снимки яиц
type ImageStore interface {
	// Save записывает снимок и возвращает путь к файлу
	Save(ctx context.Context, name string, crop entity.Frame) (string, error)
}

// RecordListener получает каждую новую запись после добавления в журнал
type RecordListener interface {
	OnRecord(ctx context.Context, record entity.EggRecord)
}
