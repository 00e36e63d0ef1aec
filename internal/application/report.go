package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/timeutil"
)

// ErrInvalidDate дата запроса не в формате YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// ReportService читает журнал параллельно с конвейером. Только чтение.
type ReportService struct {
	results port.ResultLog
	clock   timeutil.Clock
}

// NewReportService создаёт сервис отчётов.
func NewReportService(results port.ResultLog, clock timeutil.Clock) *ReportService {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &ReportService{results: results, clock: clock}
}

// Records возвращает записи за день date: пустая строка означает все, "today" сегодня, иначе YYYY-MM-DD.
func (s *ReportService) Records(ctx context.Context, date string) ([]entity.EggRecord, error) {
	records, err := s.results.Records(ctx)
	if err != nil {
		return nil, err
	}

	switch date {
	case "":
		return records, nil
	case "today":
		return entity.FilterByDate(records, s.clock.Now().Format(entity.DateLayout)), nil
	default:
		if _, err := time.Parse(entity.DateLayout, date); err != nil {
			return nil, fmt.Errorf("%w %q: expected YYYY-MM-DD or today", ErrInvalidDate, date)
		}
		return entity.FilterByDate(records, date), nil
	}
}

// Stats пересчитывает статистику по журналу на текущий момент.
func (s *ReportService) Stats(ctx context.Context) (entity.Stats, error) {
	records, err := s.results.Records(ctx)
	if err != nil {
		return entity.Stats{}, err
	}
	return entity.ComputeStats(records, s.clock.Now()), nil
}

// Last возвращает последнюю запись журнала. ok == false, если журнал пуст.
func (s *ReportService) Last(ctx context.Context) (rec entity.EggRecord, ok bool, err error) {
	records, err := s.results.Records(ctx)
	if err != nil {
		return entity.EggRecord{}, false, err
	}
	if len(records) == 0 {
		return entity.EggRecord{}, false, nil
	}
	return records[len(records)-1], true, nil
}
