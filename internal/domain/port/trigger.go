package port

import (
	"context"
	"iter"

	"egg-grader/internal/domain/entity"
)

// TriggerSource поток сигналов от датчика
type TriggerSource interface {
	// Poll возвращает ленивую последовательность событий до отмены ctx.
	// Повторный вызов начинает новую последовательность с текущего момента.
	Poll(ctx context.Context) iter.Seq[entity.DetectionEvent]

	// Flush отбрасывает накопленные, ещё не прочитанные сигналы
	Flush()
}

// CommandSender отправляет строку-команду в железо
type CommandSender interface {
	Send(command string) error
}

// FeedbackSink сообщает сортировщику оценку яйца
type FeedbackSink interface {
	// SendGrade отправляет оценку; ошибки только логируются
	SendGrade(ctx context.Context, label string)
}
