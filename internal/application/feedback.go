package app

import (
	"context"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
)

// GradeFeedback отправляет оценку сортировщику по тому же порту, откуда приходят сигналы.
type GradeFeedback struct {
	sender port.CommandSender
	logger *logger.Logger
}

// NewGradeFeedback создаёт отправителя оценок.
func NewGradeFeedback(sender port.CommandSender, log *logger.Logger) *GradeFeedback {
	if log == nil {
		log = logger.Discard()
	}
	return &GradeFeedback{sender: sender, logger: log}
}

// SendGrade отправляет GRADE_<label>. Ошибка только логируется.
func (f *GradeFeedback) SendGrade(ctx context.Context, label string) {
	command := entity.GradeCommand(label)
	if err := f.sender.Send(command); err != nil {
		f.logger.Error("[SERIAL ERROR] Failed to send command %q: %v", command, err)
		return
	}
	f.logger.Info("[SERIAL] Sent grade to sorter: GRADE_%s", label)
}

var _ port.FeedbackSink = (*GradeFeedback)(nil)
