package port

import (
	"context"

	"egg-grader/internal/domain/entity"
)

// SubscriberRepository интерфейс хранилища подписчиков бота
type SubscriberRepository interface {
	// Get возвращает подписчика по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.Subscriber, error)

	// Save сохраняет подписчика
	Save(ctx context.Context, subscriber *entity.Subscriber) error

	// Notified возвращает всех подписчиков с включёнными уведомлениями
	Notified(ctx context.Context) ([]entity.Subscriber, error)
}
