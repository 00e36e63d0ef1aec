package storage

import (
	"context"
	"sort"
	"sync"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
)

// MemorySubscriberRepository in-memory хранилище подписчиков бота
type MemorySubscriberRepository struct {
	mu          sync.RWMutex
	subscribers map[int64]*entity.Subscriber
}

// NewMemorySubscriberRepository создаёт новое in-memory хранилище
func NewMemorySubscriberRepository() *MemorySubscriberRepository {
	return &MemorySubscriberRepository{
		subscribers: make(map[int64]*entity.Subscriber),
	}
}

// Get возвращает копию подписчика по ID, создаёт нового если не найден
func (r *MemorySubscriberRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.subscribers[userID]
	if !exists {
		sub = entity.NewSubscriber(userID, chatID)
		r.subscribers[userID] = sub
	}

	cp := *sub
	return &cp, nil
}

// Save сохраняет подписчика
func (r *MemorySubscriberRepository) Save(ctx context.Context, subscriber *entity.Subscriber) error {
	cp := *subscriber

	r.mu.Lock()
	r.subscribers[cp.ID] = &cp
	r.mu.Unlock()

	return nil
}

// Notified возвращает подписчиков с уведомлениями, упорядоченных по ID
func (r *MemorySubscriberRepository) Notified(ctx context.Context) ([]entity.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Subscriber, 0, len(r.subscribers))
	for _, sub := range r.subscribers {
		if sub.Notify {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// Проверка реализации интерфейса
var _ port.SubscriberRepository = (*MemorySubscriberRepository)(nil)
