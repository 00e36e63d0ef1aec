package app

import (
	"context"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
)

type SubscriptionService struct {
	repo port.SubscriberRepository
}

func NewSubscriptionService(repo port.SubscriberRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

func (s *SubscriptionService) Get(ctx context.Context, userID, chatID int64) (*entity.Subscriber, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *SubscriptionService) SetNotify(ctx context.Context, userID, chatID int64, on bool) (*entity.Subscriber, error) {
	sub, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	sub.SetNotify(on)
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *SubscriptionService) Subscribe(ctx context.Context, userID, chatID int64) (*entity.Subscriber, error) {
	return s.SetNotify(ctx, userID, chatID, true)
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, chatID int64) (*entity.Subscriber, error) {
	return s.SetNotify(ctx, userID, chatID, false)
}

// ChatsToNotify возвращает чаты с включёнными уведомлениями.
func (s *SubscriptionService) ChatsToNotify(ctx context.Context) ([]int64, error) {
	subs, err := s.repo.Notified(ctx)
	if err != nil {
		return nil, err
	}
	chats := make([]int64, 0, len(subs))
	for _, sub := range subs {
		chats = append(chats, sub.ChatID)
	}
	return chats, nil
}
