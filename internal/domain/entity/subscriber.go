package entity

// Subscriber чат, который читает отчёты сортировщика через бота
type Subscriber struct {
	ID     int64 // Telegram User ID
	ChatID int64 // Telegram Chat ID
	Notify bool  // присылать сообщение о каждом яйце
}

// NewSubscriber создаёт подписчика без уведомлений
func NewSubscriber(userID, chatID int64) *Subscriber {
	return &Subscriber{
		ID:     userID,
		ChatID: chatID,
	}
}

// SetNotify включает или выключает уведомления
func (s *Subscriber) SetNotify(on bool) {
	s.Notify = on
}
