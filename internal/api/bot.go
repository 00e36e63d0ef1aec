package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "egg-grader/internal/application"
	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
)

const (
	msgStart = `👋 Привет! Я бот сортировщика яиц.

🥚 Я читаю журнал линии и присылаю отчёты по сортировке.

📋 Команды:
/stats — статистика за всё время и за сегодня
/today — яйца за сегодня
/last — последнее яйцо
/subscribe — сообщать о каждом яйце
/unsubscribe — отключить уведомления
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

/stats — сколько яиц прошло и по каким классам
/today — список яиц за сегодня
/last — результат последней сортировки
/subscribe — присылать сообщение о каждом новом яйце
/unsubscribe — больше не присылать`

	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgSendCommand    = "📋 Я понимаю только команды. Используйте /help для справки."
	msgEmptyLog       = "📭 В журнале пока нет ни одного яйца."
	msgNoneToday      = "📭 Сегодня яиц ещё не было."
	msgSubscribed     = "🔔 Уведомления включены. Буду сообщать о каждом яйце."
	msgUnsubscribed   = "🔕 Уведомления выключены."
	msgReadError      = "⚠️ Не удалось прочитать журнал. Попробуйте позже."

	// Сообщение Telegram ограничено 4096 символами.
	maxTodayLines = 40
)

// Bot Telegram-бот отчётов сортировщика. Журнал только читает.
type Bot struct {
	api     *tgbotapi.BotAPI
	reports *app.ReportService
	subs    *app.SubscriptionService
	logger  *logger.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, reports *app.ReportService, subs *app.SubscriptionService, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	log.Info("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:     api,
		reports: reports,
		subs:    subs,
		logger:  log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// OnRecord рассылает новую запись подписчикам. Отправка идёт в фоне, конвейер не ждёт.
func (b *Bot) OnRecord(ctx context.Context, record entity.EggRecord) {
	chats, err := b.subs.ChatsToNotify(ctx)
	if err != nil {
		b.logger.Error("Error listing subscribers: %v", err)
		return
	}
	if len(chats) == 0 {
		return
	}

	text := "🥚 Новое яйцо\n" + formatRecord(record)
	go func() {
		for _, chatID := range chats {
			b.sendMessage(chatID, text)
		}
	}()
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgSendCommand)
		return
	}
	b.sendMessage(msg.Chat.ID, b.handleCommand(ctx, msg.Command(), msg.From.ID, msg.Chat.ID))
}

// handleCommand возвращает ответ на команду
func (b *Bot) handleCommand(ctx context.Context, command string, userID, chatID int64) string {
	switch command {
	case "start":
		if _, err := b.subs.Get(ctx, userID, chatID); err != nil {
			b.logger.Error("Error getting subscriber: %v", err)
		}
		return msgStart

	case "help":
		return msgHelp

	case "stats":
		stats, err := b.reports.Stats(ctx)
		if err != nil {
			b.logger.Error("Error reading stats: %v", err)
			return msgReadError
		}
		return formatStats(stats)

	case "today":
		records, err := b.reports.Records(ctx, "today")
		if err != nil {
			b.logger.Error("Error reading today's records: %v", err)
			return msgReadError
		}
		return formatToday(records)

	case "last":
		rec, ok, err := b.reports.Last(ctx)
		if err != nil {
			b.logger.Error("Error reading last record: %v", err)
			return msgReadError
		}
		if !ok {
			return msgEmptyLog
		}
		return "🥚 Последнее яйцо\n" + formatRecord(rec)

	case "subscribe":
		if _, err := b.subs.Subscribe(ctx, userID, chatID); err != nil {
			b.logger.Error("Error subscribing chat %d: %v", chatID, err)
			return msgReadError
		}
		return msgSubscribed

	case "unsubscribe":
		if _, err := b.subs.Unsubscribe(ctx, userID, chatID); err != nil {
			b.logger.Error("Error unsubscribing chat %d: %v", chatID, err)
			return msgReadError
		}
		return msgUnsubscribed

	default:
		return msgUnknownCommand
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warning("Error sending message to chat %d: %v", chatID, err)
	}
}

func formatRecord(r entity.EggRecord) string {
	return fmt.Sprintf("Класс: %s\nУверенность: %.2f\nРазмер: %s (%.2f px)\nВремя: %s",
		r.Label, r.Confidence, r.Size, r.DiagonalPixels, r.Timestamp)
}

func formatStats(s entity.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Всего: %d\n", s.TotalAllTime)
	writeCounts(&sb, s.LabelCountsAllTime)
	fmt.Fprintf(&sb, "\n📅 Сегодня: %d\n", s.TotalToday)
	writeCounts(&sb, s.LabelCountsToday)
	return strings.TrimRight(sb.String(), "\n")
}

func writeCounts(sb *strings.Builder, counts map[string]int) {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(sb, "• %s: %d\n", label, counts[label])
	}
}

func formatToday(records []entity.EggRecord) string {
	if len(records) == 0 {
		return msgNoneToday
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Сегодня: %d\n", len(records))
	shown := records
	if len(shown) > maxTodayLines {
		shown = shown[len(shown)-maxTodayLines:]
		fmt.Fprintf(&sb, "(последние %d)\n", maxTodayLines)
	}
	for _, r := range shown {
		clock := r.Timestamp
		if at, err := r.Time(); err == nil {
			clock = at.Format("15:04:05")
		}
		fmt.Fprintf(&sb, "%s  %s  %s\n", clock, r.Label, r.Size)
	}
	return strings.TrimRight(sb.String(), "\n")
}

var _ port.RecordListener = (*Bot)(nil)
