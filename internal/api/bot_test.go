package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	app "egg-grader/internal/application"
	"egg-grader/internal/domain/entity"
	"egg-grader/internal/infrastructure/storage"
	"egg-grader/internal/logger"
	"egg-grader/internal/timeutil"
)

func TestFormatRecord(t *testing.T) {
	text := formatRecord(entity.EggRecord{
		Timestamp:      "2025-10-20 15:26:32",
		Label:          "A - Good",
		Confidence:     0.42,
		Size:           "Medium",
		DiagonalPixels: 310,
	})
	require.Equal(t, "Класс: A - Good\nУверенность: 0.42\nРазмер: Medium (310.00 px)\nВремя: 2025-10-20 15:26:32", text)
}

func TestFormatStats(t *testing.T) {
	text := formatStats(entity.Stats{
		TotalAllTime:       3,
		TotalToday:         1,
		LabelCountsAllTime: map[string]int{"Inedible": 1, "A - Good": 2},
		LabelCountsToday:   map[string]int{"Inedible": 1},
	})
	require.Equal(t, "📊 Всего: 3\n• A - Good: 2\n• Inedible: 1\n\n📅 Сегодня: 1\n• Inedible: 1", text)
}

func TestFormatToday(t *testing.T) {
	require.Equal(t, msgNoneToday, formatToday(nil))

	text := formatToday([]entity.EggRecord{
		{Timestamp: "2025-10-20 09:00:00", Label: "AA - Premium", Size: "Large"},
		{Timestamp: "2025-10-20 09:05:10", Label: "B - Fair", Size: "Small"},
	})
	require.Equal(t, "📅 Сегодня: 2\n09:00:00  AA - Premium  Large\n09:05:10  B - Fair  Small", text)
}

func TestFormatToday_Truncates(t *testing.T) {
	records := make([]entity.EggRecord, maxTodayLines+5)
	for i := range records {
		records[i] = entity.EggRecord{Timestamp: fmt.Sprintf("2025-10-20 09:%02d:00", i), Label: "A - Good", Size: "Medium"}
	}
	text := formatToday(records)
	require.True(t, strings.HasPrefix(text, fmt.Sprintf("📅 Сегодня: %d\n(последние %d)", len(records), maxTodayLines)))
	require.NotContains(t, text, "09:04:00")
	require.Contains(t, text, "09:44:00")
}

func TestHandleCommand(t *testing.T) {
	now := time.Date(2025, 10, 20, 15, 30, 0, 0, time.Local)
	results := storage.NewMemoryResultLog(
		entity.EggRecord{Timestamp: "2025-10-20 09:00:00", Label: "Inedible", Size: "Small"},
	)
	subs := app.NewSubscriptionService(storage.NewMemorySubscriberRepository())
	b := &Bot{
		reports: app.NewReportService(results, timeutil.NewMockClock(now)),
		subs:    subs,
		logger:  logger.Discard(),
	}
	ctx := context.Background()

	require.Equal(t, msgStart, b.handleCommand(ctx, "start", 1, 10))
	require.Equal(t, msgUnknownCommand, b.handleCommand(ctx, "check", 1, 10))
	require.Contains(t, b.handleCommand(ctx, "last", 1, 10), "Inedible")
	require.Contains(t, b.handleCommand(ctx, "today", 1, 10), "09:00:00  Inedible  Small")

	require.Equal(t, msgSubscribed, b.handleCommand(ctx, "subscribe", 1, 10))
	chats, err := subs.ChatsToNotify(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{10}, chats)

	require.Equal(t, msgUnsubscribed, b.handleCommand(ctx, "unsubscribe", 1, 10))
	chats, err = subs.ChatsToNotify(ctx)
	require.NoError(t, err)
	require.Empty(t, chats)
}
