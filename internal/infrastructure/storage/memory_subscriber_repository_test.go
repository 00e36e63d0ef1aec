package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemorySubscriberRepository_Notified(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySubscriberRepository()

	a, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	a.SetNotify(true)
	require.NoError(t, repo.Save(ctx, a))

	b, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	b.SetNotify(true)
	require.NoError(t, repo.Save(ctx, b))

	_, err = repo.Get(ctx, 3, 30)
	require.NoError(t, err)

	subs, err := repo.Notified(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, int64(10), subs[0].ChatID)
	require.Equal(t, int64(20), subs[1].ChatID)
}
