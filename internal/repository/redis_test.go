package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"structiv/internal/config"
	"structiv/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisNotificationRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer Close(client)

	ctx := context.Background()
	require.NoError(t, Ping(ctx, client))

	repo := NewRedisNotificationRepository(client, 3, time.Hour)

	t.Run("PushAndListNewestFirst", func(t *testing.T) {
		for i := 1; i <= 2; i++ {
			require.NoError(t, repo.Push(ctx, &models.Notification{
				ID:        fmt.Sprintf("n%d", i),
				Recipient: models.RecipientAdmin,
				Type:      models.NotificationBooking,
				BookingID: int64(i),
			}))
		}

		got, err := repo.List(ctx, models.RecipientAdmin)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "n2", got[0].ID)
		assert.Equal(t, int64(1), got[1].BookingID)
		assert.Equal(t, time.Hour, s.TTL(inboxKey(models.RecipientAdmin)))
	})

	t.Run("TrimToCapacity", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.Push(ctx, &models.Notification{ID: fmt.Sprintf("m%d", i), Recipient: "user:9"}))
		}
		got, err := repo.List(ctx, "user:9")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "m4", got[0].ID)
		assert.Equal(t, "m2", got[2].ID)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx, "user:9"))
		got, err := repo.List(ctx, "user:9")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("EmptyInbox", func(t *testing.T) {
		got, err := repo.List(ctx, "user:404")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ServerDown", func(t *testing.T) {
		s.SetError("server down")
		defer s.SetError("")

		assert.Error(t, repo.Push(ctx, &models.Notification{Recipient: "admin"}))
		_, err := repo.List(ctx, "admin")
		assert.Error(t, err)
	})
}

func TestRedisNotificationRepository_NilClient(t *testing.T) {
	repo := NewRedisNotificationRepository(nil, 0, 0)
	ctx := context.Background()
	assert.Error(t, repo.Push(ctx, &models.Notification{}))
	_, err := repo.List(ctx, "admin")
	assert.Error(t, err)
	assert.Error(t, repo.Clear(ctx, "admin"))
}
