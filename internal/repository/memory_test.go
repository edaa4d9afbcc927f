package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"structiv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNotificationRepository(t *testing.T) {
	repo := NewMemoryNotificationRepository(2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Push(ctx, &models.Notification{ID: fmt.Sprint(i), Recipient: "admin"}))
	}
	require.NoError(t, repo.Push(ctx, &models.Notification{ID: "x", Recipient: "user:1"}))

	got, err := repo.List(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "1", got[1].ID)

	got[0] = nil
	again, err := repo.List(ctx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, again[0], "List must return a copy")

	require.NoError(t, repo.Clear(ctx, "admin"))
	got, err = repo.List(ctx, "admin")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.List(ctx, "user:1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryNotificationRepository_Concurrent(t *testing.T) {
	repo := NewMemoryNotificationRepository(1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Push(ctx, &models.Notification{ID: fmt.Sprint(i), Recipient: "admin"})
			_, _ = repo.List(ctx, "admin")
		}(i)
	}
	wg.Wait()

	got, err := repo.List(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, got, 50)
}
