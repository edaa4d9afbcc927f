package repository

import (
	"context"
	"sync"

	"structiv/internal/models"
)

type MemoryNotificationRepository struct {
	mu    sync.RWMutex
	inbox map[string][]*models.Notification
	size  int
}

func NewMemoryNotificationRepository(size int) *MemoryNotificationRepository {
	if size <= 0 {
		size = models.DefaultInboxSize
	}
	return &MemoryNotificationRepository{
		inbox: make(map[string][]*models.Notification),
		size:  size,
	}
}

func (r *MemoryNotificationRepository) Push(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := append([]*models.Notification{n}, r.inbox[n.Recipient]...)
	if len(list) > r.size {
		list = list[:r.size]
	}
	r.inbox[n.Recipient] = list
	return nil
}

func (r *MemoryNotificationRepository) List(_ context.Context, recipient string) ([]*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*models.Notification{}, r.inbox[recipient]...), nil
}

func (r *MemoryNotificationRepository) Clear(_ context.Context, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inbox, recipient)
	return nil
}
