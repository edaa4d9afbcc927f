package repository

import (
	"context"
	"sync/atomic"
	"time"

	"structiv/internal/domain"
	"structiv/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverNotificationRepository serves from primary until it fails, then from
// fallback, retrying primary once per recovery interval.
type FailoverNotificationRepository struct {
	primary   domain.NotificationRepository
	fallback  domain.NotificationRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

func NewFailoverNotificationRepository(primary, fallback domain.NotificationRepository, logger *zerolog.Logger) *FailoverNotificationRepository {
	return &FailoverNotificationRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// usePrimary reports whether the next call should go to primary.
func (r *FailoverNotificationRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return r.now().UnixNano()-r.lastCheck.Load() > int64(recoveryInterval)
}

func (r *FailoverNotificationRepository) observe(err error) {
	if err == nil {
		if r.isDown.Swap(false) {
			r.logger.Info().Msg("Primary notification repository recovered")
		}
		return
	}
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary notification repository failed, falling back to memory")
	}
	r.lastCheck.Store(r.now().UnixNano())
}

func (r *FailoverNotificationRepository) Push(ctx context.Context, n *models.Notification) error {
	if r.usePrimary() {
		err := r.primary.Push(ctx, n)
		r.observe(err)
		if err == nil {
			return nil
		}
	}
	return r.fallback.Push(ctx, n)
}

func (r *FailoverNotificationRepository) List(ctx context.Context, recipient string) ([]*models.Notification, error) {
	if r.usePrimary() {
		list, err := r.primary.List(ctx, recipient)
		r.observe(err)
		if err == nil {
			return list, nil
		}
	}
	return r.fallback.List(ctx, recipient)
}

func (r *FailoverNotificationRepository) Clear(ctx context.Context, recipient string) error {
	if r.usePrimary() {
		err := r.primary.Clear(ctx, recipient)
		r.observe(err)
		if err == nil {
			// the fallback may still hold entries written during an outage
			return r.fallback.Clear(ctx, recipient)
		}
	}
	return r.fallback.Clear(ctx, recipient)
}

// Degraded reports whether calls are currently served by the fallback.
func (r *FailoverNotificationRepository) Degraded() bool {
	return r.isDown.Load()
}
