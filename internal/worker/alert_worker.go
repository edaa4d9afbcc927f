package worker

import (
	"context"
	"time"

	"structiv/internal/metrics"
	"structiv/internal/models"

	"github.com/rs/zerolog"
)

// AlertSender delivers one notification to one chat.
type AlertSender interface {
	SendNotification(chatID int64, n *models.Notification) error
}

// AlertWorker forwards admin notifications to Telegram chats from a bounded queue.
type AlertWorker struct {
	sender  AlertSender
	chatIDs []int64
	retry   RetryPolicy
	queue   chan *models.Notification
	logger  *zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewAlertWorker builds a worker with sane defaults.
func NewAlertWorker(sender AlertSender, chatIDs []int64, queueSize int, retry RetryPolicy, logger *zerolog.Logger) *AlertWorker {
	if queueSize <= 0 {
		queueSize = models.AlertQueueSize
	}
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 30 * time.Second
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &AlertWorker{
		sender:  sender,
		chatIDs: chatIDs,
		retry:   retry,
		queue:   make(chan *models.Notification, queueSize),
		logger:  logger,
		sleep:   sleepCtx,
	}
}

// Enqueue schedules n without blocking. It reports false when the queue is full.
func (w *AlertWorker) Enqueue(n *models.Notification) bool {
	if len(w.chatIDs) == 0 {
		return true
	}
	select {
	case w.queue <- n:
		return true
	default:
		metrics.IncAlert("dropped")
		return false
	}
}

// Start consumes the queue until ctx is done.
func (w *AlertWorker) Start(ctx context.Context) {
	w.logger.Info().Int("chats", len(w.chatIDs)).Msg("alert worker started")
	defer w.logger.Info().Msg("alert worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-w.queue:
			w.deliver(ctx, n)
		}
	}
}

func (w *AlertWorker) deliver(ctx context.Context, n *models.Notification) {
	for _, chatID := range w.chatIDs {
		if err := w.sendWithRetry(ctx, chatID, n); err != nil {
			metrics.IncAlert("failed")
			w.logger.Error().Err(err).Int64("chat_id", chatID).Str("notification_id", n.ID).Msg("telegram alert failed")
			continue
		}
		metrics.IncAlert("sent")
	}
}

func (w *AlertWorker) sendWithRetry(ctx context.Context, chatID int64, n *models.Notification) error {
	var err error
	for attempt := 1; attempt <= w.retry.Attempts(); attempt++ {
		if err = w.sender.SendNotification(chatID, n); err == nil {
			return nil
		}
		if attempt == w.retry.Attempts() {
			break
		}
		delay := w.retry.NextDelay(attempt)
		w.logger.Warn().Err(err).Int64("chat_id", chatID).Int("attempt", attempt).Dur("retry_in", delay).Msg("telegram alert retry")
		if serr := w.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
	return err
}
