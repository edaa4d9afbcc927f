package notify

import (
	"context"
	"fmt"
	"time"

	"structiv/internal/domain"
	"structiv/internal/events"
	"structiv/internal/metrics"
	"structiv/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier turns domain events into inbox notifications for admins and tenants.
type Notifier struct {
	inbox  domain.NotificationRepository
	live   domain.LivePusher
	alerts domain.AlertQueue
	logger *zerolog.Logger
	now    func() time.Time
}

// NewNotifier wires the delivery targets. live and alerts may be nil.
func NewNotifier(inbox domain.NotificationRepository, live domain.LivePusher, alerts domain.AlertQueue, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		inbox:  inbox,
		live:   live,
		alerts: alerts,
		logger: logger,
		now:    time.Now,
	}
}

// Subscribe registers the notifier for booking and message events.
func (n *Notifier) Subscribe(bus *events.EventBus) {
	types := append([]string{events.EventMessageSent}, events.BookingEventTypes...)
	bus.Subscribe(n.Handle, types...)
}

// Handle derives the notifications for event and delivers each of them.
func (n *Notifier) Handle(event *events.Event) error {
	metrics.IncBookingEvent(event.Type)

	list, err := n.Build(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var firstErr error
	for _, item := range list {
		if err := n.deliver(ctx, item); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build maps an event to its notifications without delivering them.
func (n *Notifier) Build(event *events.Event) ([]*models.Notification, error) {
	switch event.Type {
	case events.EventBookingCreated:
		var p events.BookingEventPayload
		if err := event.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		who := p.UserName
		if who == "" {
			who = fmt.Sprintf("User %d", p.UserID)
		}
		return []*models.Notification{n.newNotification(models.RecipientAdmin, models.NotificationBooking, p.BookingID,
			"New booking request",
			fmt.Sprintf("%s booked %s for a meeting on %s", who, p.UnitName, meeting(p)))}, nil

	case events.EventBookingStatusChanged:
		var p events.BookingEventPayload
		if err := event.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		if p.Status == p.PreviousStatus {
			return nil, nil
		}
		switch p.Status {
		case models.StatusApproved:
			return []*models.Notification{n.newNotification(models.UserRecipient(p.UserID), models.NotificationApproved, p.BookingID,
				"Booking approved",
				fmt.Sprintf("Your booking for %s on %s was approved", p.UnitName, meeting(p)))}, nil
		case models.StatusDeclined:
			if p.ChangedByID == p.UserID && p.ChangedBy != models.RoleAdmin {
				return []*models.Notification{n.newNotification(models.RecipientAdmin, models.NotificationDeclined, p.BookingID,
					"Booking cancelled",
					fmt.Sprintf("%s cancelled the booking for %s", p.UserName, p.UnitName))}, nil
			}
			return []*models.Notification{n.newNotification(models.UserRecipient(p.UserID), models.NotificationDeclined, p.BookingID,
				"Booking declined",
				fmt.Sprintf("Your booking for %s was declined", p.UnitName))}, nil
		}
		return nil, nil

	case events.EventBookingRescheduled:
		var p events.BookingEventPayload
		if err := event.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		body := fmt.Sprintf("Your meeting for %s moved to %s", p.UnitName, meeting(p))
		if p.AdminMessage != "" {
			body += ": " + p.AdminMessage
		}
		return []*models.Notification{n.newNotification(models.UserRecipient(p.UserID), models.NotificationRescheduled, p.BookingID,
			"Meeting rescheduled", body)}, nil

	case events.EventMessageSent:
		var p events.MessagePayload
		if err := event.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		if p.SenderType == models.SenderAdmin {
			return []*models.Notification{n.newNotification(models.UserRecipient(p.UserID), models.NotificationMessage, p.BookingID,
				"New message from admin", p.Message)}, nil
		}
		return []*models.Notification{n.newNotification(models.RecipientAdmin, models.NotificationMessage, p.BookingID,
			fmt.Sprintf("New message about %s", p.UnitName), p.Message)}, nil
	}
	return nil, nil
}

func (n *Notifier) deliver(ctx context.Context, item *models.Notification) error {
	if err := n.inbox.Push(ctx, item); err != nil {
		n.logger.Error().Err(err).Str("recipient", item.Recipient).Str("type", item.Type).Msg("store notification")
		return err
	}
	metrics.IncNotification(item.Type)

	if n.live != nil {
		n.live.Push(item.Recipient, item)
	}
	if n.alerts != nil && item.Recipient == models.RecipientAdmin {
		if !n.alerts.Enqueue(item) {
			n.logger.Warn().Str("notification_id", item.ID).Msg("alert queue full, telegram alert dropped")
		}
	}
	n.logger.Debug().Str("recipient", item.Recipient).Str("type", item.Type).Int64("booking_id", item.BookingID).Msg("notification delivered")
	return nil
}

func (n *Notifier) newNotification(recipient, kind string, bookingID int64, title, body string) *models.Notification {
	return &models.Notification{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Type:      kind,
		BookingID: bookingID,
		Title:     title,
		Body:      body,
		CreatedAt: n.now().UTC(),
	}
}

func meeting(p events.BookingEventPayload) string {
	if p.MeetingTime == "" {
		return p.MeetingDate
	}
	return p.MeetingDate + " " + p.MeetingTime
}
