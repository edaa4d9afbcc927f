package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventBookingRescheduled   = "booking_rescheduled"
	EventBookingDeleted       = "booking_deleted"
	EventMessageSent          = "message_sent"
)

// BookingEventTypes lists every booking lifecycle event.
var BookingEventTypes = []string{
	EventBookingCreated,
	EventBookingStatusChanged,
	EventBookingRescheduled,
	EventBookingDeleted,
}

// BookingEventPayload is the booking snapshot handed to event consumers.
type BookingEventPayload struct {
	BookingID      int64  `json:"booking_id"`
	UserID         int64  `json:"user_id"`
	UnitID         int64  `json:"unit_id"`
	UnitName       string `json:"unit_name"`
	UserName       string `json:"user_name,omitempty"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	MeetingDate    string `json:"meeting_date"`
	MeetingTime    string `json:"meeting_time,omitempty"`
	AdminMessage   string `json:"admin_message,omitempty"`
	ChangedBy      string `json:"changed_by,omitempty"`
	ChangedByID    int64  `json:"changed_by_id,omitempty"`
}

// MessagePayload describes a message appended to a booking thread.
type MessagePayload struct {
	MessageID  int64  `json:"message_id"`
	BookingID  int64  `json:"booking_id"`
	UserID     int64  `json:"user_id"`
	UnitName   string `json:"unit_name"`
	SenderType string `json:"sender_type"`
	Message    string `json:"message"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the JSON payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewEventBus constructs an empty bus. Handler failures are logged to logger when set.
func NewEventBus(logger *zerolog.Logger) *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

// Subscribe registers a handler for the given event types.
func (b *EventBus) Subscribe(handler EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	}
}

// Publish notifies subscribers of the event type and returns how many handlers failed.
func (b *EventBus) Publish(event *Event) int {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	failed := 0
	for _, handler := range handlers {
		// Handlers run synchronously and must not block.
		if err := handler(event); err != nil {
			failed++
			if b.logger != nil {
				b.logger.Warn().Err(err).Str("event_type", event.Type).Msg("event handler failed")
			}
		}
	}
	return failed
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}

	b.Publish(&event)
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
