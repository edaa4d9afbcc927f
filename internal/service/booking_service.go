package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"structiv/internal/database"
	"structiv/internal/domain"
	"structiv/internal/events"
	"structiv/internal/models"

	"github.com/rs/zerolog"
)

const msgBookingNotFound = "Booking not found"

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

type CreateBookingInput struct {
	UserID        int64  `json:"userId"`
	UnitID        int64  `json:"unitId"`
	BookingDate   string `json:"bookingDate"`
	MeetingDate   string `json:"meetingDate"`
	MeetingTime   string `json:"meetingTime"`
	FacebookLink  string `json:"facebookLink"`
	ContactNumber string `json:"contactNumber"`
}

type RescheduleInput struct {
	MeetingDate  string  `json:"meetingDate"`
	MeetingTime  *string `json:"meetingTime"`
	AdminMessage *string `json:"adminMessage"`
}

func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

// CreateBooking records a viewing request. The status is always Pending.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, in CreateBookingInput) (*models.Booking, error) {
	in.BookingDate = strings.TrimSpace(in.BookingDate)
	in.MeetingDate = strings.TrimSpace(in.MeetingDate)
	if in.UserID <= 0 || in.UnitID <= 0 || in.BookingDate == "" || in.MeetingDate == "" {
		return nil, invalid("User, unit, booking date and meeting date are required")
	}
	if !validDate(in.BookingDate) || !validDate(in.MeetingDate) {
		return nil, invalid("Dates must use the YYYY-MM-DD format")
	}
	if !actor.CanAccessUser(in.UserID) {
		return nil, forbidden("You can only book for yourself")
	}

	user, err := s.repo.GetUserByID(ctx, in.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound(msgUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	unit, err := s.repo.GetUnit(ctx, in.UnitID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound(msgUnitNotFound)
	}
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:        in.UserID,
		UnitID:        in.UnitID,
		BookingDate:   in.BookingDate,
		MeetingDate:   in.MeetingDate,
		MeetingTime:   strings.TrimSpace(in.MeetingTime),
		FacebookLink:  strings.TrimSpace(in.FacebookLink),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Status:        models.StatusPending,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("booking_id", booking.ID).Int64("user_id", booking.UserID).Int64("unit_id", booking.UnitID).Msg("booking created")
	s.publishEvent(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		UnitID:      booking.UnitID,
		UnitName:    unit.Name,
		UserName:    strings.TrimSpace(user.FirstName + " " + user.LastName),
		Status:      booking.Status,
		MeetingDate: booking.MeetingDate,
		MeetingTime: booking.MeetingTime,
		ChangedBy:   actorRole(actor),
		ChangedByID: actor.UserID,
	})
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*models.BookingView, error) {
	return s.repo.ListBookings(ctx)
}

func (s *BookingService) ListUserBookings(ctx context.Context, actor Actor, userID int64) ([]*models.BookingView, error) {
	if !actor.CanAccessUser(userID) {
		return nil, forbidden("Access denied")
	}
	return s.repo.ListBookingsByUser(ctx, userID)
}

// GetBooking returns the joined booking; non-admin callers must own it.
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, id int64) (*models.BookingView, error) {
	view, err := s.repo.GetBooking(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound(msgBookingNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessUser(view.UserID) {
		return nil, forbidden("Access denied")
	}
	return view, nil
}

// UpdateStatus sets any of the three statuses. Owners may only decline (cancel).
func (s *BookingService) UpdateStatus(ctx context.Context, actor Actor, id int64, status string) error {
	if !models.IsBookingStatus(status) {
		return invalid("Status must be one of Pending, Approved, Declined")
	}

	view, err := s.GetBooking(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.System() && !actor.IsAdmin() && status != models.StatusDeclined {
		return forbidden("You can only cancel your booking")
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(msgBookingNotFound)
		}
		return err
	}

	s.logger.Info().Int64("booking_id", id).Str("from", view.Status).Str("to", status).Msg("booking status updated")
	payload := bookingPayload(view, actor)
	payload.PreviousStatus = view.Status
	payload.Status = status
	s.publishEvent(events.EventBookingStatusChanged, payload)
	return nil
}

// RescheduleBooking moves the meeting. Time and admin message change only when non-empty.
func (s *BookingService) RescheduleBooking(ctx context.Context, actor Actor, id int64, in RescheduleInput) error {
	if !actor.System() && !actor.IsAdmin() {
		return forbidden("Only an admin can reschedule")
	}
	in.MeetingDate = strings.TrimSpace(in.MeetingDate)
	if in.MeetingDate == "" {
		return invalid("Meeting date is required")
	}
	if !validDate(in.MeetingDate) {
		return invalid("Dates must use the YYYY-MM-DD format")
	}

	r := models.Reschedule{MeetingDate: in.MeetingDate}
	if in.MeetingTime != nil && strings.TrimSpace(*in.MeetingTime) != "" {
		t := strings.TrimSpace(*in.MeetingTime)
		r.MeetingTime = &t
	}
	if in.AdminMessage != nil && strings.TrimSpace(*in.AdminMessage) != "" {
		m := strings.TrimSpace(*in.AdminMessage)
		r.AdminMessage = &m
	}

	if err := s.repo.RescheduleBooking(ctx, id, r); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(msgBookingNotFound)
		}
		return err
	}
	s.logger.Info().Int64("booking_id", id).Str("meeting_date", r.MeetingDate).Msg("booking rescheduled")

	view, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("booking_id", id).Msg("reload rescheduled booking")
		return nil
	}
	s.publishEvent(events.EventBookingRescheduled, bookingPayload(view, actor))
	return nil
}

// DeleteBooking removes the booking and its message thread.
func (s *BookingService) DeleteBooking(ctx context.Context, actor Actor, id int64) error {
	if !actor.System() && !actor.IsAdmin() {
		return forbidden("Only an admin can delete bookings")
	}
	view, err := s.repo.GetBooking(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return notFound(msgBookingNotFound)
	}
	if err != nil {
		return err
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(msgBookingNotFound)
		}
		return err
	}
	s.logger.Info().Int64("booking_id", id).Msg("booking deleted")
	s.publishEvent(events.EventBookingDeleted, bookingPayload(view, actor))
	return nil
}

// SendMessage appends to the booking thread. Authenticated callers send as their own role.
func (s *BookingService) SendMessage(ctx context.Context, actor Actor, bookingID int64, senderType, text string) (*models.BookingMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || senderType == "" {
		return nil, invalid("Message and sender type are required")
	}
	if !models.IsSenderType(senderType) {
		return nil, invalid("Sender type must be admin or user")
	}
	if !actor.System() && models.SenderForRole(actor.Role) != senderType {
		return nil, forbidden("Sender type does not match your role")
	}

	view, err := s.GetBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	msg := &models.BookingMessage{BookingID: bookingID, SenderType: senderType, Message: text}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("booking_id", bookingID).Str("sender_type", senderType).Msg("booking message sent")
	s.publishEvent(events.EventMessageSent, events.MessagePayload{
		MessageID:  msg.ID,
		BookingID:  bookingID,
		UserID:     view.UserID,
		UnitName:   view.UnitName,
		SenderType: senderType,
		Message:    text,
	})
	return msg, nil
}

func (s *BookingService) ListMessages(ctx context.Context, actor Actor, bookingID int64) ([]*models.BookingMessage, error) {
	if _, err := s.GetBooking(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, bookingID)
}

// UserStats summarises a user's dashboard: the first approved unit and pending count.
func (s *BookingService) UserStats(ctx context.Context, actor Actor, userID int64) (*models.UserStats, error) {
	if !actor.CanAccessUser(userID) {
		return nil, forbidden("Access denied")
	}
	stats := &models.UserStats{OwnedUnit: "No unit owned", ActiveUnit: "No active unit"}

	name, ok, err := s.repo.ApprovedUnitName(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		stats.OwnedUnit = name
		stats.ActiveUnit = name
	}

	stats.PendingPayment, err = s.repo.CountUserBookings(ctx, userID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func bookingPayload(view *models.BookingView, actor Actor) events.BookingEventPayload {
	return events.BookingEventPayload{
		BookingID:    view.ID,
		UserID:       view.UserID,
		UnitID:       view.UnitID,
		UnitName:     view.UnitName,
		UserName:     strings.TrimSpace(view.FirstName + " " + view.LastName),
		Status:       view.Status,
		MeetingDate:  view.MeetingDate,
		MeetingTime:  view.MeetingTime,
		AdminMessage: view.AdminMessage,
		ChangedBy:    actorRole(actor),
		ChangedByID:  actor.UserID,
	}
}

func actorRole(actor Actor) string {
	if actor.System() {
		return "system"
	}
	return actor.Role
}

func (s *BookingService) publishEvent(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
