package domain

import (
	"context"
	"io"

	"structiv/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, email, username string, exceptID int64) (bool, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateProfile(ctx context.Context, id int64, patch models.ProfilePatch) error
}

type UnitRepository interface {
	CreateUnit(ctx context.Context, unit *models.Unit) error
	GetUnit(ctx context.Context, id int64) (*models.Unit, error)
	ListUnits(ctx context.Context) ([]*models.Unit, error)
	UpdateUnit(ctx context.Context, id int64, patch models.UnitPatch) error
	SeedUnits(ctx context.Context, units []models.Unit) (int, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.BookingView, error)
	ListBookings(ctx context.Context) ([]*models.BookingView, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]*models.BookingView, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	RescheduleBooking(ctx context.Context, id int64, r models.Reschedule) error
	DeleteBooking(ctx context.Context, id int64) error
	ApprovedUnitName(ctx context.Context, userID int64) (string, bool, error)
	CountUserBookings(ctx context.Context, userID int64, status string) (int64, error)
	CreateMessage(ctx context.Context, msg *models.BookingMessage) error
	ListMessages(ctx context.Context, bookingID int64) ([]*models.BookingMessage, error)
}

type StatsRepository interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

// Repository is the full relational store; *database.DB implements it.
type Repository interface {
	UserRepository
	UnitRepository
	BookingRepository
	StatsRepository
}

// NotificationRepository keeps a bounded, newest-first inbox per recipient.
type NotificationRepository interface {
	Push(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, recipient string) ([]*models.Notification, error)
	Clear(ctx context.Context, recipient string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ImageStore persists uploaded unit images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// AlertQueue accepts notifications for out-of-band delivery without blocking.
type AlertQueue interface {
	Enqueue(n *models.Notification) bool
}

// LivePusher delivers a notification to connected clients of a recipient.
type LivePusher interface {
	Push(recipient string, n *models.Notification) int
}
