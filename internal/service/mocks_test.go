package service

import (
	"context"

	"structiv/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) UserExists(ctx context.Context, email, username string, exceptID int64) (bool, error) {
	args := m.Called(ctx, email, username, exceptID)
	return args.Bool(0), args.Error(1)
}
func (m *mockRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *mockRepo) UpdateProfile(ctx context.Context, id int64, p models.ProfilePatch) error {
	return m.Called(ctx, id, p).Error(0)
}
func (m *mockRepo) CreateUnit(ctx context.Context, u *models.Unit) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) GetUnit(ctx context.Context, id int64) (*models.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}
func (m *mockRepo) ListUnits(ctx context.Context) ([]*models.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Unit), args.Error(1)
}
func (m *mockRepo) UpdateUnit(ctx context.Context, id int64, p models.UnitPatch) error {
	return m.Called(ctx, id, p).Error(0)
}
func (m *mockRepo) SeedUnits(ctx context.Context, units []models.Unit) (int, error) {
	args := m.Called(ctx, units)
	return args.Int(0), args.Error(1)
}
func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.BookingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingView), args.Error(1)
}
func (m *mockRepo) ListBookings(ctx context.Context) ([]*models.BookingView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingView), args.Error(1)
}
func (m *mockRepo) ListBookingsByUser(ctx context.Context, userID int64) ([]*models.BookingView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingView), args.Error(1)
}
func (m *mockRepo) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockRepo) RescheduleBooking(ctx context.Context, id int64, r models.Reschedule) error {
	return m.Called(ctx, id, r).Error(0)
}
func (m *mockRepo) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) ApprovedUnitName(ctx context.Context, userID int64) (string, bool, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *mockRepo) CountUserBookings(ctx context.Context, userID int64, status string) (int64, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockRepo) CreateMessage(ctx context.Context, msg *models.BookingMessage) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *mockRepo) ListMessages(ctx context.Context, bookingID int64) ([]*models.BookingMessage, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingMessage), args.Error(1)
}
func (m *mockRepo) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminStats), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}
