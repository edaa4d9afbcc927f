package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"structiv/internal/models"
)

const bookingColumns = `b.id, b.user_id, b.unit_id, b.booking_date, b.meeting_date, b.meeting_time,
	b.facebook_link, b.contact_number, b.status, b.admin_message, b.created_at, b.updated_at`

const bookingViewQuery = `SELECT ` + bookingColumns + `,
		u.name, u.price, u.size, us.first_name, us.last_name, us.email
	FROM bookings b
	JOIN units u ON b.unit_id = u.id
	JOIN users us ON b.user_id = us.id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingView(row scanner) (*models.BookingView, error) {
	v := &models.BookingView{}
	err := row.Scan(
		&v.ID, &v.UserID, &v.UnitID, &v.BookingDate, &v.MeetingDate, &v.MeetingTime,
		&v.FacebookLink, &v.ContactNumber, &v.Status, &v.AdminMessage, &v.CreatedAt, &v.UpdatedAt,
		&v.UnitName, &v.UnitPrice, &v.UnitSize, &v.FirstName, &v.LastName, &v.Email,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				user_id, unit_id, booking_date, meeting_date, meeting_time,
				facebook_link, contact_number, status, admin_message, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	result, err := db.ExecContext(ctx, query,
		booking.UserID,
		booking.UnitID,
		booking.BookingDate,
		booking.MeetingDate,
		booking.MeetingTime,
		booking.FacebookLink,
		booking.ContactNumber,
		booking.Status,
		booking.AdminMessage,
		ts,
		ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = ts
	booking.UpdatedAt = ts
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.BookingView, error) {
	view, err := scanBookingView(db.QueryRowContext(ctx, bookingViewQuery+` WHERE b.id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return view, nil
}

// ListBookings returns all bookings, newest first.
func (db *DB) ListBookings(ctx context.Context) ([]*models.BookingView, error) {
	return db.queryBookingViews(ctx, bookingViewQuery+` ORDER BY b.created_at DESC, b.id DESC`)
}

func (db *DB) ListBookingsByUser(ctx context.Context, userID int64) ([]*models.BookingView, error) {
	return db.queryBookingViews(ctx, bookingViewQuery+` WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`, userID)
}

func (db *DB) queryBookingViews(ctx context.Context, query string, args ...interface{}) ([]*models.BookingView, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	views := []*models.BookingView{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	result, err := db.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`, status, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return expectAffected(result)
}

// RescheduleBooking always sets the meeting date; time and admin message only when given.
func (db *DB) RescheduleBooking(ctx context.Context, id int64, r models.Reschedule) error {
	sets := []string{"meeting_date = ?"}
	args := []interface{}{r.MeetingDate}
	if r.MeetingTime != nil {
		sets = append(sets, "meeting_time = ?")
		args = append(args, *r.MeetingTime)
	}
	if r.AdminMessage != nil {
		sets = append(sets, "admin_message = ?")
		args = append(args, *r.AdminMessage)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	result, err := db.ExecContext(ctx, `UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to reschedule booking: %w", err)
	}
	return expectAffected(result)
}

// DeleteBooking removes the booking together with its messages.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_messages WHERE booking_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete booking messages: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}
	return tx.Commit()
}

// ApprovedUnitName returns the unit of the user's first approved booking.
func (db *DB) ApprovedUnitName(ctx context.Context, userID int64) (string, bool, error) {
	query := `SELECT u.name FROM bookings b
		JOIN units u ON b.unit_id = u.id
		WHERE b.user_id = ? AND b.status = ?
		ORDER BY b.id ASC LIMIT 1`
	var name string
	err := db.QueryRowContext(ctx, query, userID, models.StatusApproved).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get approved unit: %w", err)
	}
	return name, true, nil
}

func (db *DB) CountUserBookings(ctx context.Context, userID int64, status string) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = ? AND status = ?`, userID, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func expectAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
