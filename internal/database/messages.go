package database

import (
	"context"
	"fmt"

	"structiv/internal/models"
)

func (db *DB) CreateMessage(ctx context.Context, msg *models.BookingMessage) error {
	ts := now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO booking_messages (booking_id, sender_type, message, created_at) VALUES (?, ?, ?, ?)`,
		msg.BookingID, msg.SenderType, msg.Message, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	msg.ID = id
	msg.CreatedAt = ts
	return nil
}

// ListMessages returns a booking's thread oldest first; id breaks created_at ties.
func (db *DB) ListMessages(ctx context.Context, bookingID int64) ([]*models.BookingMessage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, booking_id, sender_type, message, created_at
		FROM booking_messages WHERE booking_id = ?
		ORDER BY created_at ASC, id ASC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.BookingMessage{}
	for rows.Next() {
		m := &models.BookingMessage{}
		if err := rows.Scan(&m.ID, &m.BookingID, &m.SenderType, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
