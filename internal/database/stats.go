package database

import (
	"context"
	"fmt"

	"structiv/internal/models"
)

// AdminStats counts non-admin users, units, available units and pending bookings in one round trip.
func (db *DB) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM users WHERE role != ?),
		(SELECT COUNT(*) FROM units),
		(SELECT COUNT(*) FROM units WHERE status = ?),
		(SELECT COUNT(*) FROM bookings WHERE status = ?)`
	var s models.AdminStats
	err := db.QueryRowContext(ctx, query, models.RoleAdmin, models.UnitAvailable, models.StatusPending).Scan(
		&s.TotalUsers, &s.TotalUnits, &s.AvailableUnits, &s.PendingBookings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &s, nil
}
