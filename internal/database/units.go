package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"structiv/internal/models"
)

const unitColumns = `id, name, size, price, images, status, created_at, updated_at`

func (db *DB) CreateUnit(ctx context.Context, unit *models.Unit) error {
	images, err := encodeImages(unit.Images)
	if err != nil {
		return err
	}
	query := `INSERT INTO units (name, size, price, images, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	result, err := db.ExecContext(ctx, query, unit.Name, unit.Size, unit.Price, images, unit.Status, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	unit.ID = id
	unit.CreatedAt = ts
	unit.UpdatedAt = ts
	if unit.Images == nil {
		unit.Images = []string{}
	}
	return nil
}

func (db *DB) GetUnit(ctx context.Context, id int64) (*models.Unit, error) {
	var u models.Unit
	var images string
	err := db.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE id = ?`, id).Scan(
		&u.ID, &u.Name, &u.Size, &u.Price, &images, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if u.Images, err = decodeImages(images); err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) ListUnits(ctx context.Context) ([]*models.Unit, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+unitColumns+` FROM units ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	units := []*models.Unit{}
	for rows.Next() {
		u := &models.Unit{}
		var images string
		if err := rows.Scan(&u.ID, &u.Name, &u.Size, &u.Price, &images, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		if u.Images, err = decodeImages(images); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// UpdateUnit writes the non-nil fields of patch. An empty patch is a no-op.
func (db *DB) UpdateUnit(ctx context.Context, id int64, patch models.UnitPatch) error {
	var sets []string
	var args []interface{}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Size != nil {
		sets = append(sets, "size = ?")
		args = append(args, *patch.Size)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.Images != nil {
		images, err := encodeImages(*patch.Images)
		if err != nil {
			return err
		}
		sets = append(sets, "images = ?")
		args = append(args, images)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)
	result, err := db.ExecContext(ctx, `UPDATE units SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}
	return expectAffected(result)
}

// SeedUnits inserts units only when the table is empty and reports how many were added.
func (db *DB) SeedUnits(ctx context.Context, units []models.Unit) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM units`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count units: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	query := `INSERT INTO units (name, size, price, images, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	for _, unit := range units {
		images, err := encodeImages(unit.Images)
		if err != nil {
			return 0, err
		}
		status := unit.Status
		if status == "" {
			status = models.UnitAvailable
		}
		if _, err := tx.ExecContext(ctx, query, unit.Name, unit.Size, unit.Price, images, status, ts, ts); err != nil {
			return 0, fmt.Errorf("failed to seed unit %s: %w", unit.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return len(units), nil
}

// UnitImagePaths returns every image reference stored on any unit.
func (db *DB) UnitImagePaths(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT images FROM units`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit images: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan unit images: %w", err)
		}
		images, err := decodeImages(raw)
		if err != nil {
			return nil, err
		}
		paths = append(paths, images...)
	}
	return paths, rows.Err()
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode images: %w", err)
	}
	return string(data), nil
}

func decodeImages(raw string) ([]string, error) {
	images := []string{}
	if raw == "" {
		return images, nil
	}
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	return images, nil
}
