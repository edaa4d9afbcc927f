package database

import (
	"context"
	"fmt"
	"strings"

	"structiv/internal/models"
)

const userColumns = `id, first_name, last_name, username, email, contact_number,
	password_hash, role, created_at, updated_at`

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (
				first_name, last_name, username, email, contact_number,
				password_hash, role, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	result, err := db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.ContactNumber,
		user.PasswordHash,
		user.Role,
		ts,
		ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = ts
	user.UpdatedAt = ts
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// UserExists reports whether any other user already holds the email or username.
func (db *DB) UserExists(ctx context.Context, email, username string, exceptID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE (email = ? OR username = ?) AND id != ?`
	var count int
	if err := db.QueryRowContext(ctx, query, email, username, exceptID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (db *DB) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var u models.User
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.ContactNumber,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.ContactNumber,
			&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (db *DB) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result, err := db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectAffected(result)
}

// UpdateProfile writes the non-nil fields of patch.
func (db *DB) UpdateProfile(ctx context.Context, id int64, patch models.ProfilePatch) error {
	var sets []string
	var args []interface{}
	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	add("first_name", patch.FirstName)
	add("last_name", patch.LastName)
	add("username", patch.Username)
	add("email", patch.Email)
	add("contact_number", patch.ContactNumber)
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return expectAffected(result)
}
