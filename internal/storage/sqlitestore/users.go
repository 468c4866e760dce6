package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/storage"
)

// CreateUser inserts a new user row. The unique index on email turns a
// duplicate signup into storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	const op = "sqlitestore.CreateUser"

	query := `INSERT INTO users (id, email, password_hash, name, subscription_tier,
	              is_active, is_verified, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Tier,
		user.IsActive, user.IsVerified, fmtTime(user.CreatedAt), fmtTime(user.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail returns the user with the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "sqlitestore.GetUserByEmail"

	query := `SELECT id, email, password_hash, name, subscription_tier,
	              is_active, is_verified, created_at, updated_at
	          FROM users WHERE email = ?`
	return s.scanUser(ctx, op, query, email)
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "sqlitestore.GetUserByID"

	query := `SELECT id, email, password_hash, name, subscription_tier,
	              is_active, is_verified, created_at, updated_at
	          FROM users WHERE id = ?`
	return s.scanUser(ctx, op, query, id)
}

func (s *Store) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, query, arg)

	var u models.User
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Tier,
		&u.IsActive, &u.IsVerified, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

// UpdateUser merges the non-nil fields of upd into the stored row and
// refreshes updated_at. Returns false when the id does not exist.
func (s *Store) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (bool, error) {
	const op = "sqlitestore.UpdateUser"

	set := []string{"updated_at = ?"}
	args := []any{fmtTime(time.Now().UTC())}
	if upd.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Tier != nil {
		set = append(set, "subscription_tier = ?")
		args = append(args, *upd.Tier)
	}
	if upd.IsActive != nil {
		set = append(set, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	if upd.IsVerified != nil {
		set = append(set, "is_verified = ?")
		args = append(args, *upd.IsVerified)
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET "+joinSet(set)+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}
