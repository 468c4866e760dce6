package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack/internal/models"
)

// CreateUser materializes and persists a new account. The email must
// not be in use; the password arrives already hashed. New accounts
// start on the free tier, active and unverified.
func (s *Service) CreateUser(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	const op = "tracker.CreateUser"

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%s: %w: email is required", op, ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%s: %w: password hash is required", op, ErrValidation)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Tier:         "free",
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.active().CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created user", slog.String("id", user.ID))
	return user, nil
}

// GetUserByEmail returns the account with the given email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.active().GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// GetUserByID returns the account with the given id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.active().GetUserByID(ctx, id)
}

// UpdateUser applies a partial profile update. Users are never
// hard-deleted; deactivation goes through IsActive.
func (s *Service) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (bool, error) {
	const op = "tracker.UpdateUser"
	ok, err := s.active().UpdateUser(ctx, id, upd)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}
