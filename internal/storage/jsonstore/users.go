package jsonstore

import (
	"context"
	"fmt"
	"time"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/storage"
)

// CreateUser appends a new user record. The email must not be in use.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	const op = "jsonstore.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := s.users.load(&users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.Email == user.Email {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
	}
	users = append(users, *user)
	if err := s.users.persist(users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail returns the user with the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "jsonstore.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := s.users.load(&users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "jsonstore.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := s.users.load(&users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// UpdateUser merges the non-nil fields of upd into the stored record
// and refreshes updated_at. Returns false when the id does not exist.
func (s *Store) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (bool, error) {
	const op = "jsonstore.UpdateUser"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := s.users.load(&users); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if upd.Name != nil {
			users[i].Name = *upd.Name
		}
		if upd.Tier != nil {
			users[i].Tier = *upd.Tier
		}
		if upd.IsActive != nil {
			users[i].IsActive = *upd.IsActive
		}
		if upd.IsVerified != nil {
			users[i].IsVerified = *upd.IsVerified
		}
		users[i].UpdatedAt = time.Now().UTC()
		if err := s.users.persist(users); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return true, nil
	}
	return false, nil
}
