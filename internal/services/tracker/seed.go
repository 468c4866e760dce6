package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/storage"
)

// Seed creates a demo account with a few subscriptions so a fresh
// install has something to show. It is a no-op when the demo account
// already exists.
func (s *Service) Seed(ctx context.Context, passwordHash string) (string, error) {
	const op = "tracker.Seed"

	if existing, err := s.GetUserByEmail(ctx, "demo@example.com"); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.CreateUser(ctx, "demo@example.com", passwordHash, "Demo User")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	samples := []models.DummySubscription{
		{
			ServiceName:  "Netflix",
			Price:        15.99,
			BillingCycle: string(models.CycleMonthly),
			Category:     string(models.CategoryEntertainment),
		},
		{
			ServiceName:  "Spotify",
			Price:        9.99,
			BillingCycle: string(models.CycleMonthly),
			Category:     string(models.CategoryEntertainment),
		},
		{
			ServiceName:  "ChatGPT Plus",
			Price:        20.0,
			Currency:     "USD",
			BillingCycle: string(models.CycleMonthly),
			Category:     string(models.CategoryProductivity),
		},
	}
	for _, sample := range samples {
		if _, err := s.CreateSubscription(ctx, user.ID, sample); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	return user.ID, nil
}
