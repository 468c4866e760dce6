package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/subtrackhq/subtrack/internal/lib/monthly"
	"github.com/subtrackhq/subtrack/internal/models"
)

const overviewCacheTTL = 5 * time.Minute

// GetUserOverview returns the user's spend summary. The figure is the
// monthly-equivalent sum over active subscriptions only; counts cover
// all statuses. A missing user surfaces as storage.ErrNotFound.
func (s *Service) GetUserOverview(ctx context.Context, userID string) (*models.Overview, error) {
	const op = "tracker.GetUserOverview"

	cacheKey := overviewCacheKey(userID)
	var cached models.Overview
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("overview cache read failed", slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	store := s.active()
	user, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := store.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	overview := BuildOverview(user, subs)
	if err := s.cache.Set(cacheKey, overview, overviewCacheTTL); err != nil {
		s.log.Warn("overview cache write failed", slog.Any("err", err))
	}
	return overview, nil
}

// BuildOverview folds a set of subscription records into the spend
// summary. It is deterministic and side-effect-free: the same input
// always produces the identical output, whichever backend the records
// came from.
func BuildOverview(user *models.User, subs []*models.Subscription) *models.Overview {
	categories := make(map[string]models.CategoryStat)
	var total float64
	var activeCount int

	for _, sub := range subs {
		if sub.Status != models.StatusActive {
			continue
		}
		activeCount++

		equivalent := monthly.Equivalent(sub.Price, sub.BillingCycle)
		total += equivalent

		category := string(sub.Category)
		if category == "" {
			category = string(models.CategoryOther)
		}
		stat := categories[category]
		stat.Count++
		stat.Spending += equivalent
		categories[category] = stat
	}

	for category, stat := range categories {
		stat.Spending = monthly.Round2(stat.Spending)
		categories[category] = stat
	}

	return &models.Overview{
		User:                   user,
		TotalSubscriptions:     len(subs),
		ActiveSubscriptions:    activeCount,
		MonthlySpending:        monthly.Round2(total),
		SubscriptionCategories: categories,
	}
}
