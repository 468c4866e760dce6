package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/storage"
)

// billingDateLayout is the stored YYYY-MM-DD form of next_billing_date.
const billingDateLayout = "2006-01-02"

// CreateSubscription validates the request, fills defaults (currency
// CNY, category other, status active) and persists the record. Nothing
// invalid reaches the store.
func (s *Service) CreateSubscription(ctx context.Context, userID string, req models.DummySubscription) (*models.Subscription, error) {
	const op = "tracker.CreateSubscription"

	if req.Price <= 0 {
		return nil, fmt.Errorf("%s: %w: price must be positive", op, ErrValidation)
	}
	cycle := models.BillingCycle(req.BillingCycle)
	if !cycle.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown billing cycle %q", op, ErrValidation, req.BillingCycle)
	}
	category := models.ServiceCategory(req.Category)
	if req.Category == "" {
		category = models.CategoryOther
	} else if !category.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown category %q", op, ErrValidation, req.Category)
	}
	status := models.SubscriptionStatus(req.Status)
	if req.Status == "" {
		status = models.StatusActive
	} else if !status.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown status %q", op, ErrValidation, req.Status)
	}
	currency := req.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if req.NextBillingDate != nil {
		if _, err := time.Parse(billingDateLayout, *req.NextBillingDate); err != nil {
			return nil, fmt.Errorf("%s: %w: next billing date must be YYYY-MM-DD", op, ErrValidation)
		}
	}

	now := time.Now().UTC()
	sub := &models.Subscription{
		ID:              uuid.NewString(),
		UserID:          userID,
		ServiceName:     req.ServiceName,
		Price:           req.Price,
		Currency:        currency,
		BillingCycle:    cycle,
		Category:        category,
		Status:          status,
		NextBillingDate: req.NextBillingDate,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.active().CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateOverview(userID)
	s.log.Info("created subscription",
		slog.String("id", sub.ID), slog.String("user_id", userID))
	return sub, nil
}

// GetUserSubscriptions returns all of the user's subscriptions
// regardless of status.
func (s *Service) GetUserSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	return s.active().ListSubscriptionsByUser(ctx, userID)
}

// GetActiveSubscriptions returns only the subscriptions with status
// "active"; these are the ones that count toward spend.
func (s *Service) GetActiveSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error) {
	const op = "tracker.GetActiveSubscriptions"
	subs, err := s.active().ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var active []*models.Subscription
	for _, sub := range subs {
		if sub.Status == models.StatusActive {
			active = append(active, sub)
		}
	}
	return active, nil
}

// UpdateSubscription applies a partial update after validating every
// field present in it. Returns false when the id does not exist.
func (s *Service) UpdateSubscription(ctx context.Context, id string, upd models.SubscriptionUpdate) (bool, error) {
	const op = "tracker.UpdateSubscription"

	if upd.Price != nil && *upd.Price <= 0 {
		return false, fmt.Errorf("%s: %w: price must be positive", op, ErrValidation)
	}
	if upd.BillingCycle != nil && !upd.BillingCycle.Valid() {
		return false, fmt.Errorf("%s: %w: unknown billing cycle %q", op, ErrValidation, *upd.BillingCycle)
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return false, fmt.Errorf("%s: %w: unknown category %q", op, ErrValidation, *upd.Category)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return false, fmt.Errorf("%s: %w: unknown status %q", op, ErrValidation, *upd.Status)
	}
	if upd.NextBillingDate != nil {
		if _, err := time.Parse(billingDateLayout, *upd.NextBillingDate); err != nil {
			return false, fmt.Errorf("%s: %w: next billing date must be YYYY-MM-DD", op, ErrValidation)
		}
	}

	store := s.active()
	sub, err := store.GetSubscriptionByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := store.UpdateSubscription(ctx, id, upd)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		s.invalidateOverview(sub.UserID)
	}
	return ok, nil
}

// DeleteSubscription removes the record outright. The first call for
// an id returns true, any later call false.
func (s *Service) DeleteSubscription(ctx context.Context, id string) (bool, error) {
	const op = "tracker.DeleteSubscription"

	store := s.active()
	sub, err := store.GetSubscriptionByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := store.DeleteSubscription(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		s.invalidateOverview(sub.UserID)
		s.log.Info("deleted subscription", slog.String("id", id))
	}
	return ok, nil
}

// SearchSubscriptions filters the user's subscriptions by a
// case-insensitive substring match over service name, category and
// notes. The scan runs here, not in the adapters, so both backends
// return identical results by construction.
func (s *Service) SearchSubscriptions(ctx context.Context, userID, query string) ([]*models.Subscription, error) {
	const op = "tracker.SearchSubscriptions"
	subs, err := s.active().ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := strings.ToLower(query)
	var result []*models.Subscription
	for _, sub := range subs {
		if strings.Contains(strings.ToLower(sub.ServiceName), q) ||
			strings.Contains(strings.ToLower(string(sub.Category)), q) ||
			strings.Contains(strings.ToLower(sub.Notes), q) {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (s *Service) invalidateOverview(userID string) {
	if err := s.cache.Invalidate(overviewCacheKey(userID)); err != nil {
		s.log.Warn("failed to invalidate overview cache",
			slog.String("user_id", userID), slog.Any("err", err))
	}
}
