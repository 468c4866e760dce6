package jsonstore

import (
	"context"
	"fmt"
	"time"

	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/storage"
)

// CreateSubscription appends a new subscription record.
func (s *Store) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	const op = "jsonstore.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.subscriptions.mu.Lock()
	defer s.subscriptions.mu.Unlock()

	var subs []models.Subscription
	if err := s.subscriptions.load(&subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	subs = append(subs, *sub)
	if err := s.subscriptions.persist(subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscriptionByID returns the subscription with the given id.
func (s *Store) GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "jsonstore.GetSubscriptionByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.subscriptions.mu.Lock()
	defer s.subscriptions.mu.Unlock()

	var subs []models.Subscription
	if err := s.subscriptions.load(&subs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range subs {
		if subs[i].ID == id {
			sub := subs[i]
			return &sub, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// ListSubscriptionsByUser returns all subscriptions owned by the user,
// in insertion order.
func (s *Store) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	const op = "jsonstore.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.subscriptions.mu.Lock()
	defer s.subscriptions.mu.Unlock()

	var subs []models.Subscription
	if err := s.subscriptions.load(&subs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []*models.Subscription
	for i := range subs {
		if subs[i].UserID == userID {
			sub := subs[i]
			result = append(result, &sub)
		}
	}
	return result, nil
}

// UpdateSubscription merges the non-nil fields of upd into the stored
// record and refreshes updated_at. Returns false when the id does not
// exist.
func (s *Store) UpdateSubscription(ctx context.Context, id string, upd models.SubscriptionUpdate) (bool, error) {
	const op = "jsonstore.UpdateSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.subscriptions.mu.Lock()
	defer s.subscriptions.mu.Unlock()

	var subs []models.Subscription
	if err := s.subscriptions.load(&subs); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for i := range subs {
		if subs[i].ID != id {
			continue
		}
		applySubscriptionUpdate(&subs[i], upd)
		subs[i].UpdatedAt = time.Now().UTC()
		if err := s.subscriptions.persist(subs); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return true, nil
	}
	return false, nil
}

// DeleteSubscription removes the record outright. Returns false when
// the id does not exist, so a second delete of the same id is a no-op.
func (s *Store) DeleteSubscription(ctx context.Context, id string) (bool, error) {
	const op = "jsonstore.DeleteSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.subscriptions.mu.Lock()
	defer s.subscriptions.mu.Unlock()

	var subs []models.Subscription
	if err := s.subscriptions.load(&subs); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for i := range subs {
		if subs[i].ID == id {
			subs = append(subs[:i], subs[i+1:]...)
			if err := s.subscriptions.persist(subs); err != nil {
				return false, fmt.Errorf("%s: %w", op, err)
			}
			return true, nil
		}
	}
	return false, nil
}

func applySubscriptionUpdate(sub *models.Subscription, upd models.SubscriptionUpdate) {
	if upd.ServiceName != nil {
		sub.ServiceName = *upd.ServiceName
	}
	if upd.Price != nil {
		sub.Price = *upd.Price
	}
	if upd.Currency != nil {
		sub.Currency = *upd.Currency
	}
	if upd.BillingCycle != nil {
		sub.BillingCycle = *upd.BillingCycle
	}
	if upd.Category != nil {
		sub.Category = *upd.Category
	}
	if upd.Status != nil {
		sub.Status = *upd.Status
	}
	if upd.NextBillingDate != nil {
		sub.NextBillingDate = upd.NextBillingDate
	}
	if upd.Notes != nil {
		sub.Notes = *upd.Notes
	}
}
