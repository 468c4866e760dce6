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

const subscriptionColumns = `id, user_id, service_name, price, currency,
	billing_cycle, category, status, next_billing_date, notes, created_at, updated_at`

// CreateSubscription inserts a new subscription row.
func (s *Store) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	const op = "sqlitestore.CreateSubscription"

	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.ServiceName, sub.Price, sub.Currency,
		string(sub.BillingCycle), string(sub.Category), string(sub.Status),
		sub.NextBillingDate, sub.Notes, fmtTime(sub.CreatedAt), fmtTime(sub.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscriptionByID returns the subscription with the given id.
func (s *Store) GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "sqlitestore.GetSubscriptionByID"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListSubscriptionsByUser returns all subscriptions owned by the user,
// in insertion order (creation time, id as tiebreak).
func (s *Store) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	const op = "sqlitestore.ListSubscriptionsByUser"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscription merges the non-nil fields of upd into the stored
// row and refreshes updated_at. Returns false when the id does not
// exist.
func (s *Store) UpdateSubscription(ctx context.Context, id string, upd models.SubscriptionUpdate) (bool, error) {
	const op = "sqlitestore.UpdateSubscription"

	set := []string{"updated_at = ?"}
	args := []any{fmtTime(time.Now().UTC())}
	if upd.ServiceName != nil {
		set = append(set, "service_name = ?")
		args = append(args, *upd.ServiceName)
	}
	if upd.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *upd.Price)
	}
	if upd.Currency != nil {
		set = append(set, "currency = ?")
		args = append(args, *upd.Currency)
	}
	if upd.BillingCycle != nil {
		set = append(set, "billing_cycle = ?")
		args = append(args, string(*upd.BillingCycle))
	}
	if upd.Category != nil {
		set = append(set, "category = ?")
		args = append(args, string(*upd.Category))
	}
	if upd.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*upd.Status))
	}
	if upd.NextBillingDate != nil {
		set = append(set, "next_billing_date = ?")
		args = append(args, *upd.NextBillingDate)
	}
	if upd.Notes != nil {
		set = append(set, "notes = ?")
		args = append(args, *upd.Notes)
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE subscriptions SET "+joinSet(set)+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// DeleteSubscription removes the row outright. Returns false when the
// id does not exist, so a second delete of the same id is a no-op.
func (s *Store) DeleteSubscription(ctx context.Context, id string) (bool, error) {
	const op = "sqlitestore.DeleteSubscription"

	result, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

func scanSubscription(scan func(dest ...any) error) (*models.Subscription, error) {
	var sub models.Subscription
	var cycle, category, status, createdAt, updatedAt string
	var nextBilling sql.NullString
	err := scan(&sub.ID, &sub.UserID, &sub.ServiceName, &sub.Price, &sub.Currency,
		&cycle, &category, &status, &nextBilling, &sub.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	sub.BillingCycle = models.BillingCycle(cycle)
	sub.Category = models.ServiceCategory(category)
	sub.Status = models.SubscriptionStatus(status)
	if nextBilling.Valid {
		sub.NextBillingDate = &nextBilling.String
	}
	sub.CreatedAt = parseTime(createdAt)
	sub.UpdatedAt = parseTime(updatedAt)
	return &sub, nil
}
