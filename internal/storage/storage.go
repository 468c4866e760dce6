// Package storage defines the record-store contract implemented by the
// flat-file and sqlite backends. Both adapters must behave identically
// for every method here; callers never branch on the backend kind.
package storage

import (
	"context"
	"errors"

	"github.com/subtrackhq/subtrack/internal/models"
)

// Sentinel errors returned by the adapters. Callers check them with
// errors.Is to distinguish absence and conflicts from I/O failure.
var (
	// ErrNotFound means a lookup by id or natural key matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists means a unique natural key (user email) is taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// Backend names accepted in the configuration. Anything else falls back
// to BackendJSON.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store is the persistence contract for the four entity kinds. Writes
// persist fully materialized records built by the caller; partial
// updates merge only the non-nil fields of the update struct, preserve
// created_at and refresh updated_at. Updates and deletes report
// (false, nil) when the id does not exist.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (bool, error)

	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error)
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, upd models.SubscriptionUpdate) (bool, error)
	DeleteSubscription(ctx context.Context, id string) (bool, error)

	CreateConversation(ctx context.Context, conv *models.Conversation) error
	ListSessionHistory(ctx context.Context, sessionID string, limit int) ([]*models.Conversation, error)

	CreateOCRRecord(ctx context.Context, rec *models.OCRRecord) error
	UpdateOCRRecord(ctx context.Context, id string, upd models.OCRUpdate) (bool, error)
	ListOCRRecordsByUser(ctx context.Context, userID string) ([]*models.OCRRecord, error)

	Close() error
}
