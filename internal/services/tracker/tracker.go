// Package tracker implements the unified facade over the record store:
// one service object wrapping exactly one active backend, the
// validation boundary for all writes, and the spend-overview
// aggregation consumed by dashboards and the chat advisor.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/subtrackhq/subtrack/internal/cache"
	"github.com/subtrackhq/subtrack/internal/config"
	"github.com/subtrackhq/subtrack/internal/storage"
	"github.com/subtrackhq/subtrack/internal/storage/jsonstore"
	"github.com/subtrackhq/subtrack/internal/storage/sqlitestore"
)

// ErrValidation marks a write rejected at the service boundary before
// it reached the store. Callers check it with errors.Is.
var ErrValidation = errors.New("validation failed")

// Service is the single entry point for persistence and aggregation.
// It holds one active backend at a time; Swap replaces it at runtime
// without disturbing callers that hold a reference to the Service.
type Service struct {
	mu    sync.RWMutex
	store storage.Store

	cache cache.Cache
	log   *slog.Logger
}

// New wraps an already-constructed backend.
func New(store storage.Store, c cache.Cache, log *slog.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{store: store, cache: c, log: log}
}

// OpenStore constructs the backend named by the configuration. An
// absent or unrecognized backend value falls back to the flat-file
// store.
func OpenStore(cfg config.Storage, log *slog.Logger) (storage.Store, error) {
	const op = "tracker.OpenStore"
	switch cfg.Backend {
	case storage.BackendSQLite:
		st, err := sqlitestore.New(cfg.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	case storage.BackendJSON:
		st, err := jsonstore.New(cfg.DataDir, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	default:
		log.Warn("unrecognized storage backend, falling back to json",
			slog.String("backend", cfg.Backend))
		st, err := jsonstore.New(cfg.DataDir, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	}
}

// Swap replaces the active backend with one newly constructed from cfg
// and closes the old one. Results cached from the old backend are not
// flushed here; stale reads are the caller's concern.
func (s *Service) Swap(cfg config.Storage) error {
	const op = "tracker.Swap"
	newStore, err := OpenStore(cfg, s.log)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	old := s.store
	s.store = newStore
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.log.Warn("failed to close previous backend", slog.Any("err", err))
	}
	s.log.Info("storage backend swapped", slog.String("backend", cfg.Backend))
	return nil
}

// Close releases the active backend.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

// Backend reports the name of the active backend.
func (s *Service) Backend() string {
	switch s.active().(type) {
	case *sqlitestore.Store:
		return storage.BackendSQLite
	default:
		return storage.BackendJSON
	}
}

// active returns the currently-bound backend. Each public operation
// resolves it once so a concurrent Swap cannot split one operation
// across two backends.
func (s *Service) active() storage.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func overviewCacheKey(userID string) string {
	return "overview:" + userID
}
