// Package subtrack wires the application together: storage backend,
// cache, tracker facade, chat advisor and the HTTP server.
package subtrack

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/subtrackhq/subtrack/internal/cache"
	"github.com/subtrackhq/subtrack/internal/config"
	"github.com/subtrackhq/subtrack/internal/lib/password"
	"github.com/subtrackhq/subtrack/internal/lib/sl"
	"github.com/subtrackhq/subtrack/internal/services/advisor"
	"github.com/subtrackhq/subtrack/internal/services/tracker"
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	tracker *tracker.Service
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := tracker.OpenStore(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	var c cache.Cache = cache.Noop{}
	if cfg.RedisConnection.Enabled {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		c = redisCache
	}

	trackerService := tracker.New(store, c, logger)
	advisorService := advisor.New(trackerService, logger)

	if cfg.SeedDemoData {
		hash, err := password.GetHash("demo1234")
		if err != nil {
			return nil, err
		}
		userID, err := trackerService.Seed(ctx, hash)
		if err != nil {
			return nil, err
		}
		logger.Info("seeded demo data", slog.String("user_id", userID))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, trackerService, advisorService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		tracker: trackerService,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.tracker.Close(); closeErr != nil {
			a.logger.Error("failed to close storage backend", sl.Err(closeErr))
		}
		return err
	}
}
