package subtrack

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/subtrackhq/subtrack/internal/http/handlers/auth/register"
	"github.com/subtrackhq/subtrack/internal/http/handlers/chat/history"
	"github.com/subtrackhq/subtrack/internal/http/handlers/chat/message"
	"github.com/subtrackhq/subtrack/internal/http/handlers/health"
	"github.com/subtrackhq/subtrack/internal/http/handlers/overview"
	"github.com/subtrackhq/subtrack/internal/http/handlers/subscription/create"
	"github.com/subtrackhq/subtrack/internal/http/handlers/subscription/list"
	"github.com/subtrackhq/subtrack/internal/http/handlers/subscription/remove"
	"github.com/subtrackhq/subtrack/internal/http/handlers/subscription/search"
	"github.com/subtrackhq/subtrack/internal/http/handlers/subscription/update"
	"github.com/subtrackhq/subtrack/internal/http/middlewarectx"
	"github.com/subtrackhq/subtrack/internal/services/advisor"
	"github.com/subtrackhq/subtrack/internal/services/tracker"
)

// RegisterRoutes registers all application routes.
func RegisterRoutes(r chi.Router, logger *slog.Logger, trackerService *tracker.Service, advisorService *advisor.Service) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger, trackerService.Backend).ServeHTTP)
		r.Post("/register", register.New(logger, trackerService).ServeHTTP)

		// Identified endpoints. The X-User-ID header names the account.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.IdentityMiddleware(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscriptions", create.New(logger, trackerService).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, trackerService).ServeHTTP)
			r.Get("/subscriptions/search", search.New(logger, trackerService).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, trackerService).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, trackerService).ServeHTTP)
			r.Get("/overview", overview.New(logger, trackerService).ServeHTTP)
			r.Post("/chat", message.New(logger, advisorService).ServeHTTP)
			r.Get("/chat/{session_id}/history", history.New(logger, trackerService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
