// Package search performs a case-insensitive substring search over the
// authenticated user's subscriptions.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtrackhq/subtrack/internal/http/middlewarectx"
	"github.com/subtrackhq/subtrack/internal/http/response"
	"github.com/subtrackhq/subtrack/internal/lib/sl"
	"github.com/subtrackhq/subtrack/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	SearchSubscriptions(ctx context.Context, userID, query string) ([]*models.Subscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	query := r.URL.Query().Get("q")

	subs, err := h.service.SearchSubscriptions(r.Context(), userID, query)
	if err != nil {
		log.Error("failed to search subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to search subscriptions"))
		return
	}
	if subs == nil {
		subs = []*models.Subscription{}
	}

	log.Info("searched subscriptions",
		slog.String("query", query), slog.Int("count", len(subs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":         len(subs),
		"subscriptions": subs,
	}))
}
