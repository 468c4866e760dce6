// Package list returns the authenticated user's subscriptions. With
// ?active=true only the subscriptions counting toward spend are
// returned.
package list

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
	GetUserSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error)
	GetActiveSubscriptions(ctx context.Context, userID string) ([]*models.Subscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"

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

	var subs []*models.Subscription
	var err error
	if r.URL.Query().Get("active") == "true" {
		subs, err = h.service.GetActiveSubscriptions(r.Context(), userID)
	} else {
		subs, err = h.service.GetUserSubscriptions(r.Context(), userID)
	}
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subscriptions"))
		return
	}
	if subs == nil {
		subs = []*models.Subscription{}
	}

	log.Info("listed subscriptions", slog.Int("count", len(subs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":         len(subs),
		"subscriptions": subs,
	}))
}
