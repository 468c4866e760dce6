// Package overview returns the authenticated user's aggregated spend
// summary.
package overview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtrackhq/subtrack/internal/http/middlewarectx"
	"github.com/subtrackhq/subtrack/internal/http/response"
	"github.com/subtrackhq/subtrack/internal/lib/sl"
	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/storage"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	GetUserOverview(ctx context.Context, userID string) (*models.Overview, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.overview"

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

	overview, err := h.service.GetUserOverview(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("user not found", slog.String("user_id", userID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	if err != nil {
		log.Error("failed to build overview", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build overview"))
		return
	}

	log.Info("built overview", slog.String("user_id", userID))
	render.JSON(w, r, response.OKWithData(overview))
}
