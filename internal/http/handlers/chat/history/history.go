// Package history returns the most recent conversation records for a
// chat session.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtrackhq/subtrack/internal/http/response"
	"github.com/subtrackhq/subtrack/internal/lib/sl"
	"github.com/subtrackhq/subtrack/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]*models.Conversation, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.history"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		log.Error("missing session id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session id"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	history, err := h.service.GetSessionHistory(r.Context(), sessionID, limit)
	if err != nil {
		log.Error("failed to load session history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load session history"))
		return
	}
	if history == nil {
		history = []*models.Conversation{}
	}

	log.Info("loaded session history",
		slog.String("session_id", sessionID), slog.Int("count", len(history)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":   len(history),
		"history": history,
	}))
}
