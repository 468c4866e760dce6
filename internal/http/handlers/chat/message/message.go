// Package message handles one chat turn with the advisor.
package message

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/subtrackhq/subtrack/internal/http/middlewarectx"
	"github.com/subtrackhq/subtrack/internal/http/response"
	"github.com/subtrackhq/subtrack/internal/lib/sl"
	"github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/internal/services/advisor"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Chat(ctx context.Context, userID, sessionID, message string) (*advisor.Result, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.message"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyChat
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.service.Chat(r.Context(), userID, req.SessionID, req.Message)
	if err != nil {
		log.Error("failed to answer message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to answer message"))
		return
	}

	log.Info("answered message",
		slog.String("intent", result.Intent), slog.String("status", string(result.Status)))
	render.JSON(w, r, response.OKWithData(result))
}
