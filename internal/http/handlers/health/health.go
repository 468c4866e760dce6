// Package health reports liveness and the active storage backend.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/subtrackhq/subtrack/internal/http/response"
)

type Handler struct {
	log     *slog.Logger
	backend func() string
}

func New(log *slog.Logger, backend func() string) *Handler {
	return &Handler{
		log:     log,
		backend: backend,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status":  "ok",
		"backend": h.backend(),
	}))
}
