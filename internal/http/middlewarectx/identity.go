// Package middlewarectx contains the HTTP middleware shared by all
// routes: request identity and rate limiting. Authentication proper is
// out of scope for this service; the UI in front of it identifies the
// account through the X-User-ID header.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subtrackhq/subtrack/internal/http/response"
)

// Key is the type for request-context keys.
type Key string

// UserID is the context key holding the requesting account's id.
const UserID Key = "user_id"

// IdentityMiddleware copies the X-User-ID header into the request
// context and rejects requests without one.
func IdentityMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.IdentityMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}
			ctx := context.WithValue(r.Context(), UserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
