// Package identity extracts the caller identity injected by the upstream
// identity provider. The service trusts these headers as given; it performs
// no authentication of its own.
package identity

import (
	"context"
	"net/http"

	"campusevents/internal/lib/api/response"
	"campusevents/internal/models"

	"github.com/go-chi/render"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

type ctxKey struct{}

// Require rejects requests that carry no caller identity.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		id := models.Identity{
			UserID: userID,
			Email:  r.Header.Get(HeaderUserEmail),
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// FromContext returns the caller identity stored by Require.
func FromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(models.Identity)
	return id, ok
}
