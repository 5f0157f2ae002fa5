package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Overland-East-Bay/job-tracker-api/internal/app/jobs"
	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

// TokenVerifier turns a raw bearer token into a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// NewAuthMiddleware enforces Authorization: Bearer <JWT> on every route it wraps.
//
// On success, it stores the verified identity in request context. Every failure gets the
// same 401 body; the reason is only logged at debug level.
func NewAuthMiddleware(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(reason string) {
				loggerFromContext(r.Context()).WithField("reason", reason).Debug("authentication rejected")
				writeError(w, r, jobs.Unauthenticated())
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				reject("missing Authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				reject("malformed Authorization header")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				reject("missing bearer token")
				return
			}

			id, err := v.Verify(r.Context(), raw)
			if err != nil {
				reject("invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// denyAll is used when a router is built without an auth middleware.
func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, jobs.Unauthenticated())
	})
}
