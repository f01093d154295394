package middleware

import (
	"net/http"
	"strings"

	"github.com/oasishq/backoffice/pkg/auth"
	"github.com/oasishq/backoffice/pkg/contextkeys"
	"github.com/oasishq/backoffice/pkg/httputil"
	"github.com/oasishq/backoffice/pkg/observability"
)

// AuthMiddleware verifies bearer tokens and attaches the caller identity to
// the request context
type AuthMiddleware struct {
	verifier auth.TokenVerifier
}

// NewAuthMiddleware creates authentication middleware backed by the given verifier
func NewAuthMiddleware(verifier auth.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handler wraps an HTTP handler with bearer token authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteUnauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.WriteUnauthorized(w, "invalid authorization header format")
			return
		}

		identity, err := m.verifier.Verify(r.Context(), parts[1])
		if err != nil {
			observability.FromContext(r.Context()).WithError(err).Debug("token verification failed")
			httputil.WriteUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
