package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/oasishq/backoffice/pkg/auth"
	"github.com/oasishq/backoffice/pkg/contextkeys"
	"github.com/oasishq/backoffice/pkg/httputil"
	"github.com/oasishq/backoffice/pkg/observability"
)

// ProfileLoader fetches a user profile by ID. Satisfied by auth.ProfileStore.
type ProfileLoader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*auth.Profile, error)
}

// PlatformAdminGuard rejects callers whose profile does not carry the
// platform admin flag. The flag is read from the database on every request
// so revocation takes effect immediately; the guard runs before any handler
// touches domain data.
type PlatformAdminGuard struct {
	profiles ProfileLoader
	metrics  *observability.Metrics
}

// NewPlatformAdminGuard creates the admin guard middleware
func NewPlatformAdminGuard(profiles ProfileLoader, metrics *observability.Metrics) *PlatformAdminGuard {
	return &PlatformAdminGuard{profiles: profiles, metrics: metrics}
}

// Handler wraps an HTTP handler with the platform admin check
func (g *PlatformAdminGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := contextkeys.Identity(r.Context())
		if identity == nil {
			httputil.WriteUnauthorized(w, "authentication required")
			return
		}

		profile, err := g.profiles.GetProfile(r.Context(), identity.UserID)
		if err != nil {
			if errors.Is(err, auth.ErrProfileNotFound) {
				httputil.WriteForbidden(w, "Access denied. Platform admin privileges required.")
				return
			}
			observability.FromContext(r.Context()).WithError(err).Error("failed to load profile for admin check")
			httputil.WriteInternalError(w)
			return
		}

		if !profile.IsPlatformAdmin {
			if g.metrics != nil {
				g.metrics.AdminActionsTotal.WithLabelValues("access_check", "denied").Inc()
			}
			httputil.WriteForbidden(w, "Access denied. Platform admin privileges required.")
			return
		}

		if g.metrics != nil {
			g.metrics.AdminActionsTotal.WithLabelValues("access_check", "allowed").Inc()
		}

		ctx := contextkeys.WithProfile(r.Context(), profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
