// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import (
	"context"

	"github.com/oasishq/backoffice/pkg/auth"
)

// Key is the type for context keys to prevent collisions
type Key string

const (
	// IdentityKey contains *auth.Identity
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go)
	// Required by: admin guard, all backoffice endpoints
	IdentityKey Key = "identity"

	// ProfileKey contains *auth.Profile
	// Set by: middleware.PlatformAdminGuard after the per-request profile lookup
	ProfileKey Key = "profile"

	// RequestIDKey contains the request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: logger, error responses
	RequestIDKey Key = "request_id"
)

// WithIdentity adds the authenticated identity to the context
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// Identity retrieves the authenticated identity, or nil if unset
func Identity(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(IdentityKey).(*auth.Identity); ok {
		return identity
	}
	return nil
}

// WithProfile adds the loaded profile to the context
func WithProfile(ctx context.Context, profile *auth.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

// Profile retrieves the loaded profile, or nil if unset
func Profile(ctx context.Context) *auth.Profile {
	if profile, ok := ctx.Value(ProfileKey).(*auth.Profile); ok {
		return profile
	}
	return nil
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID retrieves the request ID from the context, or "" if unset
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
