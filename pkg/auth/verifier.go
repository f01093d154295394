package auth

import (
	"context"
	"fmt"
	"strings"

	oidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"github.com/oasishq/backoffice/pkg/config"
)

// TokenVerifier validates a raw bearer token and extracts the caller identity
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// OIDCVerifier validates ID tokens issued by the platform's hosted auth
// provider using its published JWKS.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the OIDC provider at the configured issuer URL
// and builds a verifier bound to the backoffice client ID.
func NewOIDCVerifier(ctx context.Context, cfg config.AuthConfig) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider %s: %w", cfg.IssuerURL, err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// Verify validates the token signature, issuer, audience, and expiry, then
// extracts the subject and email claims.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}

	userID, err := uuid.Parse(token.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a valid user ID: %w", err)
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}

// InsecureVerifier accepts any "<uuid>:<email>" string as a token. Only for
// local development with BACKOFFICE_OIDC_SKIP_VERIFY=true.
type InsecureVerifier struct{}

func (InsecureVerifier) Verify(_ context.Context, rawToken string) (*Identity, error) {
	parts := strings.SplitN(rawToken, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid development token, expected \"<uuid>:<email>\"")
	}
	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid development token user ID: %w", err)
	}
	return &Identity{UserID: userID, Email: parts[1]}, nil
}
