package auth

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated caller extracted from a verified bearer token
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Profile is a user profile row from the auth database. IsPlatformAdmin
// gates access to the backoffice API and is always read fresh from the
// database, never cached.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FullName        *string   `json:"full_name,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	IsPlatformAdmin bool      `json:"is_platform_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
