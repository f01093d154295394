package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ProfileStore reads and writes user profiles in PostgreSQL
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a profile store backed by the given database pool
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// ErrProfileNotFound is returned when no profile exists for the given user
var ErrProfileNotFound = fmt.Errorf("profile not found")

// GetProfile fetches a profile by user ID
func (s *ProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `
		SELECT id, email, full_name, avatar_url, is_platform_admin, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	var p Profile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.Email, &p.FullName, &p.AvatarURL,
		&p.IsPlatformAdmin, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts a profile or updates an existing one by ID
func (s *ProfileStore) UpsertProfile(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (id, email, full_name, avatar_url, is_platform_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Email, p.FullName, p.AvatarURL, p.IsPlatformAdmin)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// SetPlatformAdmin grants or revokes the platform admin flag for a user
func (s *ProfileStore) SetPlatformAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error {
	query := `
		UPDATE profiles
		SET is_platform_admin = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, userID, isAdmin)
	if err != nil {
		return fmt.Errorf("failed to update platform admin flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}
