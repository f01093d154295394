package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func TestGetProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewProfileStore(db)
	userID := uuid.New()
	fullName := "Ada Admin"

	rows := sqlmock.NewRows([]string{
		"id", "email", "full_name", "avatar_url", "is_platform_admin", "created_at", "updated_at",
	}).AddRow(userID, "ada@example.com", fullName, nil, true, now(), now())

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, email, full_name, avatar_url, is_platform_admin, created_at, updated_at
		FROM profiles
		WHERE id = $1`)).
		WithArgs(userID).
		WillReturnRows(rows)

	profile, err := store.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "ada@example.com", profile.Email)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, fullName, *profile.FullName)
	assert.True(t, profile.IsPlatformAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewProfileStore(db)
	userID := uuid.New()

	mock.ExpectQuery("SELECT id, email").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "full_name", "avatar_url", "is_platform_admin", "created_at", "updated_at",
		}))

	_, err = store.GetProfile(context.Background(), userID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewProfileStore(db)
	profile := &Profile{
		ID:    uuid.New(),
		Email: "new@example.com",
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WithArgs(profile.ID, profile.Email, nil, nil, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpsertProfile(context.Background(), profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlatformAdmin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewProfileStore(db)
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles")).
		WithArgs(userID, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SetPlatformAdmin(context.Background(), userID, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPlatformAdminNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewProfileStore(db)
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles")).
		WithArgs(userID, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.SetPlatformAdmin(context.Background(), userID, false)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
