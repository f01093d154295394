package backoffice

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by the store; handlers map them to status codes
var (
	// ErrNotFound means the requested organization does not exist
	ErrNotFound = errors.New("organization not found")

	// ErrOwnerNotFound means the owner_user_id does not resolve to a profile
	ErrOwnerNotFound = errors.New("owner user not found")

	// ErrDuplicateSlug means the slug is already taken by another organization
	ErrDuplicateSlug = errors.New("organization with this slug already exists")

	// ErrNoFields means a partial update carried nothing to apply
	ErrNoFields = errors.New("no fields provided for update")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// isDuplicateSlug reports whether err is a unique constraint violation.
// Detection uses the structured PostgreSQL error code, never the error text.
func isDuplicateSlug(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
