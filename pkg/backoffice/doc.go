// Package backoffice implements the platform-admin organization and user
// endpoints.
//
// # Overview
//
// Every endpoint follows the same shape: the admin guard has already vetted
// the caller, the handler parses and validates input, the store issues direct
// table queries against PostgreSQL, and the result is shaped into either an
// entity response or the standard pagination envelope {items, total, skip,
// limit}.
//
// # Endpoints
//
//	GET    /organizations        paginated list with member counts
//	POST   /organizations        create plus owner membership (one transaction)
//	GET    /organizations/{id}   single fetch with member count
//	PATCH  /organizations/{id}   partial update, non-nil fields only
//	DELETE /organizations/{id}   delete memberships then the organization
//	GET    /users                paginated list for owner selection
//
// # Error Mapping
//
// The store returns sentinel errors (ErrNotFound, ErrOwnerNotFound,
// ErrDuplicateSlug, ErrNoFields) which handlers translate to 404/400
// responses. Duplicate slugs are detected via the PostgreSQL unique
// violation code, not error text. Everything else is logged server-side and
// surfaced as a generic 500.
package backoffice
