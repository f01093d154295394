// Package middleware provides the request gates applied to backoffice routes.
//
// # Chain Order
//
// Routes are wrapped outermost to innermost:
//
//  1. Bearer token authentication (OIDC)
//  2. Rate limiting (Redis fixed window, fail-open, keyed per user)
//  3. Platform admin guard (fresh profile read, no caching)
//
// The admin guard always runs before handlers so unauthorized callers never
// reach domain data. Authorization failures return 403 with a fixed message;
// authentication failures return 401.
package middleware
