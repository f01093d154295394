// Package auth handles caller identity for the backoffice API.
//
// Bearer tokens are ID tokens issued by the platform's hosted auth provider
// and are verified against its JWKS via OIDC discovery. A verified token
// yields an Identity (user ID and email); the platform admin flag is never
// taken from token claims. It lives on the profiles table and is read fresh
// for every request by the admin guard middleware.
package auth
