// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding/decoding, error
// responses, path and query parameter parsing, pagination, and the base
// middleware chain (request ID, logging, panic recovery).
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteSuccess(w, page)
//	httputil.WriteCreated(w, org)
//	httputil.WriteNoContent(w)
//
// Error responses:
//
//	httputil.WriteBadRequest(w, "Invalid input")
//	httputil.WriteForbidden(w, "Platform admin access required")
//	httputil.WriteNotFound(w, "Organization not found")
//	httputil.WriteInternalError(w) // generic message, details stay in logs
//
// # Request Parsing
//
// JSON parsing:
//
//	var req CreateOrganizationRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
// Path and pagination parsing:
//
//	orgID, ok := httputil.ParsePathUUIDOrError(w, r, "org_id")
//	page, ok := httputil.ParsePaginationOrError(w, r)
//
// # Middleware
//
// The base chain applied to every route:
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//	)
package httputil
