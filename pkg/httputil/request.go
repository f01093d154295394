package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	// DefaultLimit is the page size used when the client omits ?limit
	DefaultLimit = 20
	// MaxLimit caps the page size regardless of what the client asks for
	MaxLimit = 100
)

// Pagination holds validated skip/limit query parameters
type Pagination struct {
	Skip  int
	Limit int
}

// ParseJSON decodes JSON from the request body into the destination
func ParseJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrError decodes JSON and writes an error response on failure
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := ParseJSON(r, dest); err != nil {
		WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// ParsePathUUID extracts and parses a UUID path parameter
func ParsePathUUID(r *http.Request, key string) (uuid.UUID, error) {
	str := mux.Vars(r)[key]
	if str == "" {
		return uuid.Nil, fmt.Errorf("missing path parameter: %s", key)
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID for %s: %s", key, str)
	}
	return id, nil
}

// ParsePathUUIDOrError extracts a UUID path parameter and writes an error on failure
func ParsePathUUIDOrError(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := ParsePathUUID(r, key)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// ParseQueryInt extracts and parses an integer query parameter
func ParseQueryInt(r *http.Request, key string, defaultVal int) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryString extracts a string query parameter
func ParseQueryString(r *http.Request, key string, defaultVal string) string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// ParsePagination reads skip/limit query parameters. Skip must be
// non-negative and defaults to 0; limit defaults to DefaultLimit and is
// clamped to [1, MaxLimit].
func ParsePagination(r *http.Request) (Pagination, error) {
	skip, err := ParseQueryInt(r, "skip", 0)
	if err != nil {
		return Pagination{}, err
	}
	if skip < 0 {
		return Pagination{}, fmt.Errorf("skip must be non-negative")
	}

	limit, err := ParseQueryInt(r, "limit", DefaultLimit)
	if err != nil {
		return Pagination{}, err
	}
	if limit < 1 || limit > MaxLimit {
		return Pagination{}, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}

	return Pagination{Skip: skip, Limit: limit}, nil
}

// ParsePaginationOrError reads pagination parameters and writes an error on failure
func ParsePaginationOrError(w http.ResponseWriter, r *http.Request) (Pagination, bool) {
	p, err := ParsePagination(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return Pagination{}, false
	}
	return p, true
}
