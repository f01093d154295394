package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int
		wantLimit int
		wantErr   string
	}{
		{name: "defaults", query: "", wantSkip: 0, wantLimit: 20},
		{name: "explicit values", query: "skip=40&limit=50", wantSkip: 40, wantLimit: 50},
		{name: "limit at max", query: "limit=100", wantSkip: 0, wantLimit: 100},
		{name: "negative skip", query: "skip=-1", wantErr: "skip must be non-negative"},
		{name: "zero limit", query: "limit=0", wantErr: "limit must be between"},
		{name: "limit over max", query: "limit=101", wantErr: "limit must be between"},
		{name: "non-numeric skip", query: "skip=abc", wantErr: "invalid integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/orgs?"+tt.query, nil)

			p, err := ParsePagination(r)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkip, p.Skip)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestParsePathUUID(t *testing.T) {
	id := uuid.New()
	r := httptest.NewRequest("GET", "/orgs/"+id.String(), nil)
	r = mux.SetURLVars(r, map[string]string{"org_id": id.String()})

	got, err := ParsePathUUID(r, "org_id")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParsePathUUIDInvalid(t *testing.T) {
	r := httptest.NewRequest("GET", "/orgs/not-a-uuid", nil)
	r = mux.SetURLVars(r, map[string]string{"org_id": "not-a-uuid"})

	_, err := ParsePathUUID(r, "org_id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid UUID")
}

func TestParsePathUUIDMissing(t *testing.T) {
	r := httptest.NewRequest("GET", "/orgs", nil)

	_, err := ParsePathUUID(r, "org_id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing path parameter")
}

func TestParseJSONOrError(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/orgs", strings.NewReader(`{"name":"Acme"}`))

		var dest struct {
			Name string `json:"name"`
		}
		ok := ParseJSONOrError(w, r, &dest)
		assert.True(t, ok)
		assert.Equal(t, "Acme", dest.Name)
	})

	t.Run("malformed body writes 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/orgs", strings.NewReader(`{not json`))

		var dest map[string]interface{}
		ok := ParseJSONOrError(w, r, &dest)
		assert.False(t, ok)
		assert.Equal(t, 400, w.Code)
		assert.Contains(t, w.Body.String(), "invalid JSON")
	})
}
