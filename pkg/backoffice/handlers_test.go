package backoffice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore implements OrgStore with overridable functions
type mockStore struct {
	listOrganizationsFunc  func(ctx context.Context, filter OrgFilter) (*PaginatedOrganizations, error)
	createOrganizationFunc func(ctx context.Context, req *CreateOrganizationRequest) (*OrganizationWithStats, error)
	getOrganizationFunc    func(ctx context.Context, id uuid.UUID) (*OrganizationWithStats, error)
	updateOrganizationFunc func(ctx context.Context, id uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationWithStats, error)
	deleteOrganizationFunc func(ctx context.Context, id uuid.UUID) error
	listUsersFunc          func(ctx context.Context, filter UserFilter) (*PaginatedUsers, error)
}

func (m *mockStore) ListOrganizations(ctx context.Context, filter OrgFilter) (*PaginatedOrganizations, error) {
	return m.listOrganizationsFunc(ctx, filter)
}

func (m *mockStore) CreateOrganization(ctx context.Context, req *CreateOrganizationRequest) (*OrganizationWithStats, error) {
	return m.createOrganizationFunc(ctx, req)
}

func (m *mockStore) GetOrganization(ctx context.Context, id uuid.UUID) (*OrganizationWithStats, error) {
	return m.getOrganizationFunc(ctx, id)
}

func (m *mockStore) UpdateOrganization(ctx context.Context, id uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationWithStats, error) {
	return m.updateOrganizationFunc(ctx, id, req)
}

func (m *mockStore) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	return m.deleteOrganizationFunc(ctx, id)
}

func (m *mockStore) ListUsers(ctx context.Context, filter UserFilter) (*PaginatedUsers, error) {
	return m.listUsersFunc(ctx, filter)
}

func newTestRouter(store OrgStore) *mux.Router {
	router := mux.NewRouter()
	NewHandlers(store).RegisterRoutes(router)
	return router
}

func testOrgWithStats(name, slug string, count int) *OrganizationWithStats {
	return &OrganizationWithStats{
		Organization: Organization{
			ID:        uuid.New(),
			Name:      name,
			Slug:      slug,
			Type:      "sponsor",
			Settings:  map[string]interface{}{},
			CreatedAt: time.Now().UTC(),
		},
		MemberCount: count,
	}
}

func TestListOrganizationsHandler(t *testing.T) {
	org := testOrgWithStats("Acme Corp", "acme-corp", 3)
	store := &mockStore{
		listOrganizationsFunc: func(_ context.Context, filter OrgFilter) (*PaginatedOrganizations, error) {
			assert.Equal(t, "acme", filter.Search)
			assert.Equal(t, "sponsor", filter.Type)
			assert.Equal(t, 10, filter.Skip)
			assert.Equal(t, 5, filter.Limit)
			return &PaginatedOrganizations{
				Items: []OrganizationWithStats{*org},
				Total: 1,
				Skip:  filter.Skip,
				Limit: filter.Limit,
			}, nil
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/organizations?search=acme&org_type=sponsor&skip=10&limit=5", nil)
	newTestRouter(store).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp PaginatedOrganizations
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].MemberCount)
}

func TestListOrganizationsHandlerBadPagination(t *testing.T) {
	store := &mockStore{
		listOrganizationsFunc: func(_ context.Context, _ OrgFilter) (*PaginatedOrganizations, error) {
			t.Fatal("store should not be called for invalid pagination")
			return nil, nil
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/organizations?limit=101", nil)
	newTestRouter(store).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrganizationsHandlerStoreError(t *testing.T) {
	store := &mockStore{
		listOrganizationsFunc: func(_ context.Context, _ OrgFilter) (*PaginatedOrganizations, error) {
			return nil, assert.AnError
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/organizations", nil)
	newTestRouter(store).ServeHTTP(w, r)

	// Internal details never reach the client
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestCreateOrganizationHandler(t *testing.T) {
	ownerID := uuid.New()
	store := &mockStore{
		createOrganizationFunc: func(_ context.Context, req *CreateOrganizationRequest) (*OrganizationWithStats, error) {
			assert.Equal(t, "Acme Corp", req.Name)
			assert.Equal(t, "acme-corp", req.Slug)
			assert.Equal(t, "sponsor", req.Type) // default applied
			assert.Equal(t, ownerID, req.OwnerUserID)
			return testOrgWithStats(req.Name, req.Slug, 1), nil
		},
	}

	body := `{"name":"Acme Corp","slug":"acme-corp","owner_user_id":"` + ownerID.String() + `"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/organizations", strings.NewReader(body))
	newTestRouter(store).ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp OrganizationWithStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.MemberCount)
}

func TestCreateOrganizationHandlerValidation(t *testing.T) {
	store := &mockStore{
		createOrganizationFunc: func(_ context.Context, _ *CreateOrganizationRequest) (*OrganizationWithStats, error) {
			t.Fatal("store should not be called for invalid input")
			return nil, nil
		},
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "short name",
			body: `{"name":"A","slug":"acme","owner_user_id":"` + uuid.NewString() + `"}`,
			want: "name must be between",
		},
		{
			name: "bad slug",
			body: `{"name":"Acme Corp","slug":"Acme Corp","owner_user_id":"` + uuid.NewString() + `"}`,
			want: "slug must contain only",
		},
		{
			name: "missing owner",
			body: `{"name":"Acme Corp","slug":"acme-corp"}`,
			want: "owner_user_id is required",
		},
		{
			name: "malformed json",
			body: `{not json`,
			want: "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/organizations", strings.NewReader(tt.body))
			newTestRouter(store).ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestCreateOrganizationHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "owner not found",
			storeErr:   ErrOwnerNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   "Owner user not found",
		},
		{
			name:       "duplicate slug",
			storeErr:   ErrDuplicateSlug,
			wantStatus: http.StatusBadRequest,
			wantBody:   "already exists",
		},
		{
			name:       "unknown error",
			storeErr:   assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				createOrganizationFunc: func(_ context.Context, _ *CreateOrganizationRequest) (*OrganizationWithStats, error) {
					return nil, tt.storeErr
				},
			}

			body := `{"name":"Acme Corp","slug":"acme-corp","owner_user_id":"` + uuid.NewString() + `"}`
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/organizations", strings.NewReader(body))
			newTestRouter(store).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestGetOrganizationHandler(t *testing.T) {
	org := testOrgWithStats("Acme Corp", "acme-corp", 2)
	store := &mockStore{
		getOrganizationFunc: func(_ context.Context, id uuid.UUID) (*OrganizationWithStats, error) {
			assert.Equal(t, org.ID, id)
			return org, nil
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/organizations/"+org.ID.String(), nil)
	newTestRouter(store).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp OrganizationWithStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, org.ID, resp.ID)
	assert.Equal(t, 2, resp.MemberCount)
}

func TestGetOrganizationHandlerNotFound(t *testing.T) {
	store := &mockStore{
		getOrganizationFunc: func(_ context.Context, _ uuid.UUID) (*OrganizationWithStats, error) {
			return nil, ErrNotFound
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/organizations/"+uuid.NewString(), nil)
	newTestRouter(store).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Organization not found")
}

func TestGetOrganizationHandlerBadID(t *testing.T) {
	store := &mockStore{
		getOrganizationFunc: func(_ context.Context, _ uuid.UUID) (*OrganizationWithStats, error) {
			t.Fatal("store should not be called for an invalid ID")
			return nil, nil
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/organizations/not-a-uuid", nil)
	newTestRouter(store).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrganizationHandler(t *testing.T) {
	org := testOrgWithStats("Renamed Corp", "acme-corp", 2)
	store := &mockStore{
		updateOrganizationFunc: func(_ context.Context, id uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationWithStats, error) {
			require.NotNil(t, req.Name)
			assert.Equal(t, "Renamed Corp", *req.Name)
			assert.Nil(t, req.Slug)
			return org, nil
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("PATCH", "/organizations/"+org.ID.String(), strings.NewReader(`{"name":"Renamed Corp"}`))
	newTestRouter(store).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateOrganizationHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "empty update",
			body:       `{}`,
			storeErr:   ErrNoFields,
			wantStatus: http.StatusBadRequest,
			wantBody:   "No fields provided",
		},
		{
			name:       "explicit nulls count as empty",
			body:       `{"name":null,"slug":null}`,
			storeErr:   ErrNoFields,
			wantStatus: http.StatusBadRequest,
			wantBody:   "No fields provided",
		},
		{
			name:       "not found",
			body:       `{"name":"Renamed Corp"}`,
			storeErr:   ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   "Organization not found",
		},
		{
			name:       "duplicate slug",
			body:       `{"slug":"taken-slug"}`,
			storeErr:   ErrDuplicateSlug,
			wantStatus: http.StatusBadRequest,
			wantBody:   "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				updateOrganizationFunc: func(_ context.Context, _ uuid.UUID, _ *UpdateOrganizationRequest) (*OrganizationWithStats, error) {
					return nil, tt.storeErr
				},
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest("PATCH", "/organizations/"+uuid.NewString(), strings.NewReader(tt.body))
			newTestRouter(store).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestDeleteOrganizationHandler(t *testing.T) {
	id := uuid.New()
	store := &mockStore{
		deleteOrganizationFunc: func(_ context.Context, gotID uuid.UUID) error {
			assert.Equal(t, id, gotID)
			return nil
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("DELETE", "/organizations/"+id.String(), nil)
	newTestRouter(store).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDeleteOrganizationHandlerNotFound(t *testing.T) {
	store := &mockStore{
		deleteOrganizationFunc: func(_ context.Context, _ uuid.UUID) error {
			return ErrNotFound
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("DELETE", "/organizations/"+uuid.NewString(), nil)
	newTestRouter(store).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsersHandler(t *testing.T) {
	fullName := "Alice"
	store := &mockStore{
		listUsersFunc: func(_ context.Context, filter UserFilter) (*PaginatedUsers, error) {
			assert.Equal(t, "ali", filter.Search)
			return &PaginatedUsers{
				Items: []UserInfo{{ID: uuid.New(), Email: "alice@example.com", FullName: &fullName}},
				Total: 1,
				Skip:  filter.Skip,
				Limit: filter.Limit,
			}, nil
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/users?search=ali", nil)
	newTestRouter(store).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp PaginatedUsers
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "alice@example.com", resp.Items[0].Email)
}

func TestListUsersHandlerStoreError(t *testing.T) {
	store := &mockStore{
		listUsersFunc: func(_ context.Context, _ UserFilter) (*PaginatedUsers, error) {
			return nil, assert.AnError
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/users", nil)
	newTestRouter(store).ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
