package backoffice

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/oasishq/backoffice/pkg/httputil"
	"github.com/oasishq/backoffice/pkg/observability"
)

// OrgStore is the data access surface the handlers depend on. Satisfied by
// *Store; tests substitute a mock.
type OrgStore interface {
	ListOrganizations(ctx context.Context, filter OrgFilter) (*PaginatedOrganizations, error)
	CreateOrganization(ctx context.Context, req *CreateOrganizationRequest) (*OrganizationWithStats, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*OrganizationWithStats, error)
	UpdateOrganization(ctx context.Context, id uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationWithStats, error)
	DeleteOrganization(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, filter UserFilter) (*PaginatedUsers, error)
}

// Handlers exposes the backoffice HTTP endpoints
type Handlers struct {
	store OrgStore
}

// NewHandlers creates the backoffice handlers
func NewHandlers(store OrgStore) *Handlers {
	return &Handlers{store: store}
}

// RegisterRoutes mounts all backoffice endpoints on the given router. The
// caller is responsible for wrapping the router with authentication and the
// platform admin guard.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/organizations", h.ListOrganizations).Methods("GET")
	router.HandleFunc("/organizations", h.CreateOrganization).Methods("POST")
	router.HandleFunc("/organizations/{org_id}", h.GetOrganization).Methods("GET")
	router.HandleFunc("/organizations/{org_id}", h.UpdateOrganization).Methods("PATCH")
	router.HandleFunc("/organizations/{org_id}", h.DeleteOrganization).Methods("DELETE")
	router.HandleFunc("/users", h.ListUsers).Methods("GET")
}

// ListOrganizations handles GET /organizations
func (h *Handlers) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePaginationOrError(w, r)
	if !ok {
		return
	}

	filter := OrgFilter{
		Search: httputil.ParseQueryString(r, "search", ""),
		Type:   httputil.ParseQueryString(r, "org_type", ""),
		Skip:   page.Skip,
		Limit:  page.Limit,
	}

	result, err := h.store.ListOrganizations(r.Context(), filter)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list organizations")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, result)
}

// CreateOrganization handles POST /organizations
func (h *Handlers) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	org, err := h.store.CreateOrganization(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrOwnerNotFound):
			httputil.WriteNotFound(w, "Owner user not found")
		case errors.Is(err, ErrDuplicateSlug):
			httputil.WriteBadRequest(w, "Organization with this slug already exists")
		default:
			observability.FromContext(r.Context()).WithError(err).Error("failed to create organization")
			httputil.WriteInternalError(w)
		}
		return
	}

	httputil.WriteCreated(w, org)
}

// GetOrganization handles GET /organizations/{org_id}
func (h *Handlers) GetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathUUIDOrError(w, r, "org_id")
	if !ok {
		return
	}

	org, err := h.store.GetOrganization(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteNotFound(w, "Organization not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to get organization")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, org)
}

// UpdateOrganization handles PATCH /organizations/{org_id}
func (h *Handlers) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathUUIDOrError(w, r, "org_id")
	if !ok {
		return
	}

	var req UpdateOrganizationRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	org, err := h.store.UpdateOrganization(r.Context(), orgID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFields):
			httputil.WriteBadRequest(w, "No fields provided for update")
		case errors.Is(err, ErrNotFound):
			httputil.WriteNotFound(w, "Organization not found")
		case errors.Is(err, ErrDuplicateSlug):
			httputil.WriteBadRequest(w, "Organization with this slug already exists")
		default:
			observability.FromContext(r.Context()).WithError(err).Error("failed to update organization")
			httputil.WriteInternalError(w)
		}
		return
	}

	httputil.WriteSuccess(w, org)
}

// DeleteOrganization handles DELETE /organizations/{org_id}
func (h *Handlers) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathUUIDOrError(w, r, "org_id")
	if !ok {
		return
	}

	if err := h.store.DeleteOrganization(r.Context(), orgID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteNotFound(w, "Organization not found")
			return
		}
		observability.FromContext(r.Context()).WithError(err).Error("failed to delete organization")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteNoContent(w)
}

// ListUsers handles GET /users
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, ok := httputil.ParsePaginationOrError(w, r)
	if !ok {
		return
	}

	filter := UserFilter{
		Search: httputil.ParseQueryString(r, "search", ""),
		Skip:   page.Skip,
		Limit:  page.Limit,
	}

	result, err := h.store.ListUsers(r.Context(), filter)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("failed to list users")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, result)
}
