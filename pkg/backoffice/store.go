package backoffice

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/oasishq/backoffice/pkg/observability"
)

// Store performs all organization and user queries against PostgreSQL.
// It holds the process-wide connection pool and never mutates it.
type Store struct {
	db      *sql.DB
	metrics *observability.Metrics
}

// NewStore creates a store backed by the given database pool. Metrics may be
// nil in tests.
func NewStore(db *sql.DB, metrics *observability.Metrics) *Store {
	return &Store{db: db, metrics: metrics}
}

func (s *Store) observe(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	s.metrics.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// orgColumns is the scan order shared by every organization query
const orgColumns = "id, name, slug, type, description, logo_url, settings, created_at, updated_at"

func scanOrganization(row interface{ Scan(...interface{}) error }) (*Organization, error) {
	var org Organization
	var settingsJSON []byte
	err := row.Scan(
		&org.ID, &org.Name, &org.Slug, &org.Type, &org.Description,
		&org.LogoURL, &settingsJSON, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	org.Settings = map[string]interface{}{}
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &org.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
		}
	}
	return &org, nil
}

// ListOrganizations returns one page of organizations matching the filter,
// newest first, each enriched with its active member count. The total counts
// all matches regardless of pagination.
func (s *Store) ListOrganizations(ctx context.Context, filter OrgFilter) (result *PaginatedOrganizations, err error) {
	defer func(start time.Time) { s.observe("list_organizations", start, err) }(time.Now())

	where, args := buildOrgWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM organizations" + where
	if err = s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count organizations: %w", err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM organizations%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orgColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := s.db.QueryContext(ctx, pageQuery, append(args, filter.Limit, filter.Skip)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	items := make([]OrganizationWithStats, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		org, scanErr := scanOrganization(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan organization: %w", scanErr)
			return nil, err
		}
		items = append(items, OrganizationWithStats{Organization: *org})
		ids = append(ids, org.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate organizations: %w", err)
	}

	counts, err := s.activeMemberCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].MemberCount = counts[items[i].ID]
	}

	return &PaginatedOrganizations{
		Items: items,
		Total: total,
		Skip:  filter.Skip,
		Limit: filter.Limit,
	}, nil
}

func buildOrgWhere(filter OrgFilter) (string, []interface{}) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// activeMemberCounts returns the active membership count for exactly the
// given organizations in one grouped query
func (s *Store) activeMemberCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := `
		SELECT organization_id, COUNT(*)
		FROM organization_members
		WHERE organization_id = ANY($1::uuid[]) AND status = $2
		GROUP BY organization_id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(idStrings), StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orgID uuid.UUID
		var count int
		if err := rows.Scan(&orgID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan member count: %w", err)
		}
		counts[orgID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member counts: %w", err)
	}
	return counts, nil
}

// CreateOrganization inserts an organization and its owner membership in one
// transaction. The owner must already have a profile. The response reports
// member_count = 1 without a count query since the owner is the only member.
func (s *Store) CreateOrganization(ctx context.Context, req *CreateOrganizationRequest) (result *OrganizationWithStats, err error) {
	defer func(start time.Time) { s.observe("create_organization", start, err) }(time.Now())

	settingsJSON, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerExists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)", req.OwnerUserID,
	).Scan(&ownerExists)
	if err != nil {
		return nil, fmt.Errorf("failed to check owner profile: %w", err)
	}
	if !ownerExists {
		return nil, ErrOwnerNotFound
	}

	org := Organization{
		ID:       uuid.New(),
		Name:     req.Name,
		Slug:     req.Slug,
		Type:     req.Type,
		Settings: req.Settings,
	}
	org.Description = req.Description
	org.LogoURL = req.LogoURL

	err = tx.QueryRowContext(ctx, `
		INSERT INTO organizations (id, name, slug, type, description, logo_url, settings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at`,
		org.ID, org.Name, org.Slug, org.Type, org.Description, org.LogoURL, settingsJSON,
	).Scan(&org.CreatedAt)
	if err != nil {
		if isDuplicateSlug(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO organization_members (id, organization_id, user_id, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`,
		uuid.New(), org.ID, req.OwnerUserID, RoleOwner, StatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &OrganizationWithStats{Organization: org, MemberCount: 1}, nil
}

// GetOrganization fetches one organization with its active member count
func (s *Store) GetOrganization(ctx context.Context, id uuid.UUID) (result *OrganizationWithStats, err error) {
	defer func(start time.Time) { s.observe("get_organization", start, err) }(time.Now())

	query := fmt.Sprintf("SELECT %s FROM organizations WHERE id = $1", orgColumns)
	org, err := scanOrganization(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	counts, err := s.activeMemberCounts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	return &OrganizationWithStats{Organization: *org, MemberCount: counts[id]}, nil
}

// UpdateOrganization applies a partial update and returns the updated
// organization with a fresh member count. Only non-nil fields are touched.
func (s *Store) UpdateOrganization(ctx context.Context, id uuid.UUID, req *UpdateOrganizationRequest) (result *OrganizationWithStats, err error) {
	defer func(start time.Time) { s.observe("update_organization", start, err) }(time.Now())

	if req.Empty() {
		err = ErrNoFields
		return nil, err
	}

	setClauses := make([]string, 0, 7)
	args := make([]interface{}, 0, 7)

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Slug != nil {
		addSet("slug", *req.Slug)
	}
	if req.Type != nil {
		addSet("type", *req.Type)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.LogoURL != nil {
		addSet("logo_url", *req.LogoURL)
	}
	if req.Settings != nil {
		settingsJSON, marshalErr := json.Marshal(*req.Settings)
		if marshalErr != nil {
			err = fmt.Errorf("failed to marshal settings: %w", marshalErr)
			return nil, err
		}
		addSet("settings", settingsJSON)
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE organizations SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), len(args), orgColumns,
	)

	org, err := scanOrganization(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		if isDuplicateSlug(err) {
			err = ErrDuplicateSlug
			return nil, err
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	counts, err := s.activeMemberCounts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	return &OrganizationWithStats{Organization: *org, MemberCount: counts[id]}, nil
}

// DeleteOrganization removes all memberships then the organization row in
// one transaction. Memberships go first so no orphaned rows survive.
func (s *Store) DeleteOrganization(ctx context.Context, id uuid.UUID) (err error) {
	defer func(start time.Time) { s.observe("delete_organization", start, err) }(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		"DELETE FROM organization_members WHERE organization_id = $1", id,
	); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM organizations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		err = ErrNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListUsers returns one page of user profiles ordered by email ascending,
// optionally filtered by a case-insensitive search over email and full name
func (s *Store) ListUsers(ctx context.Context, filter UserFilter) (result *PaginatedUsers, err error) {
	defer func(start time.Time) { s.observe("list_users", start, err) }(time.Now())

	where := ""
	args := make([]interface{}, 0, 1)
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = " WHERE (email ILIKE $1 OR full_name ILIKE $1)"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM profiles" + where
	if err = s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT id, email, full_name, avatar_url FROM profiles%s ORDER BY email ASC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	rows, err := s.db.QueryContext(ctx, pageQuery, append(args, filter.Limit, filter.Skip)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	items := make([]UserInfo, 0)
	for rows.Next() {
		var user UserInfo
		if err = rows.Scan(&user.ID, &user.Email, &user.FullName, &user.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		items = append(items, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return &PaginatedUsers{
		Items: items,
		Total: total,
		Skip:  filter.Skip,
		Limit: filter.Limit,
	}, nil
}
