package backoffice

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// slugPattern validates organization slugs: lowercase alphanumeric groups
// separated by single hyphens
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

const (
	minNameLength = 2
	maxNameLength = 100
	minSlugLength = 2
	maxSlugLength = 50

	// DefaultOrgType is applied when a create request omits the type
	DefaultOrgType = "sponsor"

	// RoleOwner is the membership role assigned to an organization's creator
	RoleOwner = "owner"
	// StatusActive marks a membership that counts toward member totals
	StatusActive = "active"
)

// Organization is an organization row
type Organization struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Type        string                 `json:"type"`
	Description *string                `json:"description,omitempty"`
	LogoURL     *string                `json:"logo_url,omitempty"`
	Settings    map[string]interface{} `json:"settings"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty"`
}

// OrganizationWithStats is an organization enriched with its active member count
type OrganizationWithStats struct {
	Organization
	MemberCount int `json:"member_count"`
}

// Membership links a user to an organization with a role and status
type Membership struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserInfo is the subset of profile fields shown in owner-selection lists
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// PaginatedOrganizations is the listing envelope for organizations
type PaginatedOrganizations struct {
	Items []OrganizationWithStats `json:"items"`
	Total int                     `json:"total"`
	Skip  int                     `json:"skip"`
	Limit int                     `json:"limit"`
}

// PaginatedUsers is the listing envelope for users
type PaginatedUsers struct {
	Items []UserInfo `json:"items"`
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

// OrgFilter carries the optional restrictions for organization listings.
// Zero values mean "no restriction".
type OrgFilter struct {
	Search string // case-insensitive substring match on name
	Type   string // exact match on type
	Skip   int
	Limit  int
}

// UserFilter carries the optional restrictions for user listings
type UserFilter struct {
	Search string // case-insensitive substring match on email or full name
	Skip   int
	Limit  int
}

// CreateOrganizationRequest is the payload for creating an organization with
// its initial owner
type CreateOrganizationRequest struct {
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Type        string                 `json:"type"`
	Description *string                `json:"description,omitempty"`
	LogoURL     *string                `json:"logo_url,omitempty"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
	OwnerUserID uuid.UUID              `json:"owner_user_id"`
}

// Validate checks field constraints and applies the type default
func (r *CreateOrganizationRequest) Validate() error {
	if len(r.Name) < minNameLength || len(r.Name) > maxNameLength {
		return fmt.Errorf("name must be between %d and %d characters", minNameLength, maxNameLength)
	}
	if err := validateSlug(r.Slug); err != nil {
		return err
	}
	if r.OwnerUserID == uuid.Nil {
		return fmt.Errorf("owner_user_id is required")
	}
	if r.Type == "" {
		r.Type = DefaultOrgType
	}
	if r.Settings == nil {
		r.Settings = map[string]interface{}{}
	}
	return nil
}

// UpdateOrganizationRequest is a partial update. Nil fields are left
// untouched; an explicit null in the JSON body is likewise treated as
// "do not change".
type UpdateOrganizationRequest struct {
	Name        *string                 `json:"name"`
	Slug        *string                 `json:"slug"`
	Type        *string                 `json:"type"`
	Description *string                 `json:"description"`
	LogoURL     *string                 `json:"logo_url"`
	Settings    *map[string]interface{} `json:"settings"`
}

// Validate checks the constraints of any supplied fields
func (r *UpdateOrganizationRequest) Validate() error {
	if r.Name != nil && (len(*r.Name) < minNameLength || len(*r.Name) > maxNameLength) {
		return fmt.Errorf("name must be between %d and %d characters", minNameLength, maxNameLength)
	}
	if r.Slug != nil {
		if err := validateSlug(*r.Slug); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the update carries no fields to apply
func (r *UpdateOrganizationRequest) Empty() bool {
	return r.Name == nil && r.Slug == nil && r.Type == nil &&
		r.Description == nil && r.LogoURL == nil && r.Settings == nil
}

func validateSlug(slug string) error {
	if len(slug) < minSlugLength || len(slug) > maxSlugLength {
		return fmt.Errorf("slug must be between %d and %d characters", minSlugLength, maxSlugLength)
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and hyphens")
	}
	return nil
}
