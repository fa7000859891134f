package rolestore

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
	"github.com/dmitrymomot/accesskit/pkg/validator"
)

// Role is the persisted aggregate administrators manage: identity, the
// superuser marker, the active flag, and the granted permission-name set.
// The request path never reads it directly; stores project it into
// authz.User on load.
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Super       bool      `json:"is_super"`
	Active      bool      `json:"is_active"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the role fields before a store accepts them.
func (r Role) Validate() error {
	rules := []validator.Rule{
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, 100),
		validator.MaxLen("description", r.Description, 500),
	}
	for _, name := range r.Permissions {
		rules = append(rules, validator.Rule{
			Check: func() bool { return catalog.ValidName(name) },
			Error: validator.ValidationError{
				Field:   "permissions",
				Message: fmt.Sprintf("permission %q must follow the resource.action format", name),
			},
		})
	}
	return validator.Apply(rules...)
}

// Projection returns the request-time view of the role with its own copy
// of the permission set.
func (r Role) Projection() *authz.Role {
	return &authz.Role{
		Name:        r.Name,
		Super:       r.Super,
		Permissions: slices.Clone(r.Permissions),
	}
}

func (r Role) clone() Role {
	r.Permissions = slices.Clone(r.Permissions)
	return r
}

// UserRef links an application user to a role. The wider application owns
// the user record; stores keep only the fields projections need.
type UserRef struct {
	ID     string    `json:"id"`
	Active bool      `json:"is_active"`
	RoleID uuid.UUID `json:"role_id,omitempty"`
}

// projectUser composes the checker-facing view from a user reference and
// its role, if any. A missing or deactivated role projects as no role at
// all, so a disabled role immediately revokes its grants everywhere.
func projectUser(ref UserRef, role *Role) *authz.User {
	user := &authz.User{
		ID:     ref.ID,
		Active: ref.Active,
	}
	if role != nil && role.Active {
		user.Role = role.Projection()
	}
	return user
}

func cloneUser(u *authz.User) *authz.User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Role != nil {
		role := *u.Role
		role.Permissions = slices.Clone(u.Role.Permissions)
		cp.Role = &role
	}
	return &cp
}

func normalizeGrants(perms []string) []string {
	out := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, name := range perms {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
