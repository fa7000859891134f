package authz

import "errors"

// Checker answers authorization questions for one resolved user.
//
// It is built per request from an already-materialized projection, performs
// no I/O, and never mutates state after construction, so instances are safe
// for concurrent reads and need no synchronization. Denial is a false return,
// never an error: callers translate it into 401/403 at the boundary.
//
// A nil *Checker denies everything, so a handler reached without the
// middleware installed fails closed.
type Checker struct {
	user  *User
	super bool
	perms map[string]struct{}
}

// NewChecker builds a checker from a user projection. The permission set is
// preloaded into a lookup structure so every check is O(1). A nil user is
// valid input and produces a checker that denies all permissions.
func NewChecker(user *User) *Checker {
	c := &Checker{user: user}
	if user == nil || user.Role == nil {
		return c
	}
	c.super = user.Role.Super || user.Role.Name == SuperAdminRole
	c.perms = make(map[string]struct{}, len(user.Role.Permissions))
	for _, p := range user.Role.Permissions {
		c.perms[p] = struct{}{}
	}
	return c
}

// Authenticated reports whether the checker was built from a user projection.
func (c *Checker) Authenticated() bool {
	return c != nil && c.user != nil
}

// UserID returns the user's ID, or empty when anonymous.
func (c *Checker) UserID() string {
	if c == nil || c.user == nil {
		return ""
	}
	return c.user.ID
}

// RoleName returns the user's role name, or empty when the user has no role.
func (c *Checker) RoleName() string {
	if c == nil || c.user == nil || c.user.Role == nil {
		return ""
	}
	return c.user.Role.Name
}

// HasPermission reports whether the user holds the named permission.
// Inactive and absent users are denied before anything else; the superuser
// bypass then allows unconditionally; otherwise the answer is exact set
// membership in the role's granted permission names.
func (c *Checker) HasPermission(name string) bool {
	if c == nil || c.user == nil || !c.user.Active {
		return false
	}
	if c.super {
		return true
	}
	_, ok := c.perms[name]
	return ok
}

// HasAnyPermission reports whether at least one of the named permissions is
// held. Short-circuits on the first match. An empty list is false: asking
// for nothing grants nothing.
func (c *Checker) HasAnyPermission(names ...string) bool {
	for _, name := range names {
		if c.HasPermission(name) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every named permission is held.
// Short-circuits on the first failure. An empty list is vacuously true
// regardless of the user: asking for nothing requires nothing.
func (c *Checker) HasAllPermissions(names ...string) bool {
	for _, name := range names {
		if !c.HasPermission(name) {
			return false
		}
	}
	return true
}

// HasRole reports whether the user's role name equals name exactly.
// Unlike permission checks, the activity flag does not apply here: an
// inactive user still has an identity, it just holds no permissions.
func (c *Checker) HasRole(name string) bool {
	if c == nil || c.user == nil || c.user.Role == nil {
		return false
	}
	return c.user.Role.Name == name
}

// HasAnyRole reports whether the user's role name matches any of names.
func (c *Checker) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if c.HasRole(name) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the Admin or Super Admin role.
func (c *Checker) IsAdmin() bool {
	return c.HasAnyRole(AdminRole, SuperAdminRole)
}

// IsSuperAdmin reports whether the user holds the reserved superuser role,
// by name or by the explicit Super flag.
func (c *Checker) IsSuperAdmin() bool {
	if c == nil || c.user == nil || c.user.Role == nil {
		return false
	}
	return c.user.Role.Super || c.user.Role.Name == SuperAdminRole
}

// CanPerformAction is sugar for HasPermission(resource + "." + action).
func (c *Checker) CanPerformAction(resource, action string) bool {
	return c.HasPermission(resource + "." + action)
}

// OwnsResource reports whether the checker's user is the owner of a
// resource. Empty IDs never match: an unknown owner is nobody's resource.
func (c *Checker) OwnsResource(ownerID string) bool {
	if c == nil || c.user == nil || c.user.ID == "" || ownerID == "" {
		return false
	}
	return c.user.ID == ownerID
}

// CanAccessResource composes ownership with an explicit grant: the user may
// proceed when they own the resource or hold the named permission. This is
// the self-service rule: users always manage what is theirs, admins manage
// everything through the permission.
func (c *Checker) CanAccessResource(ownerID, permission string) bool {
	return c.OwnsResource(ownerID) || c.HasPermission(permission)
}

// Require returns nil when the named permission is held, and a sentinel
// error describing why not otherwise. All denials wrap ErrAccessDenied so a
// boundary can errors.Is once; the second sentinel narrows the cause.
func (c *Checker) Require(permission string) error {
	if c == nil || c.user == nil {
		return errors.Join(ErrAccessDenied, ErrNoIdentity)
	}
	if !c.user.Active {
		return errors.Join(ErrAccessDenied, ErrInactiveUser)
	}
	if !c.HasPermission(permission) {
		return errors.Join(ErrAccessDenied, ErrPermissionDenied)
	}
	return nil
}

// RequireAny returns nil when at least one of the named permissions is held.
func (c *Checker) RequireAny(permissions ...string) error {
	if c == nil || c.user == nil {
		return errors.Join(ErrAccessDenied, ErrNoIdentity)
	}
	if !c.user.Active {
		return errors.Join(ErrAccessDenied, ErrInactiveUser)
	}
	if !c.HasAnyPermission(permissions...) {
		return errors.Join(ErrAccessDenied, ErrPermissionDenied)
	}
	return nil
}

// RequireAll returns nil when every named permission is held.
func (c *Checker) RequireAll(permissions ...string) error {
	if c == nil || c.user == nil {
		return errors.Join(ErrAccessDenied, ErrNoIdentity)
	}
	if !c.user.Active {
		return errors.Join(ErrAccessDenied, ErrInactiveUser)
	}
	if !c.HasAllPermissions(permissions...) {
		return errors.Join(ErrAccessDenied, ErrPermissionDenied)
	}
	return nil
}

// RequireRole returns nil when the user holds any of the named roles.
func (c *Checker) RequireRole(roles ...string) error {
	if c == nil || c.user == nil {
		return errors.Join(ErrAccessDenied, ErrNoIdentity)
	}
	if !c.HasAnyRole(roles...) {
		return errors.Join(ErrAccessDenied, ErrRoleRequired)
	}
	return nil
}

// RequireOwnerOrPermission returns nil when the user owns the resource or
// holds the named permission.
func (c *Checker) RequireOwnerOrPermission(ownerID, permission string) error {
	if c == nil || c.user == nil {
		return errors.Join(ErrAccessDenied, ErrNoIdentity)
	}
	if c.OwnsResource(ownerID) {
		return nil
	}
	return c.Require(permission)
}
