package authz

import "errors"

// Domain errors for authorization guard calls.
//
// Every denial returned by a Require* method wraps ErrAccessDenied, so a
// boundary can run a single errors.Is check before narrowing the cause.
var (
	// ErrAccessDenied is the umbrella error wrapped by every denial.
	ErrAccessDenied = errors.New("authz.access_denied")

	// ErrNoIdentity is returned when no user projection is present.
	ErrNoIdentity = errors.New("authz.no_identity")

	// ErrInactiveUser is returned when the user exists but is deactivated.
	ErrInactiveUser = errors.New("authz.inactive_user")

	// ErrPermissionDenied is returned when the required permission is not granted.
	ErrPermissionDenied = errors.New("authz.permission_denied")

	// ErrRoleRequired is returned when the user does not hold a required role.
	ErrRoleRequired = errors.New("authz.role_required")
)
