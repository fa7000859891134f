package rolestore

import "errors"

// Domain errors shared by every store adapter. Adapters translate their
// driver failures into these before returning, so callers branch on the
// sentinel and never on driver error types.
var (
	// ErrRoleNotFound is returned when no role matches the id or name.
	ErrRoleNotFound = errors.New("rolestore.role_not_found")

	// ErrUserNotFound is returned when no user reference matches the id.
	ErrUserNotFound = errors.New("rolestore.user_not_found")

	// ErrDuplicateRole is returned when a create or rename collides with
	// an existing role name.
	ErrDuplicateRole = errors.New("rolestore.duplicate_role")

	// ErrRoleReferenced is returned when deleting a role that users still
	// hold. Deactivate the role instead.
	ErrRoleReferenced = errors.New("rolestore.role_referenced")

	// ErrUnknownPermission is returned when a grant names a permission the
	// store has never seen.
	ErrUnknownPermission = errors.New("rolestore.unknown_permission")
)
