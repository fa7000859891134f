package catalog

import "errors"

// Domain errors for catalog construction.
var (
	// ErrInvalidName is returned when a permission name does not follow
	// the resource.action grammar.
	ErrInvalidName = errors.New("catalog.invalid_permission_name")

	// ErrDuplicatePermission is returned when the same permission name is
	// registered twice.
	ErrDuplicatePermission = errors.New("catalog.duplicate_permission")
)
