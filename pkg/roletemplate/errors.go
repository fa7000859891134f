package roletemplate

import "errors"

// Domain errors for template resolution. All of them surface at construction
// time only; Permissions never fails.
var (
	// ErrNilCatalog is returned when the resolver is built without a catalog.
	ErrNilCatalog = errors.New("roletemplate.nil_catalog")

	// ErrEmptyTemplateName is returned when a template is keyed by an empty name.
	ErrEmptyTemplateName = errors.New("roletemplate.empty_template_name")

	// ErrUnknownPermission is returned when a rule names a permission the
	// catalog does not contain.
	ErrUnknownPermission = errors.New("roletemplate.unknown_permission")

	// ErrUnknownResource is returned when a group selector names a resource
	// with no permissions in the catalog.
	ErrUnknownResource = errors.New("roletemplate.unknown_resource")
)
