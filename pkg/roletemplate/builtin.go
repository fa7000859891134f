package roletemplate

import (
	"fmt"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
)

// Builtin template names, strictly ordered by privilege. The first two reuse
// the reserved role names the checker treats specially.
const (
	SuperAdminTemplate = authz.SuperAdminRole
	AdminTemplate      = authz.AdminRole
	EditorTemplate     = "Editor"
	ViewerTemplate     = "Viewer"
)

// Builtin returns the default role templates of an analytics/CMS admin
// application. Each call returns a fresh copy safe to modify before handing
// it to NewResolver.
//
// The four templates, most to least privileged:
//
//   - Super Admin: every permission in the catalog.
//   - Admin: everything except user deletion, role deletion and settings
//     changes, expressed as an explicit deny-list so new catalog permissions
//     flow to admins automatically.
//   - Editor: content, dashboard and file management plus read-only
//     categories.
//   - Viewer: read-only across the application surfaces.
func Builtin() map[string]Rules {
	return map[string]Rules{
		SuperAdminTemplate: {
			Description: "Unrestricted access to every permission",
			AllowAll:    true,
		},
		AdminTemplate: {
			Description: "Full management access except destructive account, role and settings operations",
			AllowAll:    true,
			Deny:        []string{"users.delete", "roles.delete", "settings.update"},
		},
		EditorTemplate: {
			Description: "Content, dashboard and file management with read-only categories",
			Allow:       []string{"content.*", "dashboard.*", "files.*", "categories.read"},
		},
		ViewerTemplate: {
			Description: "Read-only access across users, content, dashboards, files and categories",
			Allow:       []string{"users.read", "content.read", "dashboard.read", "files.read", "categories.read"},
		},
	}
}

// BuiltinResolver returns a resolver over the builtin catalog and templates.
// Both are code-defined, so a resolution failure is a bug in this package;
// it panics rather than returning an error.
func BuiltinResolver() *Resolver {
	r, err := NewResolver(catalog.Builtin(), Builtin())
	if err != nil {
		panic(fmt.Sprintf("roletemplate: builtin templates failed to resolve: %v", err))
	}
	return r
}
