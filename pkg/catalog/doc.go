// Package catalog defines the permission vocabulary for role-based access
// control: atomic resource.action identifiers with metadata, and an immutable
// collection type for enumerating them.
//
// A permission name is two lowercase segments joined by a single dot, e.g.
// "users.create" or "content.publish". The catalog is the provisioning-time
// source of truth: role templates are resolved against it and stores seed
// permission records from it. Request-time permission checks (pkg/authz) do
// not consult the catalog; they test exact membership in a role's granted
// set, so unknown names simply never match.
//
// Basic usage:
//
//	// The builtin catalog of an admin application.
//	cat := catalog.Builtin()
//
//	cat.Has("content.publish") // true
//	cat.ByResource("users")    // users.create, users.read, ...
//
//	// Extend with application-specific permissions.
//	cat, err := cat.With(
//	    catalog.New("reports", "read", "View reports"),
//	    catalog.New("reports", "export", "Export reports"),
//	)
//
// Custom catalogs are built the same way:
//
//	cat, err := catalog.NewCatalog(
//	    catalog.New("projects", "read", ""),
//	    catalog.New("projects", "write", ""),
//	)
//
// Construction fails fast on malformed names and duplicates; both indicate a
// programming mistake rather than a runtime condition.
package catalog
