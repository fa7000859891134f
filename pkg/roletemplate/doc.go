// Package roletemplate resolves named role templates into concrete
// permission sets at provisioning time.
//
// A template is a set of allow/deny rules over a permission catalog: allow
// entries are exact permission names or "resource.*" group selectors, deny
// entries subtract after all allows, and AllowAll starts from the full
// catalog. Resolution happens once, when a role is seeded or reset, never
// during request-time authorization, which tests exact membership in an
// already-granted set (see pkg/authz).
//
// The resolver is a pure function of its two inputs, the catalog and the
// rule table; it carries no package-level state, so tests can substitute
// both freely.
//
// Basic usage:
//
//	cat := catalog.Builtin()
//	resolver, err := roletemplate.NewResolver(cat, roletemplate.Builtin())
//	if err != nil {
//	    // a rule referenced a permission the catalog does not define
//	}
//
//	resolver.Permissions("Viewer")
//	// ["categories.read", "content.read", "dashboard.read", ...]
//
//	resolver.Permissions("unknown-role")
//	// empty set, not an error
//
//	resolver.Templates()
//	// ["Super Admin", "Admin", "Editor", "Viewer"]
//
// Custom templates follow the same grammar:
//
//	templates := map[string]roletemplate.Rules{
//	    "Support": {
//	        Description: "Read everything, manage nothing",
//	        Allow:       []string{"users.read", "content.*"},
//	        Deny:        []string{"content.delete"},
//	    },
//	}
//	resolver, err := roletemplate.NewResolver(cat, templates)
//
// Construction fails fast on rules that reference unknown permissions or
// resources; a template drifting from the catalog is a programming mistake
// that should surface at startup, not silently grant nothing.
package roletemplate
