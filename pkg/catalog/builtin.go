package catalog

// Builtin returns the default catalog of an analytics/CMS administrative
// application: user, role, content, category, dashboard, file, menu,
// settings, notification, audit and system-monitoring surfaces.
//
// Each call returns a fresh catalog so callers can extend their copy with
// With without affecting others.
func Builtin() *Catalog {
	return MustCatalog(
		// User management.
		New("users", "create", "Create user accounts"),
		New("users", "read", "View user accounts"),
		New("users", "update", "Edit user accounts"),
		New("users", "delete", "Delete user accounts"),

		// Role and permission management.
		New("roles", "create", "Create roles"),
		New("roles", "read", "View roles and their grants"),
		New("roles", "update", "Edit roles and their grants"),
		New("roles", "delete", "Delete roles"),
		New("roles", "assign", "Assign roles to users"),

		// Content management.
		New("content", "create", "Create content entries"),
		New("content", "read", "View content entries"),
		New("content", "update", "Edit content entries"),
		New("content", "delete", "Delete content entries"),
		New("content", "publish", "Publish or unpublish content"),

		// Content categories.
		New("categories", "create", "Create categories"),
		New("categories", "read", "View categories"),
		New("categories", "update", "Edit categories"),
		New("categories", "delete", "Delete categories"),

		// Analytics dashboards.
		New("dashboard", "create", "Create dashboards"),
		New("dashboard", "read", "View dashboards"),
		New("dashboard", "update", "Edit dashboards"),
		New("dashboard", "delete", "Delete dashboards"),
		New("dashboard", "export", "Export dashboard data"),

		// File library.
		New("files", "upload", "Upload files"),
		New("files", "read", "Browse and download files"),
		New("files", "delete", "Delete files"),

		// Navigation menus.
		New("menus", "create", "Create menu items"),
		New("menus", "read", "View menu configuration"),
		New("menus", "update", "Edit menu items"),
		New("menus", "delete", "Delete menu items"),

		// Application settings.
		New("settings", "read", "View application settings"),
		New("settings", "update", "Change application settings"),

		// Notifications.
		New("notifications", "read", "View notifications"),
		New("notifications", "send", "Send notifications to users"),

		// Audit trail.
		New("audit", "read", "View audit log entries"),

		// System monitoring.
		New("system", "read", "View system monitoring dashboards"),
	)
}
