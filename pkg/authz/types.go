package authz

// Reserved role names the evaluation engine treats specially.
//
// SuperAdminRole short-circuits every permission check to allow. The bypass
// compares the role name against this exact string for compatibility with
// deployments that treat the name as the source of truth. Renaming that role
// silently removes the bypass, and naming any role this string grants
// blanket access. Prefer marking the role with Role.Super in new
// deployments; the checker honors both.
const (
	SuperAdminRole = "Super Admin"
	AdminRole      = "Admin"
)

// Role is the projection of a persisted role as the checker consumes it:
// a name, the superuser marker, and the granted permission-name set.
// The set is a plain union of grants; roles do not inherit from each other.
type Role struct {
	Name        string   `json:"name"`
	Super       bool     `json:"super,omitempty"`
	Permissions []string `json:"permissions"`
}

// User is the projection of an authenticated user as supplied by the
// session/identity layer: identity, activity flag, and at most one role.
// The checker only ever reads this structure.
type User struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
	Role   *Role  `json:"role,omitempty"`
}
