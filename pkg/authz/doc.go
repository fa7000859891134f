// Package authz answers authorization questions for one resolved user.
//
// The evaluation core of role-based access control: a Checker is built per
// request from an already-materialized user projection (identity, activity
// flag, role with its granted permission-name set), preloads the grants into
// a lookup set, and then answers yes/no questions synchronously with no I/O.
// Loading the projection is the caller's concern; the checker never fetches
// anything itself.
//
// Key rules, applied in order:
//
//   - A nil or inactive user is denied every permission.
//   - The reserved superuser role ("Super Admin" by name, or any role marked
//     with the Super flag) passes every permission check unconditionally.
//   - Otherwise a permission is held iff its name is a member of the role's
//     granted set. Exact string match, no wildcards, no role inheritance.
//
// Denial is a false return, never an error. The Require* variants exist for
// boundaries that want an error to translate into an HTTP status; every
// denial they return wraps ErrAccessDenied.
//
// Basic usage:
//
//	user := &authz.User{
//	    ID:     "u_123",
//	    Active: true,
//	    Role: &authz.Role{
//	        Name:        "Editor",
//	        Permissions: []string{"content.read", "content.update"},
//	    },
//	}
//
//	checker := authz.NewChecker(user)
//
//	checker.HasPermission("content.update")          // true
//	checker.HasPermission("users.delete")            // false
//	checker.CanPerformAction("content", "update")    // true
//	checker.CanAccessResource("u_123", "users.update") // true: owner
//
//	// Guard style, for handlers that prefer errors.
//	if err := checker.Require("content.publish"); err != nil {
//	    // errors.Is(err, authz.ErrAccessDenied) == true
//	}
//
// Request plumbing:
//
//	ctx = authz.WithChecker(ctx, checker)
//	checker, ok := authz.FromContext(ctx)
//
// Checkers are immutable after construction and safe for concurrent reads;
// build one per request from fresh data and share nothing between requests.
//
// The name-based superuser bypass is a compatibility behavior: renaming the
// "Super Admin" role silently removes the bypass, and naming any role that
// exact string grants blanket access. New deployments should mark the role
// with Role.Super instead; the checker honors both.
package authz
