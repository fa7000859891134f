package guard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/accesskit/pkg/authz"
)

// RequirePermission allows the request through only when the checker
// grants the permission.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return requireFunc(func(c *authz.Checker, r *http.Request) error {
		return c.Require(permission)
	})
}

// RequireAnyPermission allows the request through when the checker grants
// at least one of the permissions. With no permissions listed, nobody
// passes.
func RequireAnyPermission(permissions ...string) func(http.Handler) http.Handler {
	return requireFunc(func(c *authz.Checker, r *http.Request) error {
		return c.RequireAny(permissions...)
	})
}

// RequireAllPermissions allows the request through only when the checker
// grants every listed permission.
func RequireAllPermissions(permissions ...string) func(http.Handler) http.Handler {
	return requireFunc(func(c *authz.Checker, r *http.Request) error {
		return c.RequireAll(permissions...)
	})
}

// RequireRole allows the request through when the user holds any of the
// named roles. Role identity survives user deactivation, so combine with
// permission guards for sensitive routes.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return requireFunc(func(c *authz.Checker, r *http.Request) error {
		return c.RequireRole(roles...)
	})
}

// RequireSuperAdmin allows only superusers through.
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return requireFunc(func(c *authz.Checker, r *http.Request) error {
		if c.IsSuperAdmin() {
			return nil
		}
		if !c.Authenticated() {
			return errors.Join(authz.ErrAccessDenied, authz.ErrNoIdentity)
		}
		return errors.Join(authz.ErrAccessDenied, authz.ErrRoleRequired)
	})
}

// RequireAuthenticated allows any active authenticated user through.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return requireFunc(func(c *authz.Checker, r *http.Request) error {
		if !c.Authenticated() {
			return errors.Join(authz.ErrAccessDenied, authz.ErrNoIdentity)
		}
		return nil
	})
}

// RequireOwnerOrPermission allows the request through when the user owns
// the addressed resource or holds the override permission. The owner id
// is read from the named chi URL parameter:
//
//	r.With(guard.RequireOwnerOrPermission("userID", "users.update")).
//		Patch("/users/{userID}", updateUser)
func RequireOwnerOrPermission(param, permission string) func(http.Handler) http.Handler {
	return requireFunc(func(c *authz.Checker, r *http.Request) error {
		return c.RequireOwnerOrPermission(chi.URLParam(r, param), permission)
	})
}

func requireFunc(check func(c *authz.Checker, r *http.Request) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			checker, ok := authz.FromContext(r.Context())
			if !ok {
				// Middleware not installed or path skipped; fail closed.
				checker = authz.NewChecker(nil)
			}
			if err := check(checker, r); err != nil {
				respondDenied(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
