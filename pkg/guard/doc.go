// Package guard wires authorization into HTTP routing: it resolves the
// request identity, loads the user projection once, and exposes per-route
// Require* middlewares that consult the resulting checker.
//
// # Usage
//
//	store := rolestore.NewPostgres(pool)
//	source := rolestore.NewCachedProjections(store)
//
//	r := chi.NewRouter()
//	r.Use(guard.Middleware(guard.NewHeaderResolver(""), source))
//
//	r.Route("/admin", func(r chi.Router) {
//		r.With(guard.RequirePermission("users.read")).Get("/users", listUsers)
//		r.With(guard.RequireAllPermissions("content.read", "content.publish")).
//			Post("/content/{id}/publish", publishContent)
//		r.With(guard.RequireSuperAdmin()).Delete("/roles/{id}", deleteRole)
//		r.With(guard.RequireOwnerOrPermission("userID", "users.update")).
//			Patch("/users/{userID}", updateUser)
//	})
//
// Handlers read the same checker for fine-grained decisions:
//
//	func listUsers(w http.ResponseWriter, r *http.Request) {
//		c := authz.MustFromContext(r.Context())
//		if c.HasPermission("users.delete") {
//			// render destructive actions
//		}
//		...
//	}
//
// # Status Mapping
//
// Denials without any identity answer 401 with a JSON body; authenticated
// denials answer 403. Projection load failures answer 500 through the
// configurable error handler. Identities the projection source does not
// know proceed as anonymous instead of failing, so stale sessions degrade
// to 401s on guarded routes rather than server errors.
package guard
