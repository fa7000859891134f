// Package accesskit provides role-based access control for multi-tenant
// admin applications in Go.
//
// The module is organized as a set of small, composable packages. The core
// evaluates permissions against an immutable per-request user projection,
// while the surrounding packages cover the catalog of permission
// definitions, reusable role templates, menu visibility, persistence
// adapters, and HTTP guards.
//
// # Key Features
//
//   - Declarative permission catalog with resource.action naming
//   - Role templates that expand shorthand grants into concrete permissions
//   - Per-request permission checker with super admin bypass
//   - Ownership-aware checks for user-scoped resources
//   - Navigation menu filtering driven by the same permission checks
//   - Postgres, MongoDB, in-memory, and YAML-backed role stores
//   - Redis and in-process LRU caching for user projections
//   - chi middleware guarding routes by permission, role, or ownership
//
// # Basic Usage
//
//	store := rolestore.NewMemory()
//	seeder := rolestore.NewSeeder(store, catalog.Builtin(), roletemplate.BuiltinResolver())
//	if err := seeder.Seed(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Use(guard.Middleware(guard.NewHeaderResolver(""), store))
//	r.With(guard.RequirePermission("users.read")).Get("/users", listUsers)
//
// Each package is documented independently; see the package-level
// documentation for configuration options and advanced usage.
package accesskit
