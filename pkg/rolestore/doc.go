// Package rolestore persists roles, permissions and user-role references,
// and projects them into the checker-facing view the authz package
// consumes. It separates the two halves of authorization data access:
// Store is the admin-facing mutation port, ProjectionSource is the
// request-facing read port.
//
// # Adapters
//
// Four backends implement the ports:
//
//   - Memory: mutex-guarded maps for tests and single-process setups.
//   - Postgres: pgx-backed tables with schema-enforced integrity.
//   - Mongo: role documents with embedded grants.
//   - File: a read-only YAML source for configuration-managed roles.
//
// All adapters translate backend failures into the same domain errors
// (ErrRoleNotFound, ErrDuplicateRole, ErrRoleReferenced,
// ErrUnknownPermission, ErrUserNotFound), so callers never branch on
// driver types.
//
// # Usage
//
//	store := rolestore.NewPostgres(pool)
//	if err := store.EnsureSchema(ctx); err != nil {
//		return err
//	}
//
//	seeder := rolestore.NewSeeder(store, catalog.Builtin(), roletemplate.BuiltinResolver())
//	if err := seeder.Seed(ctx); err != nil {
//		return err
//	}
//
//	user, err := store.UserProjection(ctx, userID)
//	if err != nil {
//		return err
//	}
//	checker := authz.NewChecker(user)
//
// ConnectPostgres and ConnectMongo collapse the dial-and-ensure steps into
// one call, using the pg and mongo connector packages for retrying
// connects:
//
//	store, err := rolestore.ConnectPostgres(ctx, pgCfg)
//
// # Projection Semantics
//
// UserProjection returns ErrUserNotFound for unknown ids. A user whose
// role is missing or deactivated projects with no role at all, so
// disabling a role revokes its grants on the next projection load while
// the role row itself survives for re-activation.
//
// # Caching
//
// Wrap any ProjectionSource with NewCachedProjections for an in-process
// TTL-LRU cache, or with NewRedisProjections to share cached projections
// across processes. WithMutationHook ties cache invalidation to role
// mutations:
//
//	cached := rolestore.NewCachedProjections(store, rolestore.WithCacheTTL(30*time.Second))
//	admin := rolestore.WithMutationHook(store, func(context.Context) {
//		cached.InvalidateAll()
//	})
//
// # Seeding
//
// Seeder provisions a fresh deployment from the permission catalog and
// role templates. Existing roles are left untouched so admin-customized
// grants survive restarts; WithResetRoles(true) re-asserts the templates
// instead.
package rolestore
