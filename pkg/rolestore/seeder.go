package rolestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
	"github.com/dmitrymomot/accesskit/pkg/roletemplate"
)

// Seeder provisions a store from a permission catalog and role templates.
// Seed is idempotent: permissions are upserted, roles are created only
// when missing, and grants an administrator customized afterwards are
// never overwritten unless reset mode is on.
type Seeder struct {
	store    Store
	catalog  *catalog.Catalog
	resolver *roletemplate.Resolver
	log      *slog.Logger
	reset    bool
}

// SeederOption configures the Seeder.
type SeederOption func(*Seeder)

// WithSeederLogger sets the logger used for seeding progress.
func WithSeederLogger(log *slog.Logger) SeederOption {
	return func(s *Seeder) {
		if log != nil {
			s.log = log
		}
	}
}

// WithResetRoles makes Seed re-assert template grants and flags on roles
// that already exist, discarding admin customizations.
func WithResetRoles(reset bool) SeederOption {
	return func(s *Seeder) {
		s.reset = reset
	}
}

// NewSeeder creates a Seeder over the given store, catalog and resolver.
func NewSeeder(store Store, cat *catalog.Catalog, resolver *roletemplate.Resolver, opts ...SeederOption) *Seeder {
	s := &Seeder{
		store:    store,
		catalog:  cat,
		resolver: resolver,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed registers every catalog permission and provisions every template
// role. Safe to run on each startup.
func (s *Seeder) Seed(ctx context.Context) error {
	for _, name := range s.catalog.Names() {
		perm, _ := s.catalog.Get(name)
		if err := s.store.EnsurePermission(ctx, perm); err != nil {
			return fmt.Errorf("rolestore: seed permission %s: %w", name, err)
		}
	}
	s.log.InfoContext(ctx, "permission catalog seeded", slog.Int("permissions", s.catalog.Len()))

	for _, name := range s.resolver.Templates() {
		if err := s.seedRole(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedRole(ctx context.Context, name string) error {
	rules, _ := s.resolver.Template(name)
	grants := s.resolver.Permissions(name)

	existing, err := s.store.GetRoleByName(ctx, name)
	switch {
	case errors.Is(err, ErrRoleNotFound):
		role := Role{
			Name:        name,
			Description: rules.Description,
			Super:       name == authz.SuperAdminRole,
			Active:      true,
			Permissions: grants,
		}
		if _, err := s.store.CreateRole(ctx, role); err != nil {
			return fmt.Errorf("rolestore: seed role %q: %w", name, err)
		}
		s.log.InfoContext(ctx, "role seeded",
			slog.String("role", name),
			slog.Int("grants", len(grants)),
			slog.Bool("super", role.Super))
		return nil
	case err != nil:
		return fmt.Errorf("rolestore: seed role %q: %w", name, err)
	}

	if !s.reset {
		s.log.DebugContext(ctx, "role exists, keeping customizations", slog.String("role", name))
		return nil
	}

	existing.Description = rules.Description
	existing.Super = name == authz.SuperAdminRole
	existing.Active = true
	if _, err := s.store.UpdateRole(ctx, existing); err != nil {
		return fmt.Errorf("rolestore: reset role %q: %w", name, err)
	}
	if err := s.store.SetRolePermissions(ctx, existing.ID, grants); err != nil {
		return fmt.Errorf("rolestore: reset role %q grants: %w", name, err)
	}
	s.log.InfoContext(ctx, "role reset to template",
		slog.String("role", name),
		slog.Int("grants", len(grants)))
	return nil
}
