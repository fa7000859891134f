package rolestore

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
)

// Store defines the interface for role and permission persistence.
// UpdateRole changes role metadata only; grants move exclusively through
// SetRolePermissions so a stale aggregate can never wipe them.
type Store interface {
	// CreateRole persists a new role and returns it with identity and
	// timestamps filled in.
	CreateRole(ctx context.Context, role Role) (Role, error)

	// GetRole retrieves a role by id.
	GetRole(ctx context.Context, id uuid.UUID) (Role, error)

	// GetRoleByName retrieves a role by its unique name.
	GetRoleByName(ctx context.Context, name string) (Role, error)

	// ListRoles returns all roles ordered by name.
	ListRoles(ctx context.Context) ([]Role, error)

	// UpdateRole updates the role's name, description, super and active
	// flags. The Permissions field of the argument is ignored.
	UpdateRole(ctx context.Context, role Role) (Role, error)

	// DeleteRole removes a role no user references. While users still
	// hold it, DeleteRole returns ErrRoleReferenced.
	DeleteRole(ctx context.Context, id uuid.UUID) error

	// SetRolePermissions replaces the role's grant set. Every name must
	// be a registered permission.
	SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []string) error

	// SetRoleActive toggles the role's active flag.
	SetRoleActive(ctx context.Context, roleID uuid.UUID, active bool) error

	// EnsurePermission registers a permission, updating the description
	// when it already exists.
	EnsurePermission(ctx context.Context, perm catalog.Permission) error

	// ListPermissions returns all registered permissions ordered by name.
	ListPermissions(ctx context.Context) ([]catalog.Permission, error)

	// AssignRole points a user reference at a role, creating the
	// reference when it does not exist yet.
	AssignRole(ctx context.Context, userID string, roleID uuid.UUID) error
}

// ProjectionSource loads the checker-facing user view. It is the only
// port the request path touches; the guard middleware calls it once per
// request and hands the result to authz.NewChecker.
type ProjectionSource interface {
	// UserProjection returns the user's identity, activity flag and role
	// grants, or ErrUserNotFound.
	UserProjection(ctx context.Context, userID string) (*authz.User, error)
}

// mutationHooked wraps a Store and runs a callback after every successful
// role mutation. Used to keep projection caches coherent without the
// adapters knowing about caching.
type mutationHooked struct {
	Store
	after func(context.Context)
}

// WithMutationHook returns a Store that invokes after following each
// successful mutation that can change existing user projections. Pair it
// with CachedProjections.InvalidateAll or RedisProjections.InvalidateAll.
func WithMutationHook(store Store, after func(context.Context)) Store {
	return &mutationHooked{Store: store, after: after}
}

func (s *mutationHooked) UpdateRole(ctx context.Context, role Role) (Role, error) {
	out, err := s.Store.UpdateRole(ctx, role)
	if err == nil {
		s.after(ctx)
	}
	return out, err
}

func (s *mutationHooked) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.after(ctx)
	return nil
}

func (s *mutationHooked) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []string) error {
	if err := s.Store.SetRolePermissions(ctx, roleID, permissions); err != nil {
		return err
	}
	s.after(ctx)
	return nil
}

func (s *mutationHooked) SetRoleActive(ctx context.Context, roleID uuid.UUID, active bool) error {
	if err := s.Store.SetRoleActive(ctx, roleID, active); err != nil {
		return err
	}
	s.after(ctx)
	return nil
}

func (s *mutationHooked) AssignRole(ctx context.Context, userID string, roleID uuid.UUID) error {
	if err := s.Store.AssignRole(ctx, userID, roleID); err != nil {
		return err
	}
	s.after(ctx)
	return nil
}
