package rolestore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
)

// Memory implements Store and ProjectionSource using in-memory maps.
// Safe for concurrent use. Intended for tests, demos and single-process
// deployments; nothing survives a restart.
type Memory struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]Role
	names map[string]uuid.UUID
	perms map[string]catalog.Permission
	users map[string]UserRef
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		roles: make(map[uuid.UUID]Role),
		names: make(map[string]uuid.UUID),
		perms: make(map[string]catalog.Permission),
		users: make(map[string]UserRef),
	}
}

// CreateRole persists a new role. A zero ID is replaced with a fresh one.
func (m *Memory) CreateRole(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if err := role.Validate(); err != nil {
		return Role{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.names[role.Name]; exists {
		return Role{}, ErrDuplicateRole
	}
	if _, exists := m.roles[role.ID]; exists {
		return Role{}, ErrDuplicateRole
	}
	if err := m.checkGrantsLocked(role.Permissions); err != nil {
		return Role{}, err
	}

	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	now := time.Now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now
	role.Permissions = normalizeGrants(role.Permissions)

	m.roles[role.ID] = role.clone()
	m.names[role.Name] = role.ID
	return role, nil
}

// GetRole retrieves a role by id.
func (m *Memory) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	role, exists := m.roles[id]
	if !exists {
		return Role{}, ErrRoleNotFound
	}
	return role.clone(), nil
}

// GetRoleByName retrieves a role by its unique name.
func (m *Memory) GetRoleByName(ctx context.Context, name string) (Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.names[strings.TrimSpace(name)]
	if !exists {
		return Role{}, ErrRoleNotFound
	}
	return m.roles[id].clone(), nil
}

// ListRoles returns all roles ordered by name.
func (m *Memory) ListRoles(ctx context.Context) ([]Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Role, 0, len(m.roles))
	for _, role := range m.roles {
		out = append(out, role.clone())
	}
	slices.SortFunc(out, func(a, b Role) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// UpdateRole updates the role's metadata. Grants are left untouched.
func (m *Memory) UpdateRole(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	role.Permissions = nil
	if err := role.Validate(); err != nil {
		return Role{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.roles[role.ID]
	if !exists {
		return Role{}, ErrRoleNotFound
	}
	if id, taken := m.names[role.Name]; taken && id != role.ID {
		return Role{}, ErrDuplicateRole
	}

	delete(m.names, current.Name)
	current.Name = role.Name
	current.Description = role.Description
	current.Super = role.Super
	current.Active = role.Active
	current.UpdatedAt = time.Now().UTC()

	m.roles[current.ID] = current
	m.names[current.Name] = current.ID
	return current.clone(), nil
}

// DeleteRole removes a role no user references.
func (m *Memory) DeleteRole(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, exists := m.roles[id]
	if !exists {
		return ErrRoleNotFound
	}
	for _, ref := range m.users {
		if ref.RoleID == id {
			return ErrRoleReferenced
		}
	}

	delete(m.roles, id)
	delete(m.names, role.Name)
	return nil
}

// SetRolePermissions replaces the role's grant set.
func (m *Memory) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, exists := m.roles[roleID]
	if !exists {
		return ErrRoleNotFound
	}
	if err := m.checkGrantsLocked(permissions); err != nil {
		return err
	}

	role.Permissions = normalizeGrants(permissions)
	role.UpdatedAt = time.Now().UTC()
	m.roles[roleID] = role
	return nil
}

// SetRoleActive toggles the role's active flag.
func (m *Memory) SetRoleActive(ctx context.Context, roleID uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, exists := m.roles[roleID]
	if !exists {
		return ErrRoleNotFound
	}
	role.Active = active
	role.UpdatedAt = time.Now().UTC()
	m.roles[roleID] = role
	return nil
}

// EnsurePermission registers a permission or refreshes its description.
func (m *Memory) EnsurePermission(ctx context.Context, perm catalog.Permission) error {
	if !catalog.ValidName(perm.Name) {
		return ErrUnknownPermission
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.perms[perm.Name] = perm
	return nil
}

// ListPermissions returns all registered permissions ordered by name.
func (m *Memory) ListPermissions(ctx context.Context) ([]catalog.Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.Permission, 0, len(m.perms))
	for _, perm := range m.perms {
		out = append(out, perm)
	}
	slices.SortFunc(out, func(a, b catalog.Permission) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// AssignRole points a user reference at a role, creating the reference
// as an active user when it does not exist yet.
func (m *Memory) AssignRole(ctx context.Context, userID string, roleID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.roles[roleID]; !exists {
		return ErrRoleNotFound
	}

	ref, exists := m.users[userID]
	if !exists {
		ref = UserRef{ID: userID, Active: true}
	}
	ref.RoleID = roleID
	m.users[userID] = ref
	return nil
}

// PutUser installs a user reference directly. It is the seam tests and
// bootstrap code use to register users without going through AssignRole.
func (m *Memory) PutUser(ref UserRef) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[ref.ID] = ref
}

// UserProjection composes the checker-facing view of a user.
func (m *Memory) UserProjection(ctx context.Context, userID string) (*authz.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, exists := m.users[userID]
	if !exists {
		return nil, ErrUserNotFound
	}

	var role *Role
	if ref.RoleID != uuid.Nil {
		if r, ok := m.roles[ref.RoleID]; ok {
			role = &r
		}
	}
	return projectUser(ref, role), nil
}

func (m *Memory) checkGrantsLocked(permissions []string) error {
	for _, name := range permissions {
		if _, ok := m.perms[name]; !ok {
			return ErrUnknownPermission
		}
	}
	return nil
}
