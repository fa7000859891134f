package rolestore

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
)

// File is a read-only role source loaded from a YAML document. It covers
// deployments that manage roles as configuration instead of a database:
// the read half of Store plus ProjectionSource, no mutations.
//
// Roles without an explicit id get one derived from the role name, so ids
// stay stable across restarts without being spelled out in the file.
type File struct {
	roles map[uuid.UUID]Role
	names map[string]uuid.UUID
	perms []catalog.Permission
	users map[string]UserRef
}

type fileDoc struct {
	Permissions []catalog.Permission `yaml:"permissions"`
	Roles       []fileRole           `yaml:"roles"`
	Users       []fileUser           `yaml:"users"`
}

type fileRole struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Super       bool     `yaml:"super"`
	Active      *bool    `yaml:"active"`
	Permissions []string `yaml:"permissions"`
}

type fileUser struct {
	ID     string `yaml:"id"`
	Active *bool  `yaml:"active"`
	Role   string `yaml:"role"`
}

// LoadFile reads and parses a YAML role document from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rolestore: read %s: %w", path, err)
	}
	return ParseFile(data)
}

// ParseFile parses a YAML role document. The whole document is validated
// up front: duplicate role names, grants outside the declared permission
// list and users pointing at undeclared roles all fail the load.
func ParseFile(data []byte) (*File, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rolestore: parse roles file: %w", err)
	}

	f := &File{
		roles: make(map[uuid.UUID]Role, len(doc.Roles)),
		names: make(map[string]uuid.UUID, len(doc.Roles)),
		perms: make([]catalog.Permission, 0, len(doc.Permissions)),
		users: make(map[string]UserRef, len(doc.Users)),
	}

	declared := make(map[string]struct{}, len(doc.Permissions))
	for _, perm := range doc.Permissions {
		if !catalog.ValidName(perm.Name) {
			return nil, fmt.Errorf("rolestore: permission %q: %w", perm.Name, catalog.ErrInvalidName)
		}
		if _, dup := declared[perm.Name]; dup {
			return nil, fmt.Errorf("rolestore: permission %q: %w", perm.Name, catalog.ErrDuplicatePermission)
		}
		declared[perm.Name] = struct{}{}
		f.perms = append(f.perms, perm)
	}
	slices.SortFunc(f.perms, func(a, b catalog.Permission) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, fr := range doc.Roles {
		role := Role{
			Name:        strings.TrimSpace(fr.Name),
			Description: fr.Description,
			Super:       fr.Super,
			Active:      fr.Active == nil || *fr.Active,
			Permissions: normalizeGrants(fr.Permissions),
		}
		if err := role.Validate(); err != nil {
			return nil, fmt.Errorf("rolestore: role %q: %w", role.Name, err)
		}
		if _, dup := f.names[role.Name]; dup {
			return nil, fmt.Errorf("rolestore: role %q: %w", role.Name, ErrDuplicateRole)
		}
		if len(declared) > 0 {
			for _, grant := range role.Permissions {
				if _, ok := declared[grant]; !ok {
					return nil, fmt.Errorf("rolestore: role %q grants %q: %w", role.Name, grant, ErrUnknownPermission)
				}
			}
		}

		if fr.ID != "" {
			id, err := uuid.Parse(fr.ID)
			if err != nil {
				return nil, fmt.Errorf("rolestore: role %q id: %w", role.Name, err)
			}
			role.ID = id
		} else {
			role.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("accesskit/role/"+role.Name))
		}
		if _, dup := f.roles[role.ID]; dup {
			return nil, fmt.Errorf("rolestore: role %q: %w", role.Name, ErrDuplicateRole)
		}

		f.roles[role.ID] = role
		f.names[role.Name] = role.ID
	}

	for _, fu := range doc.Users {
		if fu.ID == "" {
			return nil, fmt.Errorf("rolestore: user with empty id")
		}
		if _, dup := f.users[fu.ID]; dup {
			return nil, fmt.Errorf("rolestore: duplicate user %q", fu.ID)
		}
		ref := UserRef{
			ID:     fu.ID,
			Active: fu.Active == nil || *fu.Active,
		}
		if roleName := strings.TrimSpace(fu.Role); roleName != "" {
			id, ok := f.names[roleName]
			if !ok {
				return nil, fmt.Errorf("rolestore: user %q role %q: %w", fu.ID, roleName, ErrRoleNotFound)
			}
			ref.RoleID = id
		}
		f.users[fu.ID] = ref
	}

	return f, nil
}

// GetRole retrieves a role by id.
func (f *File) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	role, exists := f.roles[id]
	if !exists {
		return Role{}, ErrRoleNotFound
	}
	return role.clone(), nil
}

// GetRoleByName retrieves a role by its unique name.
func (f *File) GetRoleByName(ctx context.Context, name string) (Role, error) {
	id, exists := f.names[strings.TrimSpace(name)]
	if !exists {
		return Role{}, ErrRoleNotFound
	}
	return f.roles[id].clone(), nil
}

// ListRoles returns all roles ordered by name.
func (f *File) ListRoles(ctx context.Context) ([]Role, error) {
	out := make([]Role, 0, len(f.roles))
	for _, role := range f.roles {
		out = append(out, role.clone())
	}
	slices.SortFunc(out, func(a, b Role) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// ListPermissions returns the declared permissions ordered by name.
func (f *File) ListPermissions(ctx context.Context) ([]catalog.Permission, error) {
	return slices.Clone(f.perms), nil
}

// UserProjection composes the checker-facing view of a user.
func (f *File) UserProjection(ctx context.Context, userID string) (*authz.User, error) {
	ref, exists := f.users[userID]
	if !exists {
		return nil, ErrUserNotFound
	}

	var role *Role
	if ref.RoleID != uuid.Nil {
		if r, ok := f.roles[ref.RoleID]; ok {
			role = &r
		}
	}
	return projectUser(ref, role), nil
}
