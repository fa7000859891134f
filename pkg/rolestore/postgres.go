package rolestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
	"github.com/dmitrymomot/accesskit/pkg/pg"
)

// DefaultTablePrefix namespaces the authorization tables so they coexist
// with application tables in a shared schema.
const DefaultTablePrefix = "authz_"

// Postgres implements Store and ProjectionSource on top of a pgx pool.
// Role uniqueness and grant integrity are enforced by the schema itself;
// the adapter translates constraint violations into domain errors.
type Postgres struct {
	pool   *pgxpool.Pool
	prefix string
}

// PostgresOption configures the Postgres store.
type PostgresOption func(*Postgres)

// WithTablePrefix overrides the table name prefix.
func WithTablePrefix(prefix string) PostgresOption {
	return func(s *Postgres) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewPostgres creates a Postgres store over an existing connection pool.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) *Postgres {
	s := &Postgres{
		pool:   pool,
		prefix: DefaultTablePrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the authorization tables when they do not exist.
// It is idempotent and safe to run on every startup. The users table
// mirrors the application's user records; deployments that already track
// activity elsewhere can point the store at a view with the same shape.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			resource TEXT NOT NULL,
			action TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`, s.table("permissions")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			is_super BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.table("roles")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			role_id UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			permission_name TEXT NOT NULL REFERENCES %s (name) ON DELETE CASCADE,
			PRIMARY KEY (role_id, permission_name)
		)`, s.table("role_permissions"), s.table("roles"), s.table("permissions")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			role_id UUID REFERENCES %s (id),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`, s.table("users"), s.table("roles")),
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("rolestore: ensure schema: %w", err)
		}
	}
	return nil
}

// CreateRole persists a new role with its grants in one transaction.
func (s *Postgres) CreateRole(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if err := role.Validate(); err != nil {
		return Role{}, err
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	role.Permissions = normalizeGrants(role.Permissions)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Role{}, fmt.Errorf("rolestore: create role: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`INSERT INTO %s (id, name, description, is_super, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`, s.table("roles"))
	err = tx.QueryRow(ctx, query, role.ID, role.Name, role.Description, role.Super, role.Active).
		Scan(&role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return Role{}, ErrDuplicateRole
		}
		return Role{}, fmt.Errorf("rolestore: create role: %w", err)
	}

	grant := fmt.Sprintf(`INSERT INTO %s (role_id, permission_name) VALUES ($1, $2)`, s.table("role_permissions"))
	for _, name := range role.Permissions {
		if _, err := tx.Exec(ctx, grant, role.ID, name); err != nil {
			if pg.IsForeignKeyViolationError(err) {
				return Role{}, ErrUnknownPermission
			}
			return Role{}, fmt.Errorf("rolestore: grant %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Role{}, fmt.Errorf("rolestore: create role: %w", err)
	}
	return role, nil
}

// GetRole retrieves a role with its grants by id.
func (s *Postgres) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	return s.getRole(ctx, "r.id = $1", id)
}

// GetRoleByName retrieves a role with its grants by name.
func (s *Postgres) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return s.getRole(ctx, "r.name = $1", strings.TrimSpace(name))
}

func (s *Postgres) getRole(ctx context.Context, where string, arg any) (Role, error) {
	query := fmt.Sprintf(`SELECT %s WHERE %s GROUP BY r.id`, s.roleSelect(), where)

	var role Role
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&role.ID, &role.Name, &role.Description, &role.Super, &role.Active,
		&role.CreatedAt, &role.UpdatedAt, &role.Permissions,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("rolestore: get role: %w", err)
	}
	return role, nil
}

// ListRoles returns all roles with their grants ordered by name.
func (s *Postgres) ListRoles(ctx context.Context) ([]Role, error) {
	query := fmt.Sprintf(`SELECT %s GROUP BY r.id ORDER BY r.name`, s.roleSelect())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rolestore: list roles: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(
			&role.ID, &role.Name, &role.Description, &role.Super, &role.Active,
			&role.CreatedAt, &role.UpdatedAt, &role.Permissions,
		); err != nil {
			return nil, fmt.Errorf("rolestore: list roles: %w", err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rolestore: list roles: %w", err)
	}
	return out, nil
}

// UpdateRole updates the role's metadata. Grants are left untouched.
func (s *Postgres) UpdateRole(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	role.Permissions = nil
	if err := role.Validate(); err != nil {
		return Role{}, err
	}

	query := fmt.Sprintf(`UPDATE %s
		SET name = $2, description = $3, is_super = $4, is_active = $5, updated_at = now()
		WHERE id = $1`, s.table("roles"))
	tag, err := s.pool.Exec(ctx, query, role.ID, role.Name, role.Description, role.Super, role.Active)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return Role{}, ErrDuplicateRole
		}
		return Role{}, fmt.Errorf("rolestore: update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Role{}, ErrRoleNotFound
	}
	return s.GetRole(ctx, role.ID)
}

// DeleteRole removes a role. The users table's foreign key blocks the
// delete while any user still holds the role.
func (s *Postgres) DeleteRole(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table("roles"))
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return ErrRoleReferenced
		}
		return fmt.Errorf("rolestore: delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// SetRolePermissions replaces the role's grant set in one transaction.
func (s *Postgres) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []string) error {
	permissions = normalizeGrants(permissions)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("rolestore: set role permissions: %w", err)
	}
	defer tx.Rollback(ctx)

	touch := fmt.Sprintf(`UPDATE %s SET updated_at = now() WHERE id = $1`, s.table("roles"))
	tag, err := tx.Exec(ctx, touch, roleID)
	if err != nil {
		return fmt.Errorf("rolestore: set role permissions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}

	remove := fmt.Sprintf(`DELETE FROM %s WHERE role_id = $1`, s.table("role_permissions"))
	if _, err := tx.Exec(ctx, remove, roleID); err != nil {
		return fmt.Errorf("rolestore: set role permissions: %w", err)
	}

	grant := fmt.Sprintf(`INSERT INTO %s (role_id, permission_name) VALUES ($1, $2)`, s.table("role_permissions"))
	for _, name := range permissions {
		if _, err := tx.Exec(ctx, grant, roleID, name); err != nil {
			if pg.IsForeignKeyViolationError(err) {
				return ErrUnknownPermission
			}
			return fmt.Errorf("rolestore: grant %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("rolestore: set role permissions: %w", err)
	}
	return nil
}

// SetRoleActive toggles the role's active flag.
func (s *Postgres) SetRoleActive(ctx context.Context, roleID uuid.UUID, active bool) error {
	query := fmt.Sprintf(`UPDATE %s SET is_active = $2, updated_at = now() WHERE id = $1`, s.table("roles"))
	tag, err := s.pool.Exec(ctx, query, roleID, active)
	if err != nil {
		return fmt.Errorf("rolestore: set role active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// EnsurePermission registers a permission or refreshes its metadata.
func (s *Postgres) EnsurePermission(ctx context.Context, perm catalog.Permission) error {
	if !catalog.ValidName(perm.Name) {
		return ErrUnknownPermission
	}

	query := fmt.Sprintf(`INSERT INTO %s (name, resource, action, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET resource = EXCLUDED.resource, action = EXCLUDED.action, description = EXCLUDED.description`,
		s.table("permissions"))
	if _, err := s.pool.Exec(ctx, query, perm.Name, perm.Resource, perm.Action, perm.Description); err != nil {
		return fmt.Errorf("rolestore: ensure permission %s: %w", perm.Name, err)
	}
	return nil
}

// ListPermissions returns all registered permissions ordered by name.
func (s *Postgres) ListPermissions(ctx context.Context) ([]catalog.Permission, error) {
	query := fmt.Sprintf(`SELECT name, resource, action, description FROM %s ORDER BY name`, s.table("permissions"))

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rolestore: list permissions: %w", err)
	}
	defer rows.Close()

	var out []catalog.Permission
	for rows.Next() {
		var perm catalog.Permission
		if err := rows.Scan(&perm.Name, &perm.Resource, &perm.Action, &perm.Description); err != nil {
			return nil, fmt.Errorf("rolestore: list permissions: %w", err)
		}
		out = append(out, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rolestore: list permissions: %w", err)
	}
	return out, nil
}

// AssignRole points a user reference at a role, inserting the reference
// as an active user when it does not exist yet.
func (s *Postgres) AssignRole(ctx context.Context, userID string, roleID uuid.UUID) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, role_id, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (id) DO UPDATE SET role_id = EXCLUDED.role_id`, s.table("users"))
	if _, err := s.pool.Exec(ctx, query, userID, roleID); err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("rolestore: assign role: %w", err)
	}
	return nil
}

// UpsertUser installs or refreshes a user reference, including its active
// flag. It is the sync seam for applications that own user records in a
// separate table.
func (s *Postgres) UpsertUser(ctx context.Context, ref UserRef) error {
	var roleID any
	if ref.RoleID != uuid.Nil {
		roleID = ref.RoleID
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, role_id, is_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET role_id = EXCLUDED.role_id, is_active = EXCLUDED.is_active`,
		s.table("users"))
	if _, err := s.pool.Exec(ctx, query, ref.ID, roleID, ref.Active); err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("rolestore: upsert user: %w", err)
	}
	return nil
}

// UserProjection composes the checker-facing view of a user in a single
// query. A deactivated or missing role projects as no role at all.
func (s *Postgres) UserProjection(ctx context.Context, userID string) (*authz.User, error) {
	query := fmt.Sprintf(`SELECT u.id, u.is_active,
			r.name, r.is_super, r.is_active,
			COALESCE(array_agg(rp.permission_name ORDER BY rp.permission_name)
				FILTER (WHERE rp.permission_name IS NOT NULL), '{}')
		FROM %s u
		LEFT JOIN %s r ON r.id = u.role_id
		LEFT JOIN %s rp ON rp.role_id = r.id
		WHERE u.id = $1
		GROUP BY u.id, r.id`,
		s.table("users"), s.table("roles"), s.table("role_permissions"))

	var (
		user       authz.User
		roleName   *string
		roleSuper  *bool
		roleActive *bool
		grants     []string
	)
	err := s.pool.QueryRow(ctx, query, userID).
		Scan(&user.ID, &user.Active, &roleName, &roleSuper, &roleActive, &grants)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("rolestore: user projection: %w", err)
	}

	if roleName != nil && roleActive != nil && *roleActive {
		user.Role = &authz.Role{
			Name:        *roleName,
			Super:       roleSuper != nil && *roleSuper,
			Permissions: grants,
		}
	}
	return &user, nil
}

func (s *Postgres) roleSelect() string {
	return fmt.Sprintf(`r.id, r.name, r.description, r.is_super, r.is_active, r.created_at, r.updated_at,
		COALESCE(array_agg(rp.permission_name ORDER BY rp.permission_name)
			FILTER (WHERE rp.permission_name IS NOT NULL), '{}')
		FROM %s r
		LEFT JOIN %s rp ON rp.role_id = r.id`,
		s.table("roles"), s.table("role_permissions"))
}

func (s *Postgres) table(name string) string {
	return s.prefix + name
}
