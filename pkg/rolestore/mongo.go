package rolestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
)

// Mongo implements Store and ProjectionSource over three collections:
// roles embed their permission-name grants, permissions hold the
// registered catalog, and users hold the projection references. Role ids
// are stored as canonical UUID strings.
type Mongo struct {
	roles *mongo.Collection
	perms *mongo.Collection
	users *mongo.Collection
}

// MongoOption configures the Mongo store.
type MongoOption func(*mongoConfig)

type mongoConfig struct {
	prefix string
}

// WithCollectionPrefix overrides the collection name prefix.
func WithCollectionPrefix(prefix string) MongoOption {
	return func(cfg *mongoConfig) {
		if prefix != "" {
			cfg.prefix = prefix
		}
	}
}

// NewMongo creates a Mongo store over an existing database handle.
func NewMongo(db *mongo.Database, opts ...MongoOption) *Mongo {
	cfg := mongoConfig{prefix: DefaultTablePrefix}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Mongo{
		roles: db.Collection(cfg.prefix + "roles"),
		perms: db.Collection(cfg.prefix + "permissions"),
		users: db.Collection(cfg.prefix + "users"),
	}
}

type mongoRole struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Super       bool      `bson:"is_super"`
	Active      bool      `bson:"is_active"`
	Permissions []string  `bson:"permissions,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d mongoRole) toRole() (Role, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Role{}, fmt.Errorf("rolestore: role id %q: %w", d.ID, err)
	}
	return Role{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Super:       d.Super,
		Active:      d.Active,
		Permissions: d.Permissions,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type mongoPermission struct {
	Name        string `bson:"_id"`
	Resource    string `bson:"resource"`
	Action      string `bson:"action"`
	Description string `bson:"description,omitempty"`
}

type mongoUser struct {
	ID     string `bson:"_id"`
	Active bool   `bson:"is_active"`
	RoleID string `bson:"role_id,omitempty"`
}

// EnsureIndexes creates the unique role-name index and the reference
// index the delete guard scans. Idempotent, safe on every startup.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("rolestore: ensure role name index: %w", err)
	}

	_, err = m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("rolestore: ensure user role index: %w", err)
	}
	return nil
}

// CreateRole persists a new role with its grants embedded.
func (m *Mongo) CreateRole(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if err := role.Validate(); err != nil {
		return Role{}, err
	}
	if err := m.checkGrants(ctx, role.Permissions); err != nil {
		return Role{}, err
	}

	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	now := time.Now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now
	role.Permissions = normalizeGrants(role.Permissions)

	doc := mongoRole{
		ID:          role.ID.String(),
		Name:        role.Name,
		Description: role.Description,
		Super:       role.Super,
		Active:      role.Active,
		Permissions: role.Permissions,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
	if _, err := m.roles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Role{}, ErrDuplicateRole
		}
		return Role{}, fmt.Errorf("rolestore: create role: %w", err)
	}
	return role, nil
}

// GetRole retrieves a role by id.
func (m *Mongo) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	return m.findRole(ctx, bson.M{"_id": id.String()})
}

// GetRoleByName retrieves a role by its unique name.
func (m *Mongo) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return m.findRole(ctx, bson.M{"name": strings.TrimSpace(name)})
}

func (m *Mongo) findRole(ctx context.Context, filter bson.M) (Role, error) {
	var doc mongoRole
	if err := m.roles.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("rolestore: get role: %w", err)
	}
	return doc.toRole()
}

// ListRoles returns all roles ordered by name.
func (m *Mongo) ListRoles(ctx context.Context) ([]Role, error) {
	cursor, err := m.roles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("rolestore: list roles: %w", err)
	}

	var docs []mongoRole
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("rolestore: list roles: %w", err)
	}

	out := make([]Role, 0, len(docs))
	for _, doc := range docs {
		role, err := doc.toRole()
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, nil
}

// UpdateRole updates the role's metadata. Grants are left untouched.
func (m *Mongo) UpdateRole(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	role.Permissions = nil
	if err := role.Validate(); err != nil {
		return Role{}, err
	}

	update := bson.M{"$set": bson.M{
		"name":        role.Name,
		"description": role.Description,
		"is_super":    role.Super,
		"is_active":   role.Active,
		"updated_at":  time.Now().UTC(),
	}}
	res, err := m.roles.UpdateByID(ctx, role.ID.String(), update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Role{}, ErrDuplicateRole
		}
		return Role{}, fmt.Errorf("rolestore: update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return Role{}, ErrRoleNotFound
	}
	return m.GetRole(ctx, role.ID)
}

// DeleteRole removes a role no user references.
func (m *Mongo) DeleteRole(ctx context.Context, id uuid.UUID) error {
	refs, err := m.users.CountDocuments(ctx, bson.M{"role_id": id.String()})
	if err != nil {
		return fmt.Errorf("rolestore: delete role: %w", err)
	}
	if refs > 0 {
		return ErrRoleReferenced
	}

	res, err := m.roles.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("rolestore: delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// SetRolePermissions replaces the role's embedded grant set.
func (m *Mongo) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []string) error {
	permissions = normalizeGrants(permissions)
	if err := m.checkGrants(ctx, permissions); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"permissions": permissions,
		"updated_at":  time.Now().UTC(),
	}}
	res, err := m.roles.UpdateByID(ctx, roleID.String(), update)
	if err != nil {
		return fmt.Errorf("rolestore: set role permissions: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// SetRoleActive toggles the role's active flag.
func (m *Mongo) SetRoleActive(ctx context.Context, roleID uuid.UUID, active bool) error {
	update := bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}}
	res, err := m.roles.UpdateByID(ctx, roleID.String(), update)
	if err != nil {
		return fmt.Errorf("rolestore: set role active: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// EnsurePermission registers a permission or refreshes its metadata.
func (m *Mongo) EnsurePermission(ctx context.Context, perm catalog.Permission) error {
	if !catalog.ValidName(perm.Name) {
		return ErrUnknownPermission
	}

	update := bson.M{"$set": bson.M{
		"resource":    perm.Resource,
		"action":      perm.Action,
		"description": perm.Description,
	}}
	_, err := m.perms.UpdateByID(ctx, perm.Name, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("rolestore: ensure permission %s: %w", perm.Name, err)
	}
	return nil
}

// ListPermissions returns all registered permissions ordered by name.
func (m *Mongo) ListPermissions(ctx context.Context) ([]catalog.Permission, error) {
	cursor, err := m.perms.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("rolestore: list permissions: %w", err)
	}

	var docs []mongoPermission
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("rolestore: list permissions: %w", err)
	}

	out := make([]catalog.Permission, 0, len(docs))
	for _, doc := range docs {
		out = append(out, catalog.Permission{
			Name:        doc.Name,
			Resource:    doc.Resource,
			Action:      doc.Action,
			Description: doc.Description,
		})
	}
	return out, nil
}

// AssignRole points a user reference at a role, inserting the reference
// as an active user when it does not exist yet.
func (m *Mongo) AssignRole(ctx context.Context, userID string, roleID uuid.UUID) error {
	count, err := m.roles.CountDocuments(ctx, bson.M{"_id": roleID.String()})
	if err != nil {
		return fmt.Errorf("rolestore: assign role: %w", err)
	}
	if count == 0 {
		return ErrRoleNotFound
	}

	update := bson.M{
		"$set":         bson.M{"role_id": roleID.String()},
		"$setOnInsert": bson.M{"is_active": true},
	}
	_, err = m.users.UpdateByID(ctx, userID, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("rolestore: assign role: %w", err)
	}
	return nil
}

// UpsertUser installs or refreshes a user reference, including its active
// flag. It is the sync seam for applications that own user records in a
// separate collection.
func (m *Mongo) UpsertUser(ctx context.Context, ref UserRef) error {
	set := bson.M{"is_active": ref.Active}
	if ref.RoleID != uuid.Nil {
		set["role_id"] = ref.RoleID.String()
	}

	_, err := m.users.UpdateByID(ctx, ref.ID, bson.M{"$set": set}, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("rolestore: upsert user: %w", err)
	}
	return nil
}

// UserProjection composes the checker-facing view of a user. A missing
// or deactivated role projects as no role at all.
func (m *Mongo) UserProjection(ctx context.Context, userID string) (*authz.User, error) {
	var ref mongoUser
	if err := m.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&ref); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("rolestore: user projection: %w", err)
	}

	user := &authz.User{ID: ref.ID, Active: ref.Active}
	if ref.RoleID == "" {
		return user, nil
	}

	var doc mongoRole
	err := m.roles.FindOne(ctx, bson.M{"_id": ref.RoleID}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("rolestore: user projection: %w", err)
	}

	role, err := doc.toRole()
	if err != nil {
		return nil, err
	}
	if role.Active {
		user.Role = role.Projection()
	}
	return user, nil
}

func (m *Mongo) checkGrants(ctx context.Context, permissions []string) error {
	if len(permissions) == 0 {
		return nil
	}

	names := normalizeGrants(permissions)
	count, err := m.perms.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": names}})
	if err != nil {
		return fmt.Errorf("rolestore: check grants: %w", err)
	}
	if count != int64(len(names)) {
		return ErrUnknownPermission
	}
	return nil
}
