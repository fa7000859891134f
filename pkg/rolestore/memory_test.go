package rolestore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accesskit/pkg/catalog"
	"github.com/dmitrymomot/accesskit/pkg/rolestore"
	"github.com/dmitrymomot/accesskit/pkg/validator"
)

func seedMemory(t *testing.T) *rolestore.Memory {
	t.Helper()

	store := rolestore.NewMemory()
	ctx := context.Background()
	for _, perm := range []catalog.Permission{
		catalog.New("users", "read", "View user accounts"),
		catalog.New("users", "update", "Edit user accounts"),
		catalog.New("content", "read", "View content"),
		catalog.New("content", "create", "Create content"),
	} {
		require.NoError(t, store.EnsurePermission(ctx, perm))
	}
	return store
}

func TestMemory_CreateRole(t *testing.T) {
	t.Parallel()

	t.Run("assigns identity and timestamps", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		role, err := store.CreateRole(context.Background(), rolestore.Role{
			Name:        "Editor",
			Description: "Content editors",
			Active:      true,
			Permissions: []string{"content.create", "content.read"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, role.ID)
		assert.False(t, role.CreatedAt.IsZero())
		assert.Equal(t, role.CreatedAt, role.UpdatedAt)
	})

	t.Run("normalizes grants", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		role, err := store.CreateRole(context.Background(), rolestore.Role{
			Name:        "Editor",
			Active:      true,
			Permissions: []string{"users.read", "content.read", "users.read"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"content.read", "users.read"}, role.Permissions)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		ctx := context.Background()
		_, err := store.CreateRole(ctx, rolestore.Role{Name: "Editor", Active: true})
		require.NoError(t, err)

		_, err = store.CreateRole(ctx, rolestore.Role{Name: "Editor", Active: true})
		assert.ErrorIs(t, err, rolestore.ErrDuplicateRole)
	})

	t.Run("rejects unregistered grant", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		_, err := store.CreateRole(context.Background(), rolestore.Role{
			Name:        "Editor",
			Active:      true,
			Permissions: []string{"billing.read"},
		})
		assert.ErrorIs(t, err, rolestore.ErrUnknownPermission)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		_, err := store.CreateRole(context.Background(), rolestore.Role{Name: "   "})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		_, err = store.CreateRole(context.Background(), rolestore.Role{
			Name:        "Editor",
			Permissions: []string{"not a permission"},
		})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
	})
}

func TestMemory_GetRole(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()
	created, err := store.CreateRole(ctx, rolestore.Role{
		Name:        "Viewer",
		Active:      true,
		Permissions: []string{"users.read"},
	})
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		got, err := store.GetRole(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, []string{"users.read"}, got.Permissions)
	})

	t.Run("by name", func(t *testing.T) {
		got, err := store.GetRoleByName(ctx, "Viewer")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetRole(ctx, uuid.New())
		assert.ErrorIs(t, err, rolestore.ErrRoleNotFound)

		_, err = store.GetRoleByName(ctx, "Ghost")
		assert.ErrorIs(t, err, rolestore.ErrRoleNotFound)
	})

	t.Run("returned role is a copy", func(t *testing.T) {
		got, err := store.GetRole(ctx, created.ID)
		require.NoError(t, err)
		got.Permissions[0] = "users.update"

		again, err := store.GetRole(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"users.read"}, again.Permissions)
	})
}

func TestMemory_ListRoles(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()
	for _, name := range []string{"Viewer", "Admin", "Editor"} {
		_, err := store.CreateRole(ctx, rolestore.Role{Name: name, Active: true})
		require.NoError(t, err)
	}

	roles, err := store.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "Admin", roles[0].Name)
	assert.Equal(t, "Editor", roles[1].Name)
	assert.Equal(t, "Viewer", roles[2].Name)
}

func TestMemory_UpdateRole(t *testing.T) {
	t.Parallel()

	t.Run("updates metadata, keeps grants", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		ctx := context.Background()
		created, err := store.CreateRole(ctx, rolestore.Role{
			Name:        "Editor",
			Active:      true,
			Permissions: []string{"content.read"},
		})
		require.NoError(t, err)

		created.Name = "Content Editor"
		created.Description = "Renamed"
		created.Permissions = []string{"users.update"}
		updated, err := store.UpdateRole(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, "Content Editor", updated.Name)
		assert.Equal(t, "Renamed", updated.Description)
		assert.Equal(t, []string{"content.read"}, updated.Permissions)

		// The old name is free again after the rename.
		_, err = store.CreateRole(ctx, rolestore.Role{Name: "Editor", Active: true})
		require.NoError(t, err)
	})

	t.Run("rejects rename onto taken name", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		ctx := context.Background()
		_, err := store.CreateRole(ctx, rolestore.Role{Name: "Admin", Active: true})
		require.NoError(t, err)
		editor, err := store.CreateRole(ctx, rolestore.Role{Name: "Editor", Active: true})
		require.NoError(t, err)

		editor.Name = "Admin"
		_, err = store.UpdateRole(ctx, editor)
		assert.ErrorIs(t, err, rolestore.ErrDuplicateRole)
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()

		store := seedMemory(t)
		_, err := store.UpdateRole(context.Background(), rolestore.Role{ID: uuid.New(), Name: "Ghost"})
		assert.ErrorIs(t, err, rolestore.ErrRoleNotFound)
	})
}

func TestMemory_DeleteRole(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()
	editor, err := store.CreateRole(ctx, rolestore.Role{Name: "Editor", Active: true})
	require.NoError(t, err)
	viewer, err := store.CreateRole(ctx, rolestore.Role{Name: "Viewer", Active: true})
	require.NoError(t, err)
	require.NoError(t, store.AssignRole(ctx, "u1", editor.ID))

	t.Run("blocked while referenced", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteRole(ctx, editor.ID), rolestore.ErrRoleReferenced)
	})

	t.Run("allowed once users moved off", func(t *testing.T) {
		require.NoError(t, store.AssignRole(ctx, "u1", viewer.ID))
		require.NoError(t, store.DeleteRole(ctx, editor.ID))

		_, err := store.GetRole(ctx, editor.ID)
		assert.ErrorIs(t, err, rolestore.ErrRoleNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteRole(ctx, uuid.New()), rolestore.ErrRoleNotFound)
	})
}

func TestMemory_SetRolePermissions(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()
	role, err := store.CreateRole(ctx, rolestore.Role{
		Name:        "Editor",
		Active:      true,
		Permissions: []string{"content.read"},
	})
	require.NoError(t, err)

	t.Run("replaces the grant set", func(t *testing.T) {
		require.NoError(t, store.SetRolePermissions(ctx, role.ID, []string{"users.update", "users.read"}))

		got, err := store.GetRole(ctx, role.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"users.read", "users.update"}, got.Permissions)
	})

	t.Run("clears with empty set", func(t *testing.T) {
		require.NoError(t, store.SetRolePermissions(ctx, role.ID, nil))

		got, err := store.GetRole(ctx, role.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Permissions)
	})

	t.Run("rejects unregistered grant", func(t *testing.T) {
		err := store.SetRolePermissions(ctx, role.ID, []string{"billing.read"})
		assert.ErrorIs(t, err, rolestore.ErrUnknownPermission)
	})

	t.Run("unknown role", func(t *testing.T) {
		err := store.SetRolePermissions(ctx, uuid.New(), []string{"users.read"})
		assert.ErrorIs(t, err, rolestore.ErrRoleNotFound)
	})
}

func TestMemory_SetRoleActive(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()
	role, err := store.CreateRole(ctx, rolestore.Role{Name: "Editor", Active: true})
	require.NoError(t, err)

	require.NoError(t, store.SetRoleActive(ctx, role.ID, false))
	got, err := store.GetRole(ctx, role.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, store.SetRoleActive(ctx, uuid.New(), true), rolestore.ErrRoleNotFound)
}

func TestMemory_Permissions(t *testing.T) {
	t.Parallel()

	store := rolestore.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.EnsurePermission(ctx, catalog.New("users", "read", "")))
	require.NoError(t, store.EnsurePermission(ctx, catalog.New("content", "read", "View content")))

	// Upsert refreshes the description.
	require.NoError(t, store.EnsurePermission(ctx, catalog.New("users", "read", "View user accounts")))

	perms, err := store.ListPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, "content.read", perms[0].Name)
	assert.Equal(t, "users.read", perms[1].Name)
	assert.Equal(t, "View user accounts", perms[1].Description)

	err = store.EnsurePermission(ctx, catalog.Permission{Name: "not a permission"})
	assert.ErrorIs(t, err, rolestore.ErrUnknownPermission)
}

func TestMemory_AssignRole(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()
	editor, err := store.CreateRole(ctx, rolestore.Role{Name: "Editor", Active: true})
	require.NoError(t, err)
	viewer, err := store.CreateRole(ctx, rolestore.Role{Name: "Viewer", Active: true})
	require.NoError(t, err)

	t.Run("creates active reference for new user", func(t *testing.T) {
		require.NoError(t, store.AssignRole(ctx, "u1", editor.ID))

		user, err := store.UserProjection(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, user.Active)
		require.NotNil(t, user.Role)
		assert.Equal(t, "Editor", user.Role.Name)
	})

	t.Run("keeps activity flag on reassignment", func(t *testing.T) {
		store.PutUser(rolestore.UserRef{ID: "u2", Active: false, RoleID: editor.ID})
		require.NoError(t, store.AssignRole(ctx, "u2", viewer.ID))

		user, err := store.UserProjection(ctx, "u2")
		require.NoError(t, err)
		assert.False(t, user.Active)
		require.NotNil(t, user.Role)
		assert.Equal(t, "Viewer", user.Role.Name)
	})

	t.Run("unknown role", func(t *testing.T) {
		assert.ErrorIs(t, store.AssignRole(ctx, "u3", uuid.New()), rolestore.ErrRoleNotFound)
	})
}

func TestMemory_UserProjection(t *testing.T) {
	t.Parallel()

	store := seedMemory(t)
	ctx := context.Background()
	editor, err := store.CreateRole(ctx, rolestore.Role{
		Name:        "Editor",
		Active:      true,
		Permissions: []string{"content.create", "content.read"},
	})
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.UserProjection(ctx, "ghost")
		assert.ErrorIs(t, err, rolestore.ErrUserNotFound)
	})

	t.Run("active user with active role", func(t *testing.T) {
		store.PutUser(rolestore.UserRef{ID: "u1", Active: true, RoleID: editor.ID})

		user, err := store.UserProjection(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.True(t, user.Active)
		require.NotNil(t, user.Role)
		assert.Equal(t, []string{"content.create", "content.read"}, user.Role.Permissions)
	})

	t.Run("inactive user keeps role identity", func(t *testing.T) {
		store.PutUser(rolestore.UserRef{ID: "u2", Active: false, RoleID: editor.ID})

		user, err := store.UserProjection(ctx, "u2")
		require.NoError(t, err)
		assert.False(t, user.Active)
		require.NotNil(t, user.Role)
		assert.Equal(t, "Editor", user.Role.Name)
	})

	t.Run("deactivated role projects as no role", func(t *testing.T) {
		disabled, err := store.CreateRole(ctx, rolestore.Role{Name: "Legacy", Active: true})
		require.NoError(t, err)
		store.PutUser(rolestore.UserRef{ID: "u3", Active: true, RoleID: disabled.ID})
		require.NoError(t, store.SetRoleActive(ctx, disabled.ID, false))

		user, err := store.UserProjection(ctx, "u3")
		require.NoError(t, err)
		assert.Nil(t, user.Role)
	})

	t.Run("user without role", func(t *testing.T) {
		store.PutUser(rolestore.UserRef{ID: "u4", Active: true})

		user, err := store.UserProjection(ctx, "u4")
		require.NoError(t, err)
		assert.Nil(t, user.Role)
	})

	t.Run("projection is a copy", func(t *testing.T) {
		store.PutUser(rolestore.UserRef{ID: "u5", Active: true, RoleID: editor.ID})

		first, err := store.UserProjection(ctx, "u5")
		require.NoError(t, err)
		first.Role.Permissions[0] = "users.update"

		second, err := store.UserProjection(ctx, "u5")
		require.NoError(t, err)
		assert.Equal(t, "content.create", second.Role.Permissions[0])
	})
}
