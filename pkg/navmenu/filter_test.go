package navmenu_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accesskit/pkg/navmenu"
)

// adminMenu builds the fixture tree used across filter tests:
//
//	dashboard            (unrestricted)
//	content              (unrestricted)
//	  posts              (unrestricted)
//	  pages              (Admin, Editor)
//	admin                (Admin)
//	  users              (unrestricted)
//	  settings           (Admin)
func adminMenu() []navmenu.Item {
	return []navmenu.Item{
		{ID: "1", Title: "Dashboard", Slug: "dashboard", Level: 1, SortOrder: 1, Active: true},
		{ID: "2", Title: "Content", Slug: "content", Level: 1, SortOrder: 2, Active: true},
		{ID: "3", ParentID: "2", Title: "Posts", Slug: "posts", Level: 2, SortOrder: 1, Active: true},
		{ID: "4", ParentID: "2", Title: "Pages", Slug: "pages", Level: 2, SortOrder: 2, Active: true, Roles: []string{"Admin", "Editor"}},
		{ID: "5", Title: "Administration", Slug: "administration", Level: 1, SortOrder: 3, Active: true, Roles: []string{"Admin"}},
		{ID: "6", ParentID: "5", Title: "Users", Slug: "users", Level: 2, SortOrder: 1, Active: true},
		{ID: "7", ParentID: "5", Title: "Settings", Slug: "settings", Level: 2, SortOrder: 2, Active: true, Roles: []string{"Admin"}},
	}
}

func slugs(nodes []*navmenu.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, item := range navmenu.Flatten(nodes) {
		out = append(out, item.Slug)
	}
	return out
}

func TestFilterVisible_RoleGrants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role string
		want []string
	}{
		{"Admin", []string{"dashboard", "content", "posts", "pages", "administration", "users", "settings"}},
		{"Editor", []string{"dashboard", "content", "posts", "pages"}},
		{"Viewer", []string{"dashboard", "content", "posts"}},
		{"", []string{"dashboard", "content", "posts"}},
	}

	filter := navmenu.NewFilter()
	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, slugs(filter.Visible(adminMenu(), tt.role)))
		})
	}
}

func TestFilterVisible_PrunedParentHidesGrantedChildren(t *testing.T) {
	t.Parallel()

	// "users" is unrestricted, but lives under the Admin-only branch.
	nodes := navmenu.NewFilter().Visible(adminMenu(), "Editor")

	assert.NotContains(t, slugs(nodes), "users",
		"children of a hidden parent must not be promoted")
}

func TestFilterVisible_SiblingOrder(t *testing.T) {
	t.Parallel()

	items := []navmenu.Item{
		{ID: "1", Title: "Charlie", Slug: "charlie", Level: 1, SortOrder: 2, Active: true},
		{ID: "2", Title: "Alpha", Slug: "alpha", Level: 1, SortOrder: 1, Active: true},
		{ID: "3", Title: "Bravo", Slug: "bravo", Level: 1, SortOrder: 2, Active: true},
	}

	nodes := navmenu.NewFilter().Visible(items, "Viewer")

	// SortOrder ascending; equal orders fall back to title.
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, slugs(nodes))
}

func TestFilterVisible_InactiveItems(t *testing.T) {
	t.Parallel()

	items := []navmenu.Item{
		{ID: "1", Title: "Live", Slug: "live", Level: 1, SortOrder: 1, Active: true},
		{ID: "2", Title: "Draft", Slug: "draft", Level: 1, SortOrder: 2, Active: false},
		{ID: "3", ParentID: "2", Title: "Nested", Slug: "nested", Level: 2, SortOrder: 1, Active: true},
	}

	t.Run("hidden by default", func(t *testing.T) {
		t.Parallel()
		nodes := navmenu.NewFilter().Visible(items, "Admin")
		assert.Equal(t, []string{"live"}, slugs(nodes), "inactive subtree prunes like a denied one")
	})

	t.Run("kept with WithIncludeInactive", func(t *testing.T) {
		t.Parallel()
		nodes := navmenu.NewFilter(navmenu.WithIncludeInactive()).Visible(items, "Admin")
		assert.Equal(t, []string{"live", "draft", "nested"}, slugs(nodes))
	})
}

func TestFilterVisible_CycleDefense(t *testing.T) {
	t.Parallel()

	t.Run("self reference", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		items := []navmenu.Item{
			{ID: "1", Title: "Root", Slug: "root", Level: 1, SortOrder: 1, Active: true},
			{ID: "2", ParentID: "2", Title: "Loop", Slug: "loop", Level: 2, SortOrder: 1, Active: true},
		}

		nodes := navmenu.NewFilter(navmenu.WithLogger(logger)).Visible(items, "Admin")

		assert.Equal(t, []string{"root"}, slugs(nodes))
	})

	t.Run("two-node loop never renders or hangs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		items := []navmenu.Item{
			{ID: "1", Title: "Root", Slug: "root", Level: 1, SortOrder: 1, Active: true},
			{ID: "2", ParentID: "3", Title: "Ping", Slug: "ping", Level: 2, SortOrder: 1, Active: true},
			{ID: "3", ParentID: "2", Title: "Pong", Slug: "pong", Level: 2, SortOrder: 2, Active: true},
		}

		nodes := navmenu.NewFilter(navmenu.WithLogger(logger)).Visible(items, "Admin")

		assert.Equal(t, []string{"root"}, slugs(nodes))
	})

	t.Run("duplicate id keeps first occurrence", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		items := []navmenu.Item{
			{ID: "1", Title: "Root", Slug: "root", Level: 1, SortOrder: 1, Active: true},
			{ID: "2", ParentID: "1", Title: "Child", Slug: "child", Level: 2, SortOrder: 1, Active: true},
			{ID: "1", ParentID: "2", Title: "Back", Slug: "back", Level: 3, SortOrder: 1, Active: true},
		}

		nodes := navmenu.NewFilter(navmenu.WithLogger(logger)).Visible(items, "Admin")

		assert.Equal(t, []string{"root", "child"}, slugs(nodes))
		assert.Contains(t, buf.String(), "duplicate menu item id")
	})
}

func TestFilterVisible_MissingParent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	items := []navmenu.Item{
		{ID: "1", Title: "Root", Slug: "root", Level: 1, SortOrder: 1, Active: true},
		{ID: "2", ParentID: "missing", Title: "Orphan", Slug: "orphan", Level: 2, SortOrder: 1, Active: true},
	}

	nodes := navmenu.NewFilter(navmenu.WithLogger(logger)).Visible(items, "Admin")

	assert.Equal(t, []string{"root"}, slugs(nodes), "orphans are dropped, not promoted to roots")
	assert.Contains(t, buf.String(), "missing parent")
}

func TestFilterVisible_DepthCap(t *testing.T) {
	t.Parallel()

	items := []navmenu.Item{
		{ID: "1", Title: "L1", Slug: "l1", Level: 1, SortOrder: 1, Active: true},
		{ID: "2", ParentID: "1", Title: "L2", Slug: "l2", Level: 2, SortOrder: 1, Active: true},
		{ID: "3", ParentID: "2", Title: "L3", Slug: "l3", Level: 3, SortOrder: 1, Active: true},
		{ID: "4", ParentID: "3", Title: "L4", Slug: "l4", Level: 4, SortOrder: 1, Active: true},
	}

	t.Run("default caps at three levels", func(t *testing.T) {
		t.Parallel()
		nodes := navmenu.NewFilter().Visible(items, "Admin")
		assert.Equal(t, []string{"l1", "l2", "l3"}, slugs(nodes))
	})

	t.Run("custom cap", func(t *testing.T) {
		t.Parallel()
		nodes := navmenu.NewFilter(navmenu.WithMaxDepth(2)).Visible(items, "Admin")
		assert.Equal(t, []string{"l1", "l2"}, slugs(nodes))
	})
}

func TestFilterVisible_EmptyInput(t *testing.T) {
	t.Parallel()

	filter := navmenu.NewFilter()

	assert.Empty(t, filter.Visible(nil, "Admin"))
	assert.Empty(t, filter.Visible([]navmenu.Item{}, "Admin"))
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	nodes := navmenu.NewFilter().Visible(adminMenu(), "Admin")

	flat := navmenu.Flatten(nodes)
	require.Len(t, flat, 7)
	assert.Equal(t, "dashboard", flat[0].Slug)
	assert.Equal(t, "content", flat[1].Slug)
	assert.Equal(t, "posts", flat[2].Slug, "children follow their parent in traversal order")

	assert.Empty(t, navmenu.Flatten(nil))
}

func TestFilterVisible_TreeShape(t *testing.T) {
	t.Parallel()

	nodes := navmenu.NewFilter().Visible(adminMenu(), "Admin")

	require.Len(t, nodes, 3)
	content := nodes[1]
	require.Equal(t, "content", content.Item.Slug)
	require.Len(t, content.Children, 2)
	assert.Equal(t, "posts", content.Children[0].Item.Slug)
	assert.Equal(t, "pages", content.Children[1].Item.Slug)
}
