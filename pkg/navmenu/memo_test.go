package navmenu_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accesskit/pkg/navmenu"
)

func TestMemoVisible_Caches(t *testing.T) {
	t.Parallel()

	memo := navmenu.NewMemo(navmenu.NewFilter())
	memo.SetItems(adminMenu())

	first := memo.Visible("Editor")
	second := memo.Visible("Editor")

	require.NotEmpty(t, first)
	assert.Same(t, first[0], second[0], "repeat lookups serve the cached tree")

	other := memo.Visible("Admin")
	assert.NotEqual(t, slugs(first), slugs(other), "roles are cached independently")
}

func TestMemoSetItems_DropsCache(t *testing.T) {
	t.Parallel()

	memo := navmenu.NewMemo(navmenu.NewFilter())
	memo.SetItems(adminMenu())

	before := memo.Visible("Admin")
	require.Len(t, navmenu.Flatten(before), 7)

	memo.SetItems([]navmenu.Item{
		{ID: "1", Title: "Dashboard", Slug: "dashboard", Level: 1, SortOrder: 1, Active: true},
	})

	after := memo.Visible("Admin")
	assert.Equal(t, []string{"dashboard"}, slugs(after))
}

func TestMemoInvalidate(t *testing.T) {
	t.Parallel()

	memo := navmenu.NewMemo(navmenu.NewFilter())
	memo.SetItems(adminMenu())

	editor := memo.Visible("Editor")
	admin := memo.Visible("Admin")

	memo.Invalidate("Editor")

	assert.NotSame(t, editor[0], memo.Visible("Editor")[0], "invalidated role is recomputed")
	assert.Same(t, admin[0], memo.Visible("Admin")[0], "other roles keep their cached tree")

	memo.InvalidateAll()
	assert.NotSame(t, admin[0], memo.Visible("Admin")[0])
}

func TestMemoTTL_Recomputes(t *testing.T) {
	t.Parallel()

	memo := navmenu.NewMemo(navmenu.NewFilter(), navmenu.WithTTL(10*time.Millisecond))
	memo.SetItems(adminMenu())

	first := memo.Visible("Editor")
	time.Sleep(20 * time.Millisecond)
	second := memo.Visible("Editor")

	assert.NotSame(t, first[0], second[0], "expired entry is rebuilt")
	assert.Equal(t, slugs(first), slugs(second))
}

func TestMemoNilFilter(t *testing.T) {
	t.Parallel()

	memo := navmenu.NewMemo(nil)
	memo.SetItems(adminMenu())

	assert.Equal(t, []string{"dashboard", "content", "posts"}, slugs(memo.Visible("Viewer")))
}

func TestMemoEmptyItems(t *testing.T) {
	t.Parallel()

	memo := navmenu.NewMemo(navmenu.NewFilter())

	assert.Empty(t, memo.Visible("Admin"), "no items yields an empty tree, not a panic")
}
