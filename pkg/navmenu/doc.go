// Package navmenu filters a role-gated navigation tree down to the items
// the current user may see.
//
// Menu items form a tree through parent references. Each item carries a
// list of role names allowed to see it; an empty list means any
// authenticated user. Visibility is decided per item, and hiding an item
// hides its whole subtree: children of a hidden parent are never
// promoted, even when their own grants would pass.
//
// The filter is a read path: items are materialized by the surrounding
// CRUD layer, which also enforces write-time constraints (unique slugs,
// maximum nesting depth, no cycles). The filter trusts those constraints
// but carries a second line of defense: a visited check stops a cycle
// that slipped into the data from looping the render, and items pointing
// at a missing parent are dropped with a logged warning instead of
// panicking.
//
// Basic usage:
//
//	filter := navmenu.NewFilter()
//	nodes := filter.Visible(items, "Editor")
//	for _, node := range nodes {
//	    render(node.Item, node.Children)
//	}
//
// Inactive items are hidden by default; admin previews can keep them:
//
//	preview := navmenu.NewFilter(navmenu.WithIncludeInactive())
//
// Navigation renders on every page load, so Memo caches the pruned tree
// per role until the items change:
//
//	menu := navmenu.NewMemo(filter, navmenu.WithTTL(time.Minute))
//	menu.SetItems(items)
//	nodes := menu.Visible("Editor")
package navmenu
