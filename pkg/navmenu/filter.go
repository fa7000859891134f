package navmenu

import (
	"cmp"
	"log/slog"
	"slices"
)

// Node is a visible menu item together with its visible children.
// Trees returned by Filter.Visible are freshly built and safe to walk,
// but share no structure with the input items beyond copied values.
type Node struct {
	Item     Item    `json:"item"`
	Children []*Node `json:"children,omitempty"`
}

// Filter prunes a menu tree down to the items a given role may see.
// It is stateless and safe for concurrent use; each Visible call builds
// its index from scratch over the items it is handed.
type Filter struct {
	logger          *slog.Logger
	includeInactive bool
	maxDepth        int
}

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the logger used to flag malformed trees.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithIncludeInactive keeps inactive items in the result. Useful for
// admin previews; by default inactive items prune like denied ones.
func WithIncludeInactive() Option {
	return func(f *Filter) {
		f.includeInactive = true
	}
}

// WithMaxDepth caps how deep Visible descends. Levels beyond the cap are
// not visited. Defaults to MaxLevel.
func WithMaxDepth(depth int) Option {
	return func(f *Filter) {
		if depth > 0 {
			f.maxDepth = depth
		}
	}
}

// NewFilter creates a menu visibility filter.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		logger:   slog.Default(),
		maxDepth: MaxLevel,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Visible returns the subtrees of items the given role may see, preserving
// tree shape and sibling order. Per item: visible when its role-grant list
// is empty or contains role. Pruning an item prunes its whole subtree;
// children of a hidden parent are never promoted.
//
// Malformed input never panics or loops: items referencing a missing
// parent are dropped, and a revisited item (a cycle slipped past the
// write-time check) terminates descent for that branch. Both are logged.
func (f *Filter) Visible(items []Item, role string) []*Node {
	index := make(map[string]int, len(items))
	for i, item := range items {
		if prev, ok := index[item.ID]; ok {
			f.logger.Warn("duplicate menu item id, keeping first",
				slog.String("menu_id", item.ID),
				slog.String("slug", items[prev].Slug))
			continue
		}
		index[item.ID] = i
	}

	// parentID -> child indices, input order; sorted per group below.
	children := make(map[string][]int)
	var roots []int
	for i, item := range items {
		if index[item.ID] != i {
			continue // duplicate, already flagged
		}
		if item.ParentID == "" {
			roots = append(roots, i)
			continue
		}
		if _, ok := index[item.ParentID]; !ok {
			f.logger.Warn("menu item references missing parent, dropping",
				slog.String("menu_id", item.ID),
				slog.String("slug", item.Slug),
				slog.String("parent_id", item.ParentID))
			continue
		}
		children[item.ParentID] = append(children[item.ParentID], i)
	}

	byOrder := func(a, b int) int {
		if c := cmp.Compare(items[a].SortOrder, items[b].SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(items[a].Title, items[b].Title)
	}
	slices.SortStableFunc(roots, byOrder)
	for _, group := range children {
		slices.SortStableFunc(group, byOrder)
	}

	visited := make(map[int]struct{}, len(items))

	var walk func(idx, depth int) *Node
	walk = func(idx, depth int) *Node {
		if _, seen := visited[idx]; seen {
			f.logger.Warn("menu tree cycle detected, stopping descent",
				slog.String("menu_id", items[idx].ID),
				slog.String("slug", items[idx].Slug))
			return nil
		}
		visited[idx] = struct{}{}

		item := items[idx]
		if !f.itemVisible(item, role) {
			return nil
		}

		node := &Node{Item: item}
		if depth >= f.maxDepth {
			return node
		}
		for _, childIdx := range children[item.ID] {
			if child := walk(childIdx, depth+1); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	}

	var result []*Node
	for _, idx := range roots {
		if node := walk(idx, 1); node != nil {
			result = append(result, node)
		}
	}
	return result
}

func (f *Filter) itemVisible(item Item, role string) bool {
	if !item.Active && !f.includeInactive {
		return false
	}
	if len(item.Roles) == 0 {
		return true
	}
	return slices.Contains(item.Roles, role)
}

// Flatten returns the pruned tree back as a flat list in traversal order,
// for renderers that want rows rather than nesting.
func Flatten(nodes []*Node) []Item {
	var items []Item
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, node := range nodes {
			items = append(items, node.Item)
			walk(node.Children)
		}
	}
	walk(nodes)
	return items
}
