package navmenu

import (
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/accesskit/pkg/cache"
)

// Memo caches filtered menu trees per role on top of a Filter. Navigation
// renders on every page load while menus and role grants change rarely,
// so the same pruned tree is served until the items are replaced or the
// entry expires.
//
// Returned trees are shared between callers and must be treated as
// read-only.
type Memo struct {
	filter *Filter
	cache  *cache.LRUCache[string, []*Node]
	ttl    time.Duration

	mu    sync.RWMutex
	items []Item
}

// MemoOption configures a Memo.
type MemoOption func(*Memo)

// WithCapacity sets how many role entries the memo keeps. Defaults to 128.
func WithCapacity(n int) MemoOption {
	return func(m *Memo) {
		if n > 0 {
			m.cache = cache.NewLRUCache[string, []*Node](n)
		}
	}
}

// WithTTL bounds how long a cached tree is served before it is rebuilt.
// Zero (the default) keeps entries until the items change.
func WithTTL(ttl time.Duration) MemoOption {
	return func(m *Memo) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewMemo creates a memoizing wrapper around filter. A nil filter gets
// the default Filter configuration.
func NewMemo(filter *Filter, opts ...MemoOption) *Memo {
	if filter == nil {
		filter = NewFilter()
	}
	m := &Memo{
		filter: filter,
		cache:  cache.NewLRUCache[string, []*Node](128),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetItems replaces the menu items and drops every cached tree.
func (m *Memo) SetItems(items []Item) {
	m.mu.Lock()
	m.items = slices.Clone(items)
	m.mu.Unlock()
	m.cache.Clear()
}

// Visible returns the pruned tree for role, computing it on first use.
func (m *Memo) Visible(role string) []*Node {
	if nodes, ok := m.cache.Get(role); ok {
		return nodes
	}

	m.mu.RLock()
	items := m.items
	m.mu.RUnlock()

	nodes := m.filter.Visible(items, role)
	m.cache.PutTTL(role, nodes, m.ttl)
	return nodes
}

// Invalidate drops the cached tree for a single role.
func (m *Memo) Invalidate(role string) {
	m.cache.Remove(role)
}

// InvalidateAll drops every cached tree, keeping the items.
func (m *Memo) InvalidateAll() {
	m.cache.Clear()
}
