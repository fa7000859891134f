// Package cache provides a generic, thread-safe LRU (Least Recently Used)
// cache with optional per-entry TTL, for keeping hot access-control data
// in memory without unbounded growth.
//
// The cache evicts the least recently used items when it reaches its
// configured capacity. Entries stored with a TTL additionally expire on
// their own; expiry is checked lazily on access, so no background
// goroutine is involved.
//
// # Key Features
//
//   - Generic implementation supporting any comparable key type and any value type
//   - Thread-safe operations with mutex-based synchronization
//   - Automatic LRU eviction when capacity is exceeded
//   - Optional per-entry TTL with lazy expiry
//   - Optional eviction callbacks for resource cleanup
//   - O(1) operations for Get, Put, and Remove
//
// # Usage
//
// Create a cache with a specified capacity:
//
//	projections := cache.NewLRUCache[string, *authz.User](1024)
//
// Basic operations:
//
//	// Add items to cache
//	projections.Put("user:123", user)
//
//	// Add items that expire on their own
//	projections.PutTTL("user:456", user, 30*time.Second)
//
//	// Retrieve items (marks as recently used)
//	user, found := projections.Get("user:123")
//	if found {
//		// Use user
//	}
//
//	// Remove specific items
//	removed, existed := projections.Remove("user:123")
//
//	// Clear all items
//	projections.Clear()
//
// # TTL Semantics
//
// PutTTL stores an entry that is treated as absent once its deadline
// passes. Expired entries are removed when they are next touched by Get
// or counted by Len; until then they still occupy a cache slot and may be
// evicted by capacity pressure like any other entry. A non-positive TTL
// stores the entry without an expiry, same as Put.
//
// # Resource Cleanup
//
// For values that need cleanup when they leave the cache, use eviction
// callbacks. The callback fires on capacity eviction, expiry removal,
// explicit Remove, and Clear:
//
//	c := cache.NewLRUCache[string, *sql.DB](10)
//	c.SetEvictCallback(func(key string, db *sql.DB) {
//		db.Close()
//	})
//
// # Thread Safety
//
// All operations are thread-safe and can be called concurrently from
// multiple goroutines.
//
// # Capacity Management
//
// When the cache reaches its capacity and a new item is added:
//
//  1. The least recently used item is identified
//  2. If an eviction callback is set, it's called with the item's key and value
//  3. The item is removed from the cache
//  4. The new item is added
//
// Items are considered "recently used" when they are:
//   - Retrieved with Get()
//   - Added or updated with Put() or PutTTL()
package cache
