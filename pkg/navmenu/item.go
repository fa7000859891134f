package navmenu

import (
	"github.com/dmitrymomot/accesskit/pkg/validator"
)

// MaxLevel is the deepest nesting the admin navigation supports.
// Enforced at write time; the filter trusts it and only caps traversal.
const MaxLevel = 3

// Item is a single navigation entry. Items form a tree through ParentID;
// an empty ParentID marks a root. Roles lists the role names allowed to
// see the item, and an empty list means any authenticated user may see it.
type Item struct {
	ID        string   `json:"id"`
	ParentID  string   `json:"parent_id,omitempty"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Level     int      `json:"level"`
	SortOrder int      `json:"sort_order"`
	Active    bool     `json:"is_active"`
	Roles     []string `json:"roles,omitempty"`
}

// Validate checks the write-time constraints the filter later trusts.
// Returns validator.ValidationErrors listing every violated field.
func (i Item) Validate() error {
	return validator.Apply(
		validator.Required("title", i.Title),
		validator.ValidSlug("slug", i.Slug),
		validator.BetweenNum("level", i.Level, 1, MaxLevel),
		validator.MinNum("sort_order", i.SortOrder, 0),
	)
}
