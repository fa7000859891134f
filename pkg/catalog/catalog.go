package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Delimiter separates the resource and action segments of a permission name.
const Delimiter = "."

// nameRe matches the resource.action grammar: two non-empty lowercase
// segments joined by a single dot.
var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*\.[a-z][a-z0-9_-]*$`)

// Permission is an atomic resource.action grant identifier with its metadata.
// Permissions are value types; once a catalog references one it is never
// mutated, only enumerated.
type Permission struct {
	Name        string `json:"name" yaml:"name"`
	Resource    string `json:"resource" yaml:"resource"`
	Action      string `json:"action" yaml:"action"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// New builds a Permission from its resource and action segments.
// The name is derived, never passed in, so the two representations
// cannot drift apart.
func New(resource, action, description string) Permission {
	return Permission{
		Name:        JoinName(resource, action),
		Resource:    resource,
		Action:      action,
		Description: description,
	}
}

// JoinName joins resource and action into a permission name.
func JoinName(resource, action string) string {
	return resource + Delimiter + action
}

// ParseName splits a permission name into its resource and action segments.
// Returns ErrInvalidName when the name does not follow the
// resource.action grammar.
func ParseName(name string) (resource, action string, err error) {
	if !ValidName(name) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	resource, action, _ = strings.Cut(name, Delimiter)
	return resource, action, nil
}

// ValidName reports whether name follows the resource.action grammar.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Catalog is an immutable enumeration of permission identifiers.
// It is built once at startup and shared freely: all accessors return
// copies, and nothing mutates internal state after construction.
type Catalog struct {
	perms      map[string]Permission
	names      []string
	resources  []string
	byResource map[string][]Permission
}

// NewCatalog builds a catalog from the given permissions.
// Construction fails fast on malformed names or duplicates: both are
// programmer errors, not runtime conditions.
func NewCatalog(perms ...Permission) (*Catalog, error) {
	c := &Catalog{
		perms:      make(map[string]Permission, len(perms)),
		names:      make([]string, 0, len(perms)),
		byResource: make(map[string][]Permission),
	}
	for _, p := range perms {
		if p.Name == "" && p.Resource != "" && p.Action != "" {
			p.Name = JoinName(p.Resource, p.Action)
		}
		if !ValidName(p.Name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, p.Name)
		}
		if p.Resource == "" || p.Action == "" {
			p.Resource, p.Action, _ = strings.Cut(p.Name, Delimiter)
		}
		if JoinName(p.Resource, p.Action) != p.Name {
			return nil, fmt.Errorf("%w: %q does not match resource %q action %q",
				ErrInvalidName, p.Name, p.Resource, p.Action)
		}
		if _, exists := c.perms[p.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePermission, p.Name)
		}
		c.perms[p.Name] = p
		c.names = append(c.names, p.Name)
		c.byResource[p.Resource] = append(c.byResource[p.Resource], p)
	}

	slices.Sort(c.names)
	c.resources = make([]string, 0, len(c.byResource))
	for r := range c.byResource {
		c.resources = append(c.resources, r)
	}
	slices.Sort(c.resources)
	for _, group := range c.byResource {
		slices.SortFunc(group, func(a, b Permission) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on error.
// Intended for code-defined catalogs where a failure is a compile-time
// mistake surfacing at startup.
func MustCatalog(perms ...Permission) *Catalog {
	c, err := NewCatalog(perms...)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Has reports whether the catalog contains the named permission.
func (c *Catalog) Has(name string) bool {
	_, ok := c.perms[name]
	return ok
}

// Get returns the named permission and whether it exists.
func (c *Catalog) Get(name string) (Permission, bool) {
	p, ok := c.perms[name]
	return p, ok
}

// Names returns all permission names sorted alphabetically.
// The returned slice is a copy and safe to modify.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Resources returns the distinct resource segments sorted alphabetically.
func (c *Catalog) Resources() []string {
	return slices.Clone(c.resources)
}

// ByResource returns all permissions of a resource sorted by name.
// Unknown resources yield an empty slice, not an error.
func (c *Catalog) ByResource(resource string) []Permission {
	return slices.Clone(c.byResource[resource])
}

// Len returns the number of permissions in the catalog.
func (c *Catalog) Len() int {
	return len(c.names)
}

// With returns a new catalog extended by the given permissions.
// The receiver is left untouched; duplicates against existing entries fail.
func (c *Catalog) With(perms ...Permission) (*Catalog, error) {
	all := make([]Permission, 0, len(c.names)+len(perms))
	for _, name := range c.names {
		all = append(all, c.perms[name])
	}
	all = append(all, perms...)
	return NewCatalog(all...)
}
