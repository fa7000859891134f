package roletemplate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/accesskit/pkg/catalog"
)

// SelectorSuffix marks a rule entry as a resource group selector.
// "content.*" covers every content.X permission the catalog holds at
// resolution time. Selectors exist only in templates; resolved sets contain
// exact permission names, so request-time evaluation stays exact-match.
const SelectorSuffix = ".*"

// Rules describes one role template as named allow/deny rules.
// Allow entries are exact permission names or resource group selectors;
// Deny entries use the same grammar and are subtracted after all allows.
// AllowAll starts from the entire catalog before Deny applies.
type Rules struct {
	Description string
	AllowAll    bool
	Allow       []string
	Deny        []string
}

func (r Rules) clone() Rules {
	r.Allow = slices.Clone(r.Allow)
	r.Deny = slices.Clone(r.Deny)
	return r
}

// Resolver resolves role template names into concrete permission sets.
// It is a pure function of the catalog and the rule table it was built from:
// no persisted state, no I/O. Intended for provisioning and seeding, never
// for request-time authorization.
type Resolver struct {
	templates map[string]Rules
	resolved  map[string][]string
	order     []string
}

// NewResolver validates the rule table against the catalog and precomputes
// every template's permission set. Unknown permission names or selector
// resources in any rule fail construction: a template referencing grants the
// catalog does not define is a programming mistake, not a runtime condition.
func NewResolver(cat *catalog.Catalog, templates map[string]Rules) (*Resolver, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	r := &Resolver{
		templates: make(map[string]Rules, len(templates)),
		resolved:  make(map[string][]string, len(templates)),
	}

	for name, rules := range templates {
		if strings.TrimSpace(name) == "" {
			return nil, ErrEmptyTemplateName
		}

		grants := make(map[string]struct{})
		if rules.AllowAll {
			for _, n := range cat.Names() {
				grants[n] = struct{}{}
			}
		}
		for _, entry := range rules.Allow {
			names, err := expandEntry(cat, entry)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", name, err)
			}
			for _, n := range names {
				grants[n] = struct{}{}
			}
		}
		for _, entry := range rules.Deny {
			names, err := expandEntry(cat, entry)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", name, err)
			}
			for _, n := range names {
				delete(grants, n)
			}
		}

		set := make([]string, 0, len(grants))
		for n := range grants {
			set = append(set, n)
		}
		slices.Sort(set)

		r.templates[name] = rules.clone()
		r.resolved[name] = set
	}

	// Privilege order: larger resolved sets first, names break ties so the
	// order is deterministic.
	r.order = make([]string, 0, len(r.resolved))
	for name := range r.resolved {
		r.order = append(r.order, name)
	}
	slices.SortFunc(r.order, func(a, b string) int {
		if d := len(r.resolved[b]) - len(r.resolved[a]); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	return r, nil
}

// Permissions returns the resolved permission set of a template, sorted and
// deduplicated. Unknown template names yield an empty set, not an error.
// The returned slice is a copy and safe to modify.
func (r *Resolver) Permissions(roleName string) []string {
	return slices.Clone(r.resolved[roleName])
}

// Templates returns the template names ordered by privilege, most to least.
func (r *Resolver) Templates() []string {
	return slices.Clone(r.order)
}

// Template returns a copy of the named template's rules and whether it exists.
func (r *Resolver) Template(roleName string) (Rules, bool) {
	rules, ok := r.templates[roleName]
	if !ok {
		return Rules{}, false
	}
	return rules.clone(), true
}

// expandEntry resolves one rule entry into catalog permission names: a group
// selector expands to its resource's permissions, everything else must be an
// exact catalog member.
func expandEntry(cat *catalog.Catalog, entry string) ([]string, error) {
	if resource, ok := strings.CutSuffix(entry, SelectorSuffix); ok {
		perms := cat.ByResource(resource)
		if len(perms) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
		}
		names := make([]string, len(perms))
		for i, p := range perms {
			names[i] = p.Name
		}
		return names, nil
	}
	if !cat.Has(entry) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPermission, entry)
	}
	return []string{entry}, nil
}
