package guard

import (
	"net/http"
	"strings"
)

// DefaultIdentityHeader is the header the HeaderResolver reads when no
// custom name is configured.
const DefaultIdentityHeader = "X-User-ID"

// IdentityResolver extracts the authenticated user id from a request.
// An empty id with a nil error means the request is anonymous; an error
// means resolution itself failed and the request must not proceed.
type IdentityResolver interface {
	Resolve(r *http.Request) (string, error)
}

// HeaderResolver reads the user id from a request header, typically set
// by an authenticating reverse proxy or a session layer in front of the
// application.
type HeaderResolver struct {
	header string
}

// NewHeaderResolver creates a resolver reading the given header.
// An empty name falls back to DefaultIdentityHeader.
func NewHeaderResolver(header string) *HeaderResolver {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return &HeaderResolver{header: header}
}

// Resolve returns the trimmed header value.
func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	return strings.TrimSpace(r.Header.Get(h.header)), nil
}

// FuncResolver adapts a function into an IdentityResolver. Use it to
// bridge an existing session manager:
//
//	guard.FuncResolver(func(r *http.Request) (string, error) {
//		sess, err := sessions.Get(r.Context(), r)
//		if err != nil {
//			return "", nil
//		}
//		return sess.UserID, nil
//	})
type FuncResolver func(r *http.Request) (string, error)

// Resolve calls the wrapped function.
func (f FuncResolver) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// CompositeResolver tries resolvers in order and returns the first
// non-empty id. Resolvers that fail are skipped; a request no resolver
// can identify is anonymous, not an error.
type CompositeResolver struct {
	resolvers []IdentityResolver
}

// NewCompositeResolver creates a resolver chain.
func NewCompositeResolver(resolvers ...IdentityResolver) *CompositeResolver {
	return &CompositeResolver{resolvers: resolvers}
}

// Resolve returns the first non-empty id the chain produces.
func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	for _, resolver := range c.resolvers {
		id, err := resolver.Resolve(r)
		if err == nil && id != "" {
			return id, nil
		}
	}
	return "", nil
}
