package authz

import (
	"context"
	"log/slog"
)

// checkerCtxKey is the context key for storing the request checker.
type checkerCtxKey struct{}

// WithChecker stores the checker in the context.
func WithChecker(ctx context.Context, c *Checker) context.Context {
	return context.WithValue(ctx, checkerCtxKey{}, c)
}

// FromContext retrieves the checker from the context.
func FromContext(ctx context.Context) (*Checker, bool) {
	c, ok := ctx.Value(checkerCtxKey{}).(*Checker)
	return c, ok && c != nil
}

// MustFromContext retrieves the checker from the context and panics when it
// is missing. Use it in handlers that are only reachable behind middleware
// that installs the checker; a panic there is a wiring mistake, not a
// runtime condition.
func MustFromContext(ctx context.Context) *Checker {
	c, ok := FromContext(ctx)
	if !ok {
		panic("authz: no checker in context")
	}
	return c
}

// LoggerExtractor returns a context extractor for logger integration that
// emits the current user's identity and role as a grouped attribute.
// Anonymous requests produce no attribute.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		c, ok := FromContext(ctx)
		if !ok || !c.Authenticated() {
			return slog.Attr{}, false
		}
		attrs := []slog.Attr{slog.String("user_id", c.UserID())}
		if role := c.RoleName(); role != "" {
			attrs = append(attrs, slog.String("role", role))
		}
		return slog.Attr{Key: "auth", Value: slog.GroupValue(attrs...)}, true
	}
}
