package guard

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/rolestore"
)

// ErrorHandler handles identity resolution and projection load failures.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	errorHandler ErrorHandler
	skipPaths    []string
	log          *slog.Logger
}

// Option configures the Middleware.
type Option func(*config)

// WithErrorHandler sets a custom handler for resolution and load failures.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass identity loading entirely.
// Handlers under them see no checker in the context.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = paths
	}
}

// WithLogger sets the logger for load failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// Middleware resolves the request identity, loads the user projection and
// injects a ready checker into the context. Every downstream handler and
// Require* guard reads that one checker, so the projection is loaded at
// most once per request.
//
// Anonymous requests, and identities the source no longer knows, proceed
// with an unauthenticated checker; guards decide what that may reach.
// Projection load failures stop the request through the error handler.
func Middleware(resolver IdentityResolver, source rolestore.ProjectionSource, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			userID, err := resolver.Resolve(r)
			if err != nil {
				cfg.log.ErrorContext(r.Context(), "identity resolution failed", slog.Any("error", err))
				cfg.errorHandler(w, r, err)
				return
			}

			var user *authz.User
			if userID != "" {
				user, err = source.UserProjection(r.Context(), userID)
				switch {
				case errors.Is(err, rolestore.ErrUserNotFound):
					// Stale or forged identity; treated as anonymous.
					user = nil
				case err != nil:
					cfg.log.ErrorContext(r.Context(), "user projection load failed",
						slog.String("user_id", userID), slog.Any("error", err))
					cfg.errorHandler(w, r, err)
					return
				}
			}

			ctx := authz.WithChecker(r.Context(), authz.NewChecker(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusInternalServerError, "internal error")
}
