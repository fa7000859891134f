package guard_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/catalog"
	"github.com/dmitrymomot/accesskit/pkg/guard"
	"github.com/dmitrymomot/accesskit/pkg/rolestore"
)

// seedGuardStore provisions the projection fixture the guard tests share:
// an Admin, an Editor, a flagged superuser, a name-only superuser, a
// deactivated editor and a role-less user.
func seedGuardStore(t *testing.T) *rolestore.Memory {
	t.Helper()

	store := rolestore.NewMemory()
	ctx := context.Background()
	for _, perm := range []catalog.Permission{
		catalog.New("users", "read", ""),
		catalog.New("users", "update", ""),
		catalog.New("content", "read", ""),
		catalog.New("content", "create", ""),
	} {
		require.NoError(t, store.EnsurePermission(ctx, perm))
	}

	admin, err := store.CreateRole(ctx, rolestore.Role{
		Name:        "Admin",
		Active:      true,
		Permissions: []string{"users.read", "users.update", "content.read"},
	})
	require.NoError(t, err)
	editor, err := store.CreateRole(ctx, rolestore.Role{
		Name:        "Editor",
		Active:      true,
		Permissions: []string{"content.read", "content.create"},
	})
	require.NoError(t, err)
	root, err := store.CreateRole(ctx, rolestore.Role{
		Name:   "Root",
		Super:  true,
		Active: true,
	})
	require.NoError(t, err)
	named, err := store.CreateRole(ctx, rolestore.Role{
		Name:   authz.SuperAdminRole,
		Active: true,
	})
	require.NoError(t, err)

	store.PutUser(rolestore.UserRef{ID: "admin", Active: true, RoleID: admin.ID})
	store.PutUser(rolestore.UserRef{ID: "editor", Active: true, RoleID: editor.ID})
	store.PutUser(rolestore.UserRef{ID: "root", Active: true, RoleID: root.ID})
	store.PutUser(rolestore.UserRef{ID: "named-super", Active: true, RoleID: named.ID})
	store.PutUser(rolestore.UserRef{ID: "suspended", Active: false, RoleID: editor.ID})
	store.PutUser(rolestore.UserRef{ID: "norole", Active: true})

	return store
}

// get performs a request as the given user; empty user means anonymous.
func get(t *testing.T, handler http.Handler, path, user string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		r.Header.Set(guard.DefaultIdentityHeader, user)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

type failingSource struct{ err error }

func (s failingSource) UserProjection(context.Context, string) (*authz.User, error) {
	return nil, s.err
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("injects a checker for known users", func(t *testing.T) {
		t.Parallel()

		mw := guard.Middleware(guard.NewHeaderResolver(""), seedGuardStore(t))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := authz.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, "editor", c.UserID())
			assert.True(t, c.HasPermission("content.create"))
			assert.False(t, c.HasPermission("users.update"))
			w.WriteHeader(http.StatusOK)
		}))

		assert.Equal(t, http.StatusOK, get(t, handler, "/", "editor").Code)
	})

	t.Run("anonymous requests carry an unauthenticated checker", func(t *testing.T) {
		t.Parallel()

		mw := guard.Middleware(guard.NewHeaderResolver(""), seedGuardStore(t))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := authz.FromContext(r.Context())
			require.True(t, ok)
			assert.False(t, c.Authenticated())
			w.WriteHeader(http.StatusOK)
		}))

		assert.Equal(t, http.StatusOK, get(t, handler, "/", "").Code)
	})

	t.Run("unknown identity degrades to anonymous", func(t *testing.T) {
		t.Parallel()

		mw := guard.Middleware(guard.NewHeaderResolver(""), seedGuardStore(t))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := authz.FromContext(r.Context())
			require.True(t, ok)
			assert.False(t, c.Authenticated())
			w.WriteHeader(http.StatusOK)
		}))

		assert.Equal(t, http.StatusOK, get(t, handler, "/", "ghost").Code)
	})

	t.Run("projection failures answer 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := guard.Middleware(
			guard.NewHeaderResolver(""),
			failingSource{err: errors.New("connection refused")},
			guard.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		)
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		}))

		w := get(t, handler, "/", "editor")
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "internal error", body["error"])
		assert.Contains(t, buf.String(), "user projection load failed")
	})

	t.Run("custom error handler overrides the response", func(t *testing.T) {
		t.Parallel()

		mw := guard.Middleware(
			guard.NewHeaderResolver(""),
			failingSource{err: errors.New("connection refused")},
			guard.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
			guard.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				http.Error(w, "try again later", http.StatusServiceUnavailable)
			}),
		)
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		w := get(t, handler, "/", "editor")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("resolver failures stop the request", func(t *testing.T) {
		t.Parallel()

		resolver := guard.FuncResolver(func(*http.Request) (string, error) {
			return "", errors.New("malformed token")
		})
		mw := guard.Middleware(resolver, seedGuardStore(t),
			guard.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		}))

		assert.Equal(t, http.StatusInternalServerError, get(t, handler, "/", "").Code)
	})

	t.Run("skip paths bypass identity loading", func(t *testing.T) {
		t.Parallel()

		mw := guard.Middleware(guard.NewHeaderResolver(""), seedGuardStore(t),
			guard.WithSkipPaths("/health"))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := authz.FromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		assert.Equal(t, http.StatusOK, get(t, handler, "/health", "editor").Code)
	})
}
