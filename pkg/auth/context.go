// Package auth provides app-key resolution, token signing, and the request
// middleware that scopes every API call to an app (or the admin override).
package auth

import (
	"context"

	"github.com/twocards/platform/pkg/types"
)

// NotAuthenticated is the sentinel signing key for requests with no app
// context. It must never be used to sign or verify a real token; the token
// service treats it as a hard authentication failure.
const NotAuthenticated = "not-authenticated"

type contextKind int

const (
	kindUnauthenticated contextKind = iota
	kindAdmin
	kindApp
)

// AppContext is the per-request authentication context: the admin override,
// a resolved app plus which of its key pairs matched, or nothing.
type AppContext struct {
	kind   contextKind
	app    *types.App
	isTest bool
}

// AdminContext returns the context for a request authenticated with the
// admin key.
func AdminContext() AppContext {
	return AppContext{kind: kindAdmin}
}

// AppKeyContext returns the context for a request authenticated with one of
// an app's public keys. isTest records whether the test key matched.
func AppKeyContext(app *types.App, isTest bool) AppContext {
	return AppContext{kind: kindApp, app: app, isTest: isTest}
}

// IsAdmin reports whether the request was authenticated with the admin key.
func (c AppContext) IsAdmin() bool { return c.kind == kindAdmin }

// App returns the resolved app and whether its test key matched. ok is false
// for admin and unauthenticated contexts.
func (c AppContext) App() (app *types.App, isTest bool, ok bool) {
	if c.kind != kindApp {
		return nil, false, false
	}
	return c.app, c.isTest, true
}

// Selector chooses the token signing secret for a request's app context.
// Tokens issued under an app's test key verify only against that app's test
// secret; live against live; nothing crosses apps.
type Selector struct {
	AdminKey string
}

// SigningKey returns the secret used to sign and verify tokens for c.
func (s Selector) SigningKey(c AppContext) string {
	switch c.kind {
	case kindAdmin:
		return s.AdminKey
	case kindApp:
		if c.isTest {
			return c.app.TestSecret
		}
		return c.app.LiveSecret
	default:
		return NotAuthenticated
	}
}

type ctxKey int

const (
	appCtxKey ctxKey = iota
	userCtxKey
)

// WithAppContext attaches the app context to ctx.
func WithAppContext(ctx context.Context, ac AppContext) context.Context {
	return context.WithValue(ctx, appCtxKey, ac)
}

// FromContext extracts the app context. A missing value yields the
// unauthenticated context.
func FromContext(ctx context.Context) AppContext {
	ac, _ := ctx.Value(appCtxKey).(AppContext)
	return ac
}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, u *types.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext extracts the authenticated user, or nil.
func UserFromContext(ctx context.Context) *types.User {
	u, _ := ctx.Value(userCtxKey).(*types.User)
	return u
}
