package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/twocards/platform/pkg/types"
	"golang.org/x/time/rate"
)

const maxKeyLimiters = 10_000

// AppResolver looks up an app by one of its public keys. isTest reports
// whether the test key matched.
type AppResolver interface {
	ResolveByPublicKey(ctx context.Context, publicKey string) (app *types.App, isTest bool, err error)
}

// Route identifies an endpoint by method and path.
type Route struct {
	Method string
	Path   string
}

// DefaultAdminRoutes are the endpoints reserved for the admin key.
func DefaultAdminRoutes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/api/v1/apps"},
		{Method: http.MethodPost, Path: "/api/v1/auth/login"},
		{Method: http.MethodPost, Path: "/api/v1/auth/register"},
	}
}

// Gate is the request-level interceptor that requires an app key on every
// API call, resolves it to an app context (or the admin override), and
// attaches that context to the request. The admin key is injected at
// construction rather than read from process-global state.
type Gate struct {
	adminKey    string
	resolver    AppResolver
	adminRoutes []Route
	log         *slog.Logger

	perKeyLimit int
	limiters    map[string]*rate.Limiter
	order       []string
	mu          sync.Mutex
}

// NewGate creates a gate. perKeyLimit is requests/second allowed per
// presented key; zero disables rate limiting.
func NewGate(adminKey string, resolver AppResolver, perKeyLimit int, log *slog.Logger) *Gate {
	return &Gate{
		adminKey:    adminKey,
		resolver:    resolver,
		adminRoutes: DefaultAdminRoutes(),
		log:         log,
		perKeyLimit: perKeyLimit,
		limiters:    make(map[string]*rate.Limiter),
	}
}

// Middleware enforces the gate. Terminal outcomes: forward with context,
// 422 for a missing key, 401 for non-admin access to admin routes or an
// unresolvable key.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("app")
		if key == "" {
			types.ErrMissingInput("You need to include you app key.").WriteJSON(w)
			return
		}

		if g.perKeyLimit > 0 && !g.allow(key) {
			types.ErrRateLimited().WriteJSON(w)
			return
		}

		if g.adminKey != "" && key == g.adminKey {
			ctx := WithAppContext(r.Context(), AdminContext())
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if g.isAdminRoute(r) {
			types.ErrUnauthorized("Unauthorized, only admin apps can use these endpoints.").WriteJSON(w)
			return
		}

		app, isTest, err := g.resolver.ResolveByPublicKey(r.Context(), key)
		if err != nil {
			g.log.ErrorContext(r.Context(), "app key resolution failed", "error", err)
			types.ErrUnauthorized("No app found").WriteJSON(w)
			return
		}
		if app == nil {
			types.ErrUnauthorized("No app found").WriteJSON(w)
			return
		}

		ctx := WithAppContext(r.Context(), AppKeyContext(app, isTest))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) isAdminRoute(r *http.Request) bool {
	path := strings.TrimSuffix(r.URL.Path, "/")
	for _, route := range g.adminRoutes {
		if route.Method == r.Method && route.Path == path {
			return true
		}
	}
	return false
}

// allow rate-limits per presented key with a bounded LRU of limiters.
func (g *Gate) allow(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	lim, ok := g.limiters[key]
	if ok {
		for i, k := range g.order {
			if k == key {
				g.order = append(g.order[:i], g.order[i+1:]...)
				break
			}
		}
		g.order = append(g.order, key)
		return lim.Allow()
	}

	if len(g.limiters) >= maxKeyLimiters {
		oldest := g.order[0]
		g.order = g.order[1:]
		delete(g.limiters, oldest)
	}

	lim = rate.NewLimiter(rate.Limit(g.perKeyLimit), g.perKeyLimit*2)
	g.limiters[key] = lim
	g.order = append(g.order, key)
	return lim.Allow()
}

// UserLoader fetches a user record by ID.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*types.User, error)
}

// RequireUser returns middleware that verifies a bearer token against the
// request's app context and attaches the token's user to the request. It
// must run after the gate so a signing key is available.
func RequireUser(tokens *TokenService, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				types.ErrUnauthorized("Unauthorized").WriteJSON(w)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := tokens.Verify(raw, FromContext(r.Context()))
			if err != nil {
				types.ErrUnauthorized("Unauthorized").WriteJSON(w)
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil || user == nil {
				types.ErrUnauthorized("Unauthorized").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
