// Package navigation models the client's routes and the act of moving
// between them. Guards plug in as before-activation hooks on the protected
// routes.
package navigation

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
)

// ErrCancelled is returned by Navigate when a guard rejected the target.
var ErrCancelled = errors.New("navigation cancelled")

// Navigator issues navigation commands.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string) error

func (f NavigatorFunc) Navigate(ctx context.Context, path string) error { return f(ctx, path) }

// CanActivateFunc runs before a protected route is activated. Returning
// false cancels the navigation; the hook is responsible for any redirect.
type CanActivateFunc func(ctx context.Context, path string) bool

// Router resolves paths against a route table, runs the guards of protected
// routes, and tracks the current route.
type Router struct {
	routes map[string]Route
	logger *slog.Logger

	mu        sync.Mutex
	guards    []CanActivateFunc
	listeners []func(path string)
	current   string
	history   []string
}

// NewRouter creates a router over routes.
func NewRouter(routes []Route, logger *slog.Logger) *Router {
	r := &Router{
		routes: make(map[string]Route, len(routes)),
		logger: logger.With("component", "router"),
	}
	for _, rt := range routes {
		r.routes[rt.Path] = rt
	}
	return r
}

// UseGuard registers a hook run before every protected route activation.
func (r *Router) UseGuard(g CanActivateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards = append(r.guards, g)
}

// OnNavigate registers fn to be called after each completed navigation.
func (r *Router) OnNavigate(fn func(path string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Resolve maps path onto a route, following redirects and the fallback.
func (r *Router) Resolve(path string) Route {
	p := normalize(path)
	for range len(r.routes) + 1 {
		rt, ok := r.routes[p]
		if !ok {
			p = FallbackRoute
			rt, ok = r.routes[p]
			if !ok {
				return Route{Path: p}
			}
		}
		if rt.RedirectTo == "" {
			return rt
		}
		p = normalize(rt.RedirectTo)
	}
	return Route{Path: p}
}

// Navigate moves to path. Guards are evaluated on every attempt; nothing is
// cached. Guards run without the router lock held so they may navigate
// themselves (typically to the login route).
func (r *Router) Navigate(ctx context.Context, path string) error {
	rt := r.Resolve(path)

	if rt.Protected {
		r.mu.Lock()
		guards := append([]CanActivateFunc(nil), r.guards...)
		r.mu.Unlock()

		for _, g := range guards {
			if !g(ctx, rt.Path) {
				r.logger.Debug("navigation cancelled", "path", rt.Path)
				return ErrCancelled
			}
		}
	}

	r.mu.Lock()
	r.current = rt.Path
	r.history = append(r.history, rt.Path)
	listeners := append(([]func(string))(nil), r.listeners...)
	r.mu.Unlock()

	r.logger.Debug("navigated", "path", rt.Path, "requested", path)
	for _, fn := range listeners {
		fn(rt.Path)
	}
	return nil
}

// Current returns the active route path, or "" before the first navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns every route activated so far, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

func normalize(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	path = "/" + strings.Trim(path, "/")
	return path
}

type ctxKey struct{}

// WithNavigator returns a context whose navigation commands go to nav.
func WithNavigator(ctx context.Context, nav Navigator) context.Context {
	return context.WithValue(ctx, ctxKey{}, nav)
}

// FromContext returns the navigator stored in ctx, or fallback.
func FromContext(ctx context.Context, fallback Navigator) Navigator {
	if nav, ok := ctx.Value(ctxKey{}).(Navigator); ok && nav != nil {
		return nav
	}
	return fallback
}
