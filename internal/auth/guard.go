// Package auth gates navigation and outgoing requests on the presence of a
// session.
package auth

import (
	"context"

	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/session"
)

// Guard decides whether a protected route may be entered. The only check is
// whether an access token is present; the token is not validated and its
// expiry is not inspected. An expired token passes and is caught by the
// Authorizer on the next failed call.
type Guard struct {
	tokens session.Reader
	nav    navigation.Navigator
	opts   options
}

// NewGuard creates a guard that reads tokens and redirects through nav. A
// navigator stored in the request context takes precedence over nav.
func NewGuard(tokens session.Reader, nav navigation.Navigator, opts ...Option) *Guard {
	return &Guard{tokens: tokens, nav: nav, opts: buildOptions("guard", opts)}
}

// CanActivate matches navigation.CanActivateFunc. It is evaluated on every
// attempt, so a logout blocks the very next protected navigation.
func (g *Guard) CanActivate(ctx context.Context, path string) bool {
	if g.tokens.Get().IsAuthenticated() {
		return true
	}

	g.opts.metrics.GuardDenied()
	g.opts.logger.Debug("no session, redirecting", "path", path, "to", g.opts.loginRoute)

	nav := navigation.FromContext(ctx, g.nav)
	if nav != nil {
		if err := nav.Navigate(ctx, g.opts.loginRoute); err != nil {
			g.opts.logger.Warn("redirect to login failed", "error", err)
		}
	}
	return false
}
