package auth

import (
	"context"
	"net/http"

	"github.com/me/moodiary/internal/metrics"
	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/session"
)

// SessionStore is what the Authorizer needs from the token store.
type SessionStore interface {
	session.Reader
	Clear(ctx context.Context) error
}

// Authorizer is an http.RoundTripper that stamps outgoing requests with the
// current access token and ends the session when the backend rejects it.
//
// Per request:
//   - authentication endpoints pass through untouched and unobserved;
//   - otherwise a clone of the request carries "Authorization: Bearer <token>"
//     when a token is present, and goes out unchanged when it is not;
//   - a 401 response clears the token store and issues one navigation to the
//     login route.
//
// The response and error are always returned to the caller as received.
// Nothing is retried.
type Authorizer struct {
	next   http.RoundTripper
	tokens SessionStore
	nav    navigation.Navigator
	opts   options
}

// NewAuthorizer wraps next. A nil next uses http.DefaultTransport. A
// navigator stored in the request context takes precedence over nav.
func NewAuthorizer(next http.RoundTripper, tokens SessionStore, nav navigation.Navigator, opts ...Option) *Authorizer {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Authorizer{
		next:   next,
		tokens: tokens,
		nav:    nav,
		opts:   buildOptions("authorizer", opts),
	}
}

// Middleware returns a constructor suitable for chaining transports.
func Middleware(tokens SessionStore, nav navigation.Navigator, opts ...Option) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return NewAuthorizer(next, tokens, nav, opts...)
	}
}

func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	if a.opts.classifier(req.URL) {
		resp, err := a.next.RoundTrip(req)
		a.opts.metrics.ObserveRequest(metrics.KindAuth, statusOf(resp, err))
		return resp, err
	}

	out := req
	if token := a.tokens.Get().AccessToken; token != "" {
		out = req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.next.RoundTrip(out)
	a.opts.metrics.ObserveRequest(metrics.KindAPI, statusOf(resp, err))

	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		a.endSession(req.Context(), req)
	}
	return resp, err
}

// endSession clears the token store and redirects to login. Failures here
// are logged, never returned: the caller gets the original 401.
func (a *Authorizer) endSession(ctx context.Context, req *http.Request) {
	a.opts.logger.Warn("session cleared",
		"reason", "unauthorized",
		"method", req.Method,
		"path", req.URL.Path,
	)
	a.opts.metrics.SessionCleared()

	// The request context may already be cancelled; storage cleanup must
	// still happen.
	cleanupCtx := context.WithoutCancel(ctx)
	if err := a.tokens.Clear(cleanupCtx); err != nil {
		a.opts.logger.Error("clear session", "error", err)
	}

	nav := navigation.FromContext(ctx, a.nav)
	if nav == nil {
		return
	}
	if err := nav.Navigate(cleanupCtx, a.opts.loginRoute); err != nil {
		a.opts.logger.Warn("redirect to login failed", "error", err)
	}
}

func statusOf(resp *http.Response, err error) int {
	if err != nil || resp == nil {
		return 0
	}
	return resp.StatusCode
}
