package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request identifier to the backend so client
// and server logs can be correlated.
const RequestIDHeader = "X-Request-ID"

type ctxKeyRequestID struct{}

// WithRequestID returns a context whose outgoing requests reuse id, so an
// inbound request and the backend calls it causes share one identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Middleware wraps a transport.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain builds a transport from base and middlewares. The first middleware
// is the outermost.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// RequestID stamps requests that do not already carry an X-Request-ID. The
// id comes from the request context when present, otherwise a new UUID.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			id := RequestIDFromContext(req.Context())
			if id == "" {
				id = uuid.New().String()
			}
			out := req.Clone(req.Context())
			out.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(out)
		})
	}
}

// Logging logs each request at debug level. It sits outside the authorizer
// so tokens never reach the log.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"request_id", req.Header.Get(RequestIDHeader),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Debug("HTTP request failed", append(attrs, "error", err)...)
				return resp, err
			}
			logger.Debug("HTTP response", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}
