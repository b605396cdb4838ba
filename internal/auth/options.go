package auth

import (
	"log/slog"

	"github.com/me/moodiary/internal/logging"
	"github.com/me/moodiary/internal/metrics"
	"github.com/me/moodiary/internal/navigation"
)

type options struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	classifier Classifier
	loginRoute string
}

// Option configures a Guard or an Authorizer.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records pipeline counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClassifier replaces IsAuthEndpoint.
func WithClassifier(c Classifier) Option {
	return func(o *options) { o.classifier = c }
}

// WithLoginRoute changes where unauthenticated users are sent.
func WithLoginRoute(path string) Option {
	return func(o *options) { o.loginRoute = path }
}

func buildOptions(component string, opts []Option) options {
	o := options{
		logger:     logging.Discard(),
		classifier: IsAuthEndpoint,
		loginRoute: navigation.LoginRoute,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With("component", component)
	return o
}
