// Package metrics counts what the session pipeline does: requests by kind
// and status, sessions cleared by a 401, and navigations refused by the
// guard. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request kinds.
const (
	KindAuth = "auth" // login, register, refresh, logout
	KindAPI  = "api"  // everything that carries the bearer token
)

// Metrics holds the pipeline's collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	sessionsCleared prometheus.Counter
	guardDenied     prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moodiary",
			Name:      "requests_total",
			Help:      "Outgoing backend requests by kind and status code (0 = transport error).",
		}, []string{"kind", "code"}),
		sessionsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "moodiary",
			Name:      "sessions_cleared_total",
			Help:      "Sessions cleared because a protected call returned 401.",
		}),
		guardDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "moodiary",
			Name:      "guard_denied_total",
			Help:      "Protected navigations refused for lack of a session.",
		}),
	}
	m.registry.MustRegister(m.requests, m.sessionsCleared, m.guardDenied)
	return m
}

// ObserveRequest counts one request. code 0 means the transport failed.
func (m *Metrics) ObserveRequest(kind string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, strconv.Itoa(code)).Inc()
}

// SessionCleared counts one 401-triggered logout.
func (m *Metrics) SessionCleared() {
	if m == nil {
		return
	}
	m.sessionsCleared.Inc()
}

// GuardDenied counts one refused navigation.
func (m *Metrics) GuardDenied() {
	if m == nil {
		return
	}
	m.guardDenied.Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
