// Package ui serves the diary as local HTML pages. Page access goes through
// the same Guard as the CLI, and every backend call goes through the API
// client, so a rejected token ends the session here too.
package ui

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/moodiary/internal/api"
	"github.com/me/moodiary/internal/auth"
	"github.com/me/moodiary/internal/metrics"
	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/session"
	"github.com/me/moodiary/pkg/model"
)

// UI handles the web user interface.
type UI struct {
	client  *api.Client
	tokens  *session.Tokens
	guard   *auth.Guard
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a UI over client. The guard has no navigator of its own: each
// request installs a navigation.Recorder and redirects are derived from it.
func New(client *api.Client, tokens *session.Tokens, m *metrics.Metrics, logger *slog.Logger) *UI {
	logger = logger.With("component", "ui")
	return &UI{
		client:  client,
		tokens:  tokens,
		guard:   auth.NewGuard(tokens, nil, auth.WithLogger(logger), auth.WithMetrics(m)),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Handler returns the router serving all pages.
func (ui *UI) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(ui.logger))
	r.Use(navigatorMiddleware)
	ui.RegisterRoutes(r)
	return r
}

func (ui *UI) loggedIn() bool {
	return ui.tokens.Get().IsAuthenticated()
}

// redirected answers with a redirect if a navigation command was issued
// while handling the request: a guard refusal, a login or logout, or a 401
// from the backend.
func (ui *UI) redirected(w http.ResponseWriter, r *http.Request) bool {
	rec, _ := navigation.FromContext(r.Context(), nil).(*navigation.Recorder)
	if rec == nil {
		return false
	}
	target, ok := rec.Last()
	if !ok {
		return false
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
	return true
}

func (ui *UI) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["LoggedIn"]; !ok {
		data["LoggedIn"] = ui.loggedIn()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := renderTemplate(&buf, name, data); err != nil {
		ui.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (ui *UI) renderError(w http.ResponseWriter, message string, err error) {
	ui.logger.Error(message, "error", err)
	status := http.StatusBadGateway
	if code := model.StatusCode(err); code == http.StatusNotFound {
		status = http.StatusNotFound
	}
	ui.render(w, status, "error", map[string]any{
		"Title":   "Error - moodiary",
		"Message": message,
		"Detail":  userMessage(err),
	})
}

// userMessage turns an error into something fit for a form.
func userMessage(err error) string {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		parts := make([]string, 0, len(ve.Details))
		for _, d := range ve.Details {
			parts = append(parts, strings.ReplaceAll(d.Field, "_", " ")+" "+d.Message)
		}
		return strings.Join(parts, "; ")
	}
	var he *model.HTTPError
	if errors.As(err, &he) {
		if he.Message != "" {
			return he.Message
		}
		return http.StatusText(he.StatusCode)
	}
	return "The diary server could not be reached."
}

func statusFor(err error) int {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	if code := model.StatusCode(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}
