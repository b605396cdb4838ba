package ui

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/me/moodiary/internal/api"
	"github.com/me/moodiary/internal/navigation"
)

// requestIDMiddleware tags each page request and hands the id on to the
// backend calls made while serving it.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		w.Header().Set(api.RequestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(api.WithRequestID(r.Context(), reqID)))
	})
}

// loggingMiddleware logs page requests at INFO level.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
				"request_id", api.RequestIDFromContext(r.Context()),
			)
		})
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// navigatorMiddleware gives every request its own navigation recorder.
func navigatorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := navigation.WithNavigator(r.Context(), &navigation.Recorder{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GuardMiddleware runs the route guard before protected pages. A refused
// request is redirected to wherever the guard navigated.
func (ui *UI) GuardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ui.guard.CanActivate(r.Context(), r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if !ui.redirected(w, r) {
			http.Redirect(w, r, navigation.LoginRoute, http.StatusSeeOther)
		}
	})
}
