package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/moodiary/internal/navigation"
)

// RegisterRoutes registers all UI routes on the given router. The layout
// mirrors navigation.DefaultRoutes.
func (ui *UI) RegisterRoutes(r chi.Router) {
	toToday := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, navigation.FallbackRoute, http.StatusSeeOther)
	}
	r.Get(navigation.RootRoute, toToday)
	r.NotFound(toToday)

	if ui.metrics != nil {
		r.Handle("/metrics", ui.metrics.Handler())
	}

	// Public routes.
	r.Get(navigation.LoginRoute, ui.HandleLogin)
	r.Post(navigation.LoginRoute, ui.HandleLoginPost)
	r.Get(navigation.RegisterRoute, ui.HandleRegister)
	r.Post(navigation.RegisterRoute, ui.HandleRegisterPost)
	r.Get("/logout", ui.HandleLogout)

	// Protected routes.
	r.Group(func(r chi.Router) {
		r.Use(ui.GuardMiddleware)

		r.Get(navigation.TodayRoute, ui.HandleToday)
		r.Get(navigation.DiaryRoute, ui.HandleDiary)
		r.Post(navigation.DiaryRoute, ui.HandleDiaryPost)
		r.Route(navigation.HistoryRoute, func(r chi.Router) {
			r.Get("/", ui.HandleHistory)
			r.Get("/{id}", ui.HandleHistoryEntry)
		})
		r.Route(navigation.SettingsRoute, func(r chi.Router) {
			r.Get("/", ui.HandleSettings)
			r.Post("/city", ui.HandleSettingsCity)
			r.Post("/notifications", ui.HandleSettingsNotifications)
		})
	})
}
