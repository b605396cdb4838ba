package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/view"
	"github.com/me/moodiary/pkg/model"
)

// HandleLogin renders the login page.
func (ui *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if ui.loggedIn() {
		http.Redirect(w, r, navigation.TodayRoute, http.StatusSeeOther)
		return
	}
	data := map[string]any{"Title": "Login - moodiary"}
	if r.URL.Query().Get("registered") != "" {
		data["Notice"] = "Account created. Please log in."
	}
	ui.render(w, http.StatusOK, "login", data)
}

// HandleLoginPost processes the login form.
func (ui *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ui.render(w, http.StatusBadRequest, "login", map[string]any{"Title": "Login - moodiary", "Error": "Invalid request"})
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))

	if _, err := ui.client.Login(r.Context(), username, r.FormValue("password")); err != nil {
		ui.logger.Warn("login failed", "username", username, "error", err)
		ui.render(w, statusFor(err), "login", map[string]any{
			"Title":    "Login - moodiary",
			"Error":    userMessage(err),
			"Username": username,
		})
		return
	}
	if !ui.redirected(w, r) {
		http.Redirect(w, r, navigation.TodayRoute, http.StatusSeeOther)
	}
}

// HandleRegister renders the registration page.
func (ui *UI) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ui.render(w, http.StatusOK, "register", map[string]any{"Title": "Register - moodiary"})
}

// HandleRegisterPost processes the registration form.
func (ui *UI) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ui.render(w, http.StatusBadRequest, "register", map[string]any{"Title": "Register - moodiary", "Error": "Invalid request"})
		return
	}
	req := model.RegisterRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		City:     r.FormValue("city"),
	}

	if _, err := ui.client.Register(r.Context(), req); err != nil {
		ui.render(w, statusFor(err), "register", map[string]any{
			"Title":    "Register - moodiary",
			"Error":    userMessage(err),
			"Username": req.Username,
			"City":     req.City,
		})
		return
	}
	http.Redirect(w, r, navigation.LoginRoute+"?registered=1", http.StatusSeeOther)
}

// HandleLogout ends the session.
func (ui *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := ui.client.Logout(r.Context()); err != nil {
		ui.logger.Error("logout failed", "error", err)
	}
	if !ui.redirected(w, r) {
		http.Redirect(w, r, navigation.LoginRoute, http.StatusSeeOther)
	}
}

// HandleToday renders the today page.
func (ui *UI) HandleToday(w http.ResponseWriter, r *http.Request) {
	today, err := ui.client.Today(r.Context())
	if ui.redirected(w, r) {
		return
	}
	if err != nil {
		ui.renderError(w, "Could not load today", err)
		return
	}
	ui.render(w, http.StatusOK, "today", map[string]any{
		"Title": "Today - moodiary",
		"Today": view.NewToday(today, ui.tokens.Username()),
	})
}

var moodChoices = []struct {
	Value int
	Icon  string
}{
	{1, view.MoodIcon(1)},
	{2, view.MoodIcon(2)},
	{3, view.MoodIcon(3)},
	{4, view.MoodIcon(4)},
	{5, view.MoodIcon(5)},
}

// HandleDiary renders the diary form.
func (ui *UI) HandleDiary(w http.ResponseWriter, r *http.Request) {
	ui.render(w, http.StatusOK, "diary", map[string]any{
		"Title": "Diary - moodiary",
		"Moods": moodChoices,
	})
}

// HandleDiaryPost saves a diary entry.
func (ui *UI) HandleDiaryPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	mood, _ := strconv.Atoi(r.FormValue("mood"))
	entry := model.DiaryEntry{
		Mood:    mood,
		Good:    r.FormValue("good"),
		Improve: r.FormValue("improve"),
	}

	err := ui.client.SubmitDiary(r.Context(), entry)
	if ui.redirected(w, r) {
		return
	}
	data := map[string]any{
		"Title": "Diary - moodiary",
		"Moods": moodChoices,
	}
	if err != nil {
		data["Error"] = userMessage(err)
		data["Entry"] = entry
		ui.render(w, statusFor(err), "diary", data)
		return
	}
	data["Success"] = "Saved ✅"
	ui.render(w, http.StatusOK, "diary", data)
}

// HandleHistory renders the history list.
func (ui *UI) HandleHistory(w http.ResponseWriter, r *http.Request) {
	items, err := ui.client.History(r.Context())
	if ui.redirected(w, r) {
		return
	}
	if err != nil {
		ui.renderError(w, "Could not load history", err)
		return
	}
	ui.render(w, http.StatusOK, "history", map[string]any{
		"Title":   "History - moodiary",
		"Entries": view.NewHistory(items, ui.now()),
	})
}

// HandleHistoryEntry renders one history entry.
func (ui *UI) HandleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		ui.render(w, http.StatusNotFound, "error", map[string]any{
			"Title":   "Not Found - moodiary",
			"Message": "No such entry",
		})
		return
	}

	d, err := ui.client.HistoryEntry(r.Context(), id)
	if ui.redirected(w, r) {
		return
	}
	if err != nil {
		ui.renderError(w, "Could not load entry", err)
		return
	}
	ui.render(w, http.StatusOK, "history_entry", map[string]any{
		"Title": "Entry - moodiary",
		"Entry": view.NewHistoryDetails(d),
	})
}

// HandleSettings renders the settings page.
func (ui *UI) HandleSettings(w http.ResponseWriter, r *http.Request) {
	s, err := ui.client.Settings(r.Context())
	if ui.redirected(w, r) {
		return
	}
	if err != nil {
		ui.renderError(w, "Could not load settings", err)
		return
	}
	data := map[string]any{
		"Title":    "Settings - moodiary",
		"Settings": s,
	}
	switch r.URL.Query().Get("saved") {
	case "city":
		data["Notice"] = "City saved."
	case "notifications":
		data["Notice"] = "Notification times saved."
	}
	ui.render(w, http.StatusOK, "settings", data)
}

// HandleSettingsCity updates the city.
func (ui *UI) HandleSettingsCity(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	err := ui.client.SetCity(r.Context(), r.FormValue("city"))
	ui.afterSettingsPost(w, r, err, "city")
}

// HandleSettingsNotifications updates the reminder times.
func (ui *UI) HandleSettingsNotifications(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	err := ui.client.SetNotifications(r.Context(), r.FormValue("morning_time"), r.FormValue("evening_time"))
	ui.afterSettingsPost(w, r, err, "notifications")
}

func (ui *UI) afterSettingsPost(w http.ResponseWriter, r *http.Request, err error, what string) {
	if ui.redirected(w, r) {
		return
	}
	if err != nil {
		ui.render(w, statusFor(err), "settings", map[string]any{
			"Title": "Settings - moodiary",
			"Error": userMessage(err),
			"Settings": &model.Settings{
				City:        r.FormValue("city"),
				MorningTime: r.FormValue("morning_time"),
				EveningTime: r.FormValue("evening_time"),
			},
		})
		return
	}
	http.Redirect(w, r, navigation.SettingsRoute+"?saved="+what, http.StatusSeeOther)
}
