// Package view maps backend responses onto what the CLI and web pages show.
package view

import (
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/me/moodiary/pkg/model"
)

const (
	shortDate = "Mon, Jan 02"
	fullDate  = "Monday, January 2, 2006"
)

var temperatureRe = regexp.MustCompile(`(-?\d+\.?\d*)°C`)

var titleCase = cases.Title(language.Und, cases.NoLower)

// Today is the today page.
type Today struct {
	Greeting      string // capitalized username, empty if unknown
	City          string
	Date          string
	PlanText      string
	Weather       string
	Temperature   string
	Condition     string
	WeatherEmoji  string
	EveningPrompt string
	Summary       string
	Mood          int // 0 when no entry today
	MoodEmoji     string
}

// NewToday builds the today page. username comes from the session token,
// not from the response.
func NewToday(t *model.Today, username string) Today {
	v := Today{
		Greeting: Greeting(username),
		City:     t.User.City,
		Date:     t.Date,
	}
	if d, err := model.ParseDate(t.Date); err == nil {
		v.Date = d.Format(fullDate)
	}
	if p := t.MorningPlan; p != nil {
		v.PlanText = p.PlanText
		if p.Weather != nil {
			v.Weather = *p.Weather
		}
	}
	v.Temperature = Temperature(v.Weather)
	v.Condition = Condition(v.Weather)
	v.WeatherEmoji = WeatherEmoji(v.Weather)

	if e := t.EveningPrompt; e != nil {
		v.EveningPrompt = e.PromptText
	}
	if j := t.JournalEntry; j != nil {
		if j.AISummary != nil {
			v.Summary = *j.AISummary
		}
		if j.Mood != nil {
			v.Mood = *j.Mood
			v.MoodEmoji = MoodEmoji(*j.Mood)
		}
	}
	return v
}

// Greeting capitalizes the username for display.
func Greeting(username string) string {
	return titleCase.String(strings.TrimSpace(username))
}

// Temperature extracts "x°C" from a weather string such as
// "0.9°C, Mäßiger schnee".
func Temperature(weather string) string {
	m := temperatureRe.FindStringSubmatch(weather)
	if m == nil {
		return ""
	}
	return m[1] + "°C"
}

// Condition returns the second comma-separated field of a weather string,
// or the whole string when there is no comma.
func Condition(weather string) string {
	parts := strings.Split(weather, ",")
	if len(parts) < 2 {
		return weather
	}
	return strings.TrimSpace(parts[1])
}

// WeatherEmoji picks an icon for a weather description. German and English
// keywords are recognised.
func WeatherEmoji(weather string) string {
	w := strings.ToLower(weather)
	switch {
	case w == "":
		return "🌤️"
	case strings.Contains(w, "sun"), strings.Contains(w, "clear"):
		return "☀️"
	case strings.Contains(w, "cloud"):
		return "☁️"
	case strings.Contains(w, "rain"), strings.Contains(w, "regen"):
		return "🌧️"
	case strings.Contains(w, "snow"), strings.Contains(w, "schnee"):
		return "❄️"
	case strings.Contains(w, "storm"), strings.Contains(w, "gewitter"):
		return "⛈️"
	case strings.Contains(w, "fog"), strings.Contains(w, "nebel"):
		return "🌫️"
	}
	return "🌤️"
}

// MoodEmoji is the face shown next to today's mood.
func MoodEmoji(mood int) string {
	switch {
	case mood >= 5:
		return "😄"
	case mood >= 4:
		return "🙂"
	case mood >= 3:
		return "😐"
	case mood >= 2:
		return "😕"
	}
	return "😢"
}

var moodIcons = [...]string{"😞", "😕", "😐", "🙂", "😄"}

// MoodIcon is the face used in the history list. Out-of-range values get
// the neutral face.
func MoodIcon(mood int) string {
	if mood < model.MoodMin || mood > model.MoodMax {
		return "😐"
	}
	return moodIcons[mood-1]
}

// HistoryRow is one line of the history list.
type HistoryRow struct {
	ID      int
	Date    string // "Mon, Sep 18"
	Age     string // "3 days ago"
	Summary string
}

// NewHistory formats history items relative to now, keeping their order.
func NewHistory(items []model.HistoryItem, now time.Time) []HistoryRow {
	rows := make([]HistoryRow, 0, len(items))
	for _, it := range items {
		row := HistoryRow{ID: it.ID, Date: it.Date, Summary: it.Summary}
		if d, err := model.ParseDate(it.Date); err == nil {
			row.Date = d.Format(shortDate)
			row.Age = humanize.RelTime(d, now, "ago", "from now")
		}
		rows = append(rows, row)
	}
	return rows
}

// HistoryDetails is the detail view of a single entry.
type HistoryDetails struct {
	ID       int
	Date     string // "Monday, September 18, 2025"
	Mood     int
	MoodIcon string
	Good     string
	Improve  string
}

// NewHistoryDetails formats one entry.
func NewHistoryDetails(d *model.HistoryDetails) HistoryDetails {
	v := HistoryDetails{
		ID:       d.ID,
		Date:     d.Date,
		Mood:     d.Mood,
		MoodIcon: MoodIcon(d.Mood),
		Good:     d.Good,
		Improve:  d.Improve,
	}
	if t, err := model.ParseDate(d.Date); err == nil {
		v.Date = t.Format(fullDate)
	}
	return v
}
