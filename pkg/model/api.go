package model

// MorningPlan is the AI-generated plan for the day, created on demand by
// GET /morning/plan.
type MorningPlan struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	PlanText      string   `json:"plan_text"`
	Weather       *string  `json:"weather,omitempty"`
	SleepDuration *float64 `json:"sleep_duration,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
}

// JournalEntry is a stored daily reflection.
type JournalEntry struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Mood          *int    `json:"mood,omitempty"`
	WhatWentWell  string  `json:"what_went_well"`
	WhatToImprove string  `json:"what_to_improve"`
	HowIFeel      string  `json:"how_i_feel"`
	AISummary     *string `json:"ai_summary,omitempty"`
}

// EveningPrompt is the reflection question offered in the evening.
type EveningPrompt struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	PromptText string `json:"prompt_text"`
}

// Today is the body of GET /today. Absent sections are nil.
type Today struct {
	Date          string         `json:"date"` // YYYY-MM-DD
	User          User           `json:"user"`
	MorningPlan   *MorningPlan   `json:"morning_plan"`
	JournalEntry  *JournalEntry  `json:"journal_entry"`
	EveningPrompt *EveningPrompt `json:"evening_prompt"`
}

// DiaryEntry is the body of POST /diary.
type DiaryEntry struct {
	Mood    int    `json:"mood"`
	Good    string `json:"good"`
	Improve string `json:"improve"`
}

// HistoryItem is one row of GET /history.
type HistoryItem struct {
	ID      int    `json:"id"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// HistoryDetails is the body of GET /history/{id}.
type HistoryDetails struct {
	ID      int    `json:"id"`
	Date    string `json:"date"`
	Mood    int    `json:"mood"`
	Good    string `json:"good"`
	Improve string `json:"improve"`
}

// Settings is the body of GET /settings.
type Settings struct {
	City        string `json:"city"`
	MorningTime string `json:"morning_time"`
	EveningTime string `json:"evening_time"`
}

// CityUpdate is the body of POST /settings/city.
type CityUpdate struct {
	City string `json:"city"`
}

// NotificationUpdate is the body of POST /settings/notifications.
// Times are HH:MM in the user's local zone.
type NotificationUpdate struct {
	MorningTime string `json:"morning_time"`
	EveningTime string `json:"evening_time"`
}

// MoodMin and MoodMax bound the mood scale.
const (
	MoodMin = 1
	MoodMax = 5
)
