package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/me/moodiary/pkg/model"
)

// Today loads the today page. When the backend has no morning plan yet it
// asks for one once and reloads. Failures of that second step leave the
// first response in place; a 401 is always returned.
func (c *Client) Today(ctx context.Context) (*model.Today, error) {
	var today model.Today
	if err := c.do(ctx, http.MethodGet, "/today", nil, &today); err != nil {
		return nil, err
	}
	if today.MorningPlan != nil {
		return &today, nil
	}

	c.Logger.Debug("no morning plan yet, requesting one", "date", today.Date)
	if err := c.do(ctx, http.MethodGet, "/morning/plan", nil, nil); err != nil {
		if model.IsUnauthorized(err) {
			return nil, err
		}
		c.Logger.Warn("generate morning plan", "error", err)
		return &today, nil
	}

	var reloaded model.Today
	if err := c.do(ctx, http.MethodGet, "/today", nil, &reloaded); err != nil {
		if model.IsUnauthorized(err) {
			return nil, err
		}
		c.Logger.Warn("reload today", "error", err)
		return &today, nil
	}
	return &reloaded, nil
}

// SubmitDiary posts today's reflection.
func (c *Client) SubmitDiary(ctx context.Context, entry model.DiaryEntry) error {
	if err := ValidateDiary(entry); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/diary", entry, nil)
}

// History returns the diary history, newest first. Entries whose date
// cannot be parsed sort last.
func (c *Client) History(ctx context.Context) ([]model.HistoryItem, error) {
	var items []model.HistoryItem
	if err := c.do(ctx, http.MethodGet, "/history", nil, &items); err != nil {
		return nil, err
	}
	SortNewestFirst(items)
	return items, nil
}

// SortNewestFirst orders history items by date, descending.
func SortNewestFirst(items []model.HistoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, errA := model.ParseDate(items[i].Date)
		b, errB := model.ParseDate(items[j].Date)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		}
		return a.After(b)
	})
}

// HistoryEntry returns the details of one diary entry.
func (c *Client) HistoryEntry(ctx context.Context, id int) (*model.HistoryDetails, error) {
	var d model.HistoryDetails
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/history/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Settings returns the user's city and notification times.
func (c *Client) Settings(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetCity updates the city used for weather.
func (c *Client) SetCity(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if err := ValidateCity(city); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/settings/city", model.CityUpdate{City: city}, nil)
}

// SetNotifications updates the morning and evening reminder times.
func (c *Client) SetNotifications(ctx context.Context, morning, evening string) error {
	u := model.NotificationUpdate{MorningTime: strings.TrimSpace(morning), EveningTime: strings.TrimSpace(evening)}
	if err := ValidateNotifications(u); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/settings/notifications", u, nil)
}
