package api

import (
	"strings"
	"time"
	"unicode"

	"github.com/me/moodiary/pkg/model"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// ValidateLogin checks login form input.
func ValidateLogin(req model.LoginRequest) error {
	var errs []model.FieldError
	if u := strings.TrimSpace(req.Username); u == "" {
		errs = append(errs, model.FieldError{Field: "username", Message: "is required"})
	} else if len([]rune(u)) < minUsernameLen {
		errs = append(errs, model.FieldError{Field: "username", Message: "must be at least 3 characters"})
	}
	if req.Password == "" {
		errs = append(errs, model.FieldError{Field: "password", Message: "is required"})
	}
	return model.NewValidationError(errs...)
}

// ValidateRegister checks registration form input. Passwords need eight
// characters including an upper-case letter and a digit.
func ValidateRegister(req model.RegisterRequest) error {
	var errs []model.FieldError
	if u := strings.TrimSpace(req.Username); u == "" {
		errs = append(errs, model.FieldError{Field: "username", Message: "is required"})
	} else if len([]rune(u)) < minUsernameLen {
		errs = append(errs, model.FieldError{Field: "username", Message: "must be at least 3 characters"})
	}

	switch {
	case req.Password == "":
		errs = append(errs, model.FieldError{Field: "password", Message: "is required"})
	case len([]rune(req.Password)) < minPasswordLen:
		errs = append(errs, model.FieldError{Field: "password", Message: "must be at least 8 characters"})
	case !strings.ContainsFunc(req.Password, unicode.IsUpper) || !strings.ContainsFunc(req.Password, unicode.IsDigit):
		errs = append(errs, model.FieldError{Field: "password", Message: "must contain an upper-case letter and a digit"})
	}

	if strings.TrimSpace(req.City) == "" {
		errs = append(errs, model.FieldError{Field: "city", Message: "is required"})
	}
	return model.NewValidationError(errs...)
}

// ValidateDiary checks a diary entry before it is posted.
func ValidateDiary(e model.DiaryEntry) error {
	var errs []model.FieldError
	if e.Mood < model.MoodMin || e.Mood > model.MoodMax {
		errs = append(errs, model.FieldError{Field: "mood", Message: "must be between 1 and 5"})
	}
	if strings.TrimSpace(e.Good) == "" {
		errs = append(errs, model.FieldError{Field: "good", Message: "is required"})
	}
	if strings.TrimSpace(e.Improve) == "" {
		errs = append(errs, model.FieldError{Field: "improve", Message: "is required"})
	}
	return model.NewValidationError(errs...)
}

// ValidateCity rejects a blank city.
func ValidateCity(city string) error {
	if strings.TrimSpace(city) == "" {
		return model.NewValidationError(model.FieldError{Field: "city", Message: "is required"})
	}
	return nil
}

// ValidateNotifications checks that both times are HH:MM.
func ValidateNotifications(u model.NotificationUpdate) error {
	var errs []model.FieldError
	if !isClockTime(u.MorningTime) {
		errs = append(errs, model.FieldError{Field: "morning_time", Message: "must be HH:MM"})
	}
	if !isClockTime(u.EveningTime) {
		errs = append(errs, model.FieldError{Field: "evening_time", Message: "must be HH:MM"})
	}
	return model.NewValidationError(errs...)
}

func isClockTime(s string) bool {
	if len(s) != len("15:04") {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
