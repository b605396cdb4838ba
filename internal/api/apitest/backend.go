// Package apitest provides an in-process diary backend for tests. It speaks
// the same JSON as the real service and mints HS256 access tokens whose
// subject is the username.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/me/moodiary/pkg/model"
)

var signingKey = []byte("apitest-secret")

// Backend is a fake diary backend.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	users     map[string]*account
	revoked   map[string]bool
	banned    map[string]bool
	history   []model.HistoryDetails
	summaries map[int]string
	plan      *model.MorningPlan
	hits      map[string]int
	auth      map[string][]string
	nextID    int

	// NoPlanGeneration makes GET /morning/plan fail with 500.
	NoPlanGeneration bool
}

type account struct {
	password string
	user     model.User
}

// NewBackend starts a backend that is closed with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		users:     make(map[string]*account),
		revoked:   make(map[string]bool),
		banned:    make(map[string]bool),
		summaries: make(map[int]string),
		hits:      make(map[string]int),
		auth:      make(map[string][]string),
		nextID:    1,
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string { return b.Server.URL }

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Post("/auth/login", b.handleLogin)
	r.Post("/auth/register", b.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)
		r.Get("/auth/me", b.handleMe)
		r.Get("/today", b.handleToday)
		r.Get("/morning/plan", b.handleMorningPlan)
		r.Post("/diary", b.handleDiary)
		r.Get("/history", b.handleHistory)
		r.Get("/history/{id}", b.handleHistoryEntry)
		r.Get("/settings", b.handleSettings)
		r.Post("/settings/city", b.handleCity)
		r.Post("/settings/notifications", b.handleNotifications)
	})
	return r
}

// AddUser registers an account directly.
func (b *Backend) AddUser(username, password, city string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = &account{
		password: password,
		user: model.User{
			ID:          len(b.users) + 1,
			Username:    username,
			City:        city,
			MorningTime: "07:30",
			EveningTime: "21:00",
		},
	}
}

// User returns the stored profile.
func (b *Backend) User(username string) (model.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.users[username]
	if !ok {
		return model.User{}, false
	}
	return a.user, true
}

// Token mints an access token for username.
func (b *Backend) Token(username string) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return s
}

// Revoke makes every request carrying token fail with 401.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = true
}

// RevokeUser makes every token issued to username fail with 401.
func (b *Backend) RevokeUser(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banned[username] = true
}

// AddEntry stores a diary entry as if it had been posted on date.
func (b *Backend) AddEntry(date string, mood int, good, improve, summary string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.history = append(b.history, model.HistoryDetails{ID: id, Date: date, Mood: mood, Good: good, Improve: improve})
	b.summaries[id] = summary
	return id
}

// Entries returns the stored diary entries in insertion order.
func (b *Backend) Entries() []model.HistoryDetails {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.HistoryDetails(nil), b.history...)
}

// Hits returns how many requests reached "METHOD /path".
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// AuthHeaders returns the Authorization header of every request to
// "METHOD /path", in arrival order. Absent headers are recorded as "".
func (b *Backend) AuthHeaders(route string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auth[route]...)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.hits[key]++
		b.auth[key] = append(b.auth[key], r.Header.Get("Authorization"))
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Missing Authorization Header"})
			return
		}
		b.mu.Lock()
		revoked := b.revoked[raw]
		b.mu.Unlock()
		if revoked {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
			return
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return signingKey, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Invalid token"})
			return
		}
		b.mu.Lock()
		banned := b.banned[claims.Subject]
		b.mu.Unlock()
		if banned {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has been revoked"})
			return
		}
		if _, ok := b.User(claims.Subject); !ok {
			writeJSON(w, http.StatusNotFound, model.ErrorBody{Err: "User not found"})
			return
		}
		r.Header.Set("X-Test-User", claims.Subject)
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorBody{Err: "invalid JSON"})
		return
	}
	b.mu.Lock()
	a, ok := b.users[req.Username]
	b.mu.Unlock()
	if !ok || a.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, model.ErrorBody{Err: "Invalid username or password"})
		return
	}
	u := a.user
	writeJSON(w, http.StatusOK, model.LoginResponse{
		Message:      "Login successful",
		User:         &u,
		AccessToken:  b.Token(req.Username),
		RefreshToken: "refresh-" + req.Username,
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorBody{Err: "invalid JSON"})
		return
	}
	if _, ok := b.User(req.Username); ok {
		writeJSON(w, http.StatusConflict, model.ErrorBody{Err: "Username already exists"})
		return
	}
	b.AddUser(req.Username, req.Password, req.City)
	u, _ := b.User(req.Username)
	writeJSON(w, http.StatusCreated, model.RegisterResponse{Message: "User created successfully", User: &u})
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := b.User(r.Header.Get("X-Test-User"))
	writeJSON(w, http.StatusOK, model.MeResponse{User: u})
}

func (b *Backend) handleToday(w http.ResponseWriter, r *http.Request) {
	u, _ := b.User(r.Header.Get("X-Test-User"))
	b.mu.Lock()
	plan := b.plan
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.Today{
		Date:        time.Now().Format(time.DateOnly),
		User:        u,
		MorningPlan: plan,
	})
}

func (b *Backend) handleMorningPlan(w http.ResponseWriter, r *http.Request) {
	if b.NoPlanGeneration {
		writeJSON(w, http.StatusInternalServerError, model.ErrorBody{Err: "AI service unavailable"})
		return
	}
	weather := "12.5°C, light rain"
	plan := &model.MorningPlan{
		ID:       "plan-1",
		Date:     time.Now().Format(time.DateOnly),
		PlanText: "Take a walk before lunch.",
		Weather:  &weather,
	}
	b.mu.Lock()
	b.plan = plan
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, plan)
}

func (b *Backend) handleDiary(w http.ResponseWriter, r *http.Request) {
	var e model.DiaryEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorBody{Err: "invalid JSON"})
		return
	}
	if e.Mood < model.MoodMin || e.Mood > model.MoodMax {
		writeJSON(w, http.StatusBadRequest, model.ErrorBody{Err: "Mood must be between 1 and 5"})
		return
	}
	id := b.AddEntry(time.Now().Format(time.DateOnly), e.Mood, e.Good, e.Improve, "")
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Saved", "id": id})
}

func (b *Backend) handleHistory(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	items := make([]model.HistoryItem, 0, len(b.history))
	for _, h := range b.history {
		items = append(items, model.HistoryItem{ID: h.ID, Date: h.Date, Summary: b.summaries[h.ID]})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (b *Backend) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorBody{Err: "invalid id"})
		return
	}
	for _, h := range b.Entries() {
		if h.ID == id {
			writeJSON(w, http.StatusOK, h)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, model.ErrorBody{Err: "Journal entry not found"})
}

func (b *Backend) handleSettings(w http.ResponseWriter, r *http.Request) {
	u, _ := b.User(r.Header.Get("X-Test-User"))
	writeJSON(w, http.StatusOK, model.Settings{City: u.City, MorningTime: u.MorningTime, EveningTime: u.EveningTime})
}

func (b *Backend) handleCity(w http.ResponseWriter, r *http.Request) {
	var req model.CityUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.City) == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorBody{Err: "City is required"})
		return
	}
	b.mu.Lock()
	b.users[r.Header.Get("X-Test-User")].user.City = req.City
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "City updated"})
}

func (b *Backend) handleNotifications(w http.ResponseWriter, r *http.Request) {
	var req model.NotificationUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MorningTime == "" || req.EveningTime == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorBody{Err: "morning_time and evening_time are required"})
		return
	}
	b.mu.Lock()
	a := b.users[r.Header.Get("X-Test-User")]
	a.user.MorningTime = req.MorningTime
	a.user.EveningTime = req.EveningTime
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification times updated"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
