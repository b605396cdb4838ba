package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/me/moodiary/internal/api"
	"github.com/me/moodiary/internal/api/apitest"
	"github.com/me/moodiary/internal/logging"
	"github.com/me/moodiary/internal/metrics"
	"github.com/me/moodiary/internal/session"
	"github.com/me/moodiary/internal/store"
)

type testUI struct {
	backend *apitest.Backend
	tokens  *session.Tokens
	handler http.Handler
}

func setupUI(t *testing.T) *testUI {
	t.Helper()
	b := apitest.NewBackend(t)
	b.AddUser("alice", "Secret123", "Berlin")

	tokens, err := session.Open(context.Background(), store.NewMemoryStore(), logging.Discard())
	if err != nil {
		t.Fatalf("open tokens: %v", err)
	}
	m := metrics.New()
	client := api.NewClient(b.URL(), tokens, nil, logging.Discard(), api.WithMetrics(m))
	ui := New(client, tokens, m, logging.Discard())
	ui.now = func() time.Time { return time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC) }
	return &testUI{backend: b, tokens: tokens, handler: ui.Handler()}
}

func (u *testUI) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	u.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (u *testUI) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	u.handler.ServeHTTP(w, req)
	return w
}

func (u *testUI) login(t *testing.T) {
	t.Helper()
	u.tokens.Set(context.Background(), u.backend.Token("alice"), "refresh-alice")
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("expected redirect to %s, got %s", want, got)
	}
}

func TestProtectedPagesRequireSession(t *testing.T) {
	u := setupUI(t)
	for _, path := range []string{"/today", "/diary", "/history", "/history/1", "/settings"} {
		t.Run(path, func(t *testing.T) {
			expectRedirect(t, u.get(path), "/login")
		})
	}
	if u.backend.Hits("GET /today") != 0 {
		t.Error("guard must not call the backend")
	}
}

func TestRootAndUnknownRedirectToToday(t *testing.T) {
	u := setupUI(t)
	expectRedirect(t, u.get("/"), "/today")
	expectRedirect(t, u.get("/nowhere"), "/today")
}

func TestLoginFlow(t *testing.T) {
	u := setupUI(t)

	w := u.get("/login")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Welcome back") {
		t.Fatalf("expected login page, got %d", w.Code)
	}

	w = u.post("/login", url.Values{"username": {"alice"}, "password": {"Secret123"}})
	expectRedirect(t, w, "/today")
	if !u.tokens.Get().IsAuthenticated() {
		t.Fatal("expected session after login")
	}
	if w.Header().Get(api.RequestIDHeader) == "" {
		t.Error("expected X-Request-ID on the response")
	}

	w = u.get("/today")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "Good day, Alice") {
		t.Error("expected greeting for Alice")
	}
	if !strings.Contains(body, "Take a walk before lunch.") || !strings.Contains(body, "12.5°C") {
		t.Error("expected generated morning plan and temperature")
	}

	// Logged-in users skip the login page.
	expectRedirect(t, u.get("/login"), "/today")
}

func TestLoginFailure(t *testing.T) {
	u := setupUI(t)

	w := u.post("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid username or password") {
		t.Error("expected backend error message on the page")
	}

	w = u.post("/login", url.Values{"username": {"al"}, "password": {""}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if u.backend.Hits("POST /auth/login") != 1 {
		t.Error("invalid form must not reach the backend")
	}
}

func TestRegisterFlow(t *testing.T) {
	u := setupUI(t)

	w := u.post("/register", url.Values{"username": {"bob"}, "password": {"weak"}, "city": {"Kiel"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = u.post("/register", url.Values{"username": {"bob"}, "password": {"Password1"}, "city": {"Kiel"}})
	expectRedirect(t, w, "/login?registered=1")
	if !strings.Contains(u.get("/login?registered=1").Body.String(), "Account created") {
		t.Error("expected registration notice")
	}
}

func TestExpiredTokenEndsSession(t *testing.T) {
	u := setupUI(t)
	u.login(t)
	u.backend.Revoke(u.tokens.Get().AccessToken)

	expectRedirect(t, u.get("/history"), "/login")
	if !u.tokens.Get().IsZero() {
		t.Fatal("expected session cleared after 401")
	}

	// The guard now stops the next attempt before any request is made.
	before := u.backend.Hits("GET /history")
	expectRedirect(t, u.get("/history"), "/login")
	if u.backend.Hits("GET /history") != before {
		t.Error("expected no backend call once the session is gone")
	}
}

func TestLogout(t *testing.T) {
	u := setupUI(t)
	u.login(t)

	expectRedirect(t, u.get("/logout"), "/login")
	if u.tokens.Get().IsAuthenticated() {
		t.Error("expected session cleared")
	}
	expectRedirect(t, u.get("/today"), "/login")
}

func TestDiaryPost(t *testing.T) {
	u := setupUI(t)
	u.login(t)

	w := u.post("/diary", url.Values{"mood": {"5"}, "good": {"Sunshine"}, "improve": {"Less coffee"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Saved") {
		t.Fatalf("expected saved page, got %d", w.Code)
	}
	if n := len(u.backend.Entries()); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}

	w = u.post("/diary", url.Values{"mood": {"0"}, "good": {"x"}, "improve": {"y"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing mood, got %d", w.Code)
	}
}

func TestHistoryPages(t *testing.T) {
	u := setupUI(t)
	u.login(t)
	id := u.backend.AddEntry("2025-09-18", 5, "Ran 5k", "Sleep", "Energetic day")

	w := u.get("/history")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Thu, Sep 18") || !strings.Contains(body, "3 days ago") || !strings.Contains(body, "Energetic day") {
		t.Errorf("unexpected history page: %s", body)
	}

	w = u.get("/history/" + strconv.Itoa(id))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Thursday, September 18, 2025") {
		t.Errorf("unexpected entry page %d", w.Code)
	}

	if w := u.get("/history/abc"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for bad id, got %d", w.Code)
	}
	if w := u.get("/history/999"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing entry, got %d", w.Code)
	}
	if !u.tokens.Get().IsAuthenticated() {
		t.Error("a 404 must not end the session")
	}
}

func TestSettingsPages(t *testing.T) {
	u := setupUI(t)
	u.login(t)

	expectRedirect(t, u.post("/settings/city", url.Values{"city": {"Dresden"}}), "/settings?saved=city")
	expectRedirect(t, u.post("/settings/notifications", url.Values{"morning_time": {"06:00"}, "evening_time": {"20:30"}}), "/settings?saved=notifications")

	w := u.get("/settings?saved=city")
	body := w.Body.String()
	if !strings.Contains(body, `value="Dresden"`) || !strings.Contains(body, `value="06:00"`) || !strings.Contains(body, "City saved.") {
		t.Errorf("unexpected settings page: %s", body)
	}

	w = u.post("/settings/notifications", url.Values{"morning_time": {"6am"}, "evening_time": {"20:30"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	u := setupUI(t)
	u.get("/today")

	w := u.get("/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "moodiary_guard_denied_total 1") {
		t.Errorf("expected guard counter in metrics output")
	}
}
