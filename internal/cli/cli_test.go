package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/me/moodiary/internal/api/apitest"
)

// testEnv is a fake backend plus a session store location shared by every
// command run in one test.
type testEnv struct {
	backend   *apitest.Backend
	storeArgs []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DIARY_SERVER", "")

	b := apitest.NewBackend(t)
	b.AddUser("alice", "Secret123", "Berlin")
	return &testEnv{
		backend:   b,
		storeArgs: []string{"--store", "file", "--store-path", filepath.Join(t.TempDir(), "credentials.json")},
	}
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	full := append([]string{"--server", e.backend.URL(), "--log-level", "error"}, e.storeArgs...)
	return runCLI(t, stdin, append(full, args...)...)
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	if out, err := e.run(t, "", "login", "-u", "alice", "-p", "Secret123"); err != nil {
		t.Fatalf("login: %v\noutput: %s", err, out)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	if app != nil {
		app.Close()
		app = nil
	}
	return buf.String(), err
}

func TestLoginCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "login", "--username", "alice", "--password", "Secret123")
	if err != nil {
		t.Fatalf("login error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Logged in as alice") {
		t.Errorf("expected confirmation, got: %s", out)
	}

	out, err = env.run(t, "", "status")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, "Session: stored") || !strings.Contains(out, "User:    alice") {
		t.Errorf("expected stored session for alice, got: %s", out)
	}
}

func TestLoginCommand_Prompt(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "alice\nSecret123\n", "login")
	if err != nil {
		t.Fatalf("login error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Username: ") || !strings.Contains(out, "Password: ") {
		t.Errorf("expected prompts, got: %s", out)
	}
	if !strings.Contains(out, "Logged in as alice") {
		t.Errorf("expected confirmation, got: %s", out)
	}
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "login", "-u", "alice", "-p", "nope")
	if err == nil {
		t.Fatalf("expected error, got output: %s", out)
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Error("a failed login is not an expired session")
	}
	if !strings.Contains(err.Error(), "Invalid username or password") {
		t.Errorf("expected backend message, got %v", err)
	}
}

func TestProtectedCommandsRequireLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{
		{"today"},
		{"history"},
		{"history", "1"},
		{"settings"},
		{"settings", "city", "Bonn"},
		{"write", "--mood", "3", "--good", "a", "--improve", "b"},
		{"whoami"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := env.run(t, "", args...)
			if !errors.Is(err, ErrLoginRequired) {
				t.Errorf("expected ErrLoginRequired, got %v", err)
			}
		})
	}
	if env.backend.Hits("GET /today") != 0 || env.backend.Hits("GET /auth/me") != 0 {
		t.Error("no request should be sent without a session")
	}
}

func TestTodayCommand(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, err := env.run(t, "", "today")
	if err != nil {
		t.Fatalf("today error: %v\noutput: %s", err, out)
	}
	for _, want := range []string{"Good day, Alice", "Berlin", "12.5°C light rain", "Take a walk before lunch.", "No entry yet."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.backend.RevokeUser("alice")

	_, err := env.run(t, "", "history")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	out, _ := env.run(t, "", "status")
	if !strings.Contains(out, "Session: none") {
		t.Errorf("expected cleared session to be persisted, got: %s", out)
	}

	before := env.backend.Hits("GET /history")
	_, err = env.run(t, "", "history")
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("expected ErrLoginRequired after expiry, got %v", err)
	}
	if env.backend.Hits("GET /history") != before {
		t.Error("expected no request after the session was cleared")
	}
}

func TestWriteCommand(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, err := env.run(t, "", "write", "--mood", "4", "--good", "Long walk", "--improve", "Screen time")
	if err != nil {
		t.Fatalf("write error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Saved") {
		t.Errorf("expected confirmation, got: %s", out)
	}

	// Texts may be typed at the prompt.
	out, err = env.run(t, "Coffee with Sam\nBed earlier\n", "diary", "-m", "5")
	if err != nil {
		t.Fatalf("diary alias error: %v\noutput: %s", err, out)
	}
	entries := env.backend.Entries()
	if len(entries) != 2 || entries[1].Good != "Coffee with Sam" || entries[1].Mood != 5 {
		t.Errorf("unexpected entries %+v", entries)
	}

	_, err = env.run(t, "", "write", "--mood", "9", "--good", "a", "--improve", "b")
	if err == nil || !strings.Contains(err.Error(), "mood") {
		t.Errorf("expected mood validation error, got %v", err)
	}
}

func TestHistoryCommand(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.backend.AddEntry("2025-09-16", 2, "Finished report", "Lunch break", "Busy")
	id := env.backend.AddEntry("2025-09-18", 5, "Beach", "Sunscreen", "Sunny and happy")

	out, err := env.run(t, "", "history")
	if err != nil {
		t.Fatalf("history error: %v\noutput: %s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 2 rows, got:\n%s", out)
	}
	if !strings.Contains(lines[2], "Thu, Sep 18") || !strings.Contains(lines[3], "Tue, Sep 16") {
		t.Errorf("expected newest first, got:\n%s", out)
	}

	out, err = env.run(t, "", "history", strconv.Itoa(id))
	if err != nil {
		t.Fatalf("history detail error: %v", err)
	}
	if !strings.Contains(out, "Thursday, September 18, 2025") || !strings.Contains(out, "Beach") {
		t.Errorf("unexpected detail output:\n%s", out)
	}

	if _, err := env.run(t, "", "history", "abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestSettingsCommands(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	if out, err := env.run(t, "", "settings", "city", "Leipzig"); err != nil {
		t.Fatalf("settings city: %v\n%s", err, out)
	}
	if out, err := env.run(t, "", "settings", "notifications", "06:30", "22:00"); err != nil {
		t.Fatalf("settings notifications: %v\n%s", err, out)
	}
	out, err := env.run(t, "", "settings")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	for _, want := range []string{"City:    Leipzig", "Morning: 06:30", "Evening: 22:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	if _, err := env.run(t, "", "settings", "notifications", "6:30", "22:00"); err == nil {
		t.Error("expected validation error for 6:30")
	}
}

func TestWhoamiCommand(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, err := env.run(t, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Username: alice") || !strings.Contains(out, "City:     Berlin") {
		t.Errorf("unexpected output:\n%s", out)
	}
	auth := env.backend.AuthHeaders("GET /auth/me")
	if len(auth) != 1 || !strings.HasPrefix(auth[0], "Bearer ") {
		t.Errorf("expected bearer token on /auth/me, got %q", auth)
	}
}

func TestLogoutCommand(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, err := env.run(t, "", "logout")
	if err != nil || !strings.Contains(out, "Logged out") {
		t.Fatalf("logout: %v\n%s", err, out)
	}
	if _, err := env.run(t, "", "today"); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("expected ErrLoginRequired after logout, got %v", err)
	}

	// Logging out twice is harmless.
	if _, err := env.run(t, "", "logout"); err != nil {
		t.Errorf("second logout: %v", err)
	}
}

func TestRegisterCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "register", "-u", "bob", "-p", "Password1", "--city", "Kiel")
	if err != nil {
		t.Fatalf("register: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Account bob created") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, ok := env.backend.User("bob"); !ok {
		t.Error("expected bob to exist")
	}

	_, err = env.run(t, "", "register", "-u", "carl", "-p", "short", "--city", "Kiel")
	if err == nil || !strings.Contains(err.Error(), "password") {
		t.Errorf("expected password validation error, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	env := newTestEnv(t)
	env.storeArgs = []string{"--store", "sqlite", "--store-path", filepath.Join(t.TempDir(), "session.db")}
	env.login(t)

	out, err := env.run(t, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Store:   sqlite") || !strings.Contains(out, "Session: stored") {
		t.Errorf("unexpected status:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	env := newTestEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	storePath := filepath.Join(t.TempDir(), "creds.json")
	data := "server: " + env.backend.URL() + "\nstore: file\nstore_path: " + storePath + "\nlog_level: error\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Server:  "+env.backend.URL()) || !strings.Contains(out, storePath) {
		t.Errorf("config file not applied:\n%s", out)
	}

	_, err = runCLI(t, "", "--config", cfgPath, "--store", "etcd", "status")
	if err == nil || !strings.Contains(err.Error(), "unknown store") {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestProfiles(t *testing.T) {
	env := newTestEnv(t)
	env.storeArgs = []string{"--store", "sqlite", "--store-path", filepath.Join(t.TempDir(), "session.db"), "--profile", "work"}
	env.login(t)

	out, err := env.run(t, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Profile: work") || !strings.Contains(out, "Session: stored") {
		t.Errorf("unexpected status for work profile:\n%s", out)
	}

	env.storeArgs[len(env.storeArgs)-1] = "home"
	out, err = env.run(t, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Session: none") {
		t.Errorf("expected no session for home profile:\n%s", out)
	}
}
