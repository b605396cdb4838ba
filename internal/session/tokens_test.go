package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/me/moodiary/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openTokens(t *testing.T, backend store.Store) *Tokens {
	t.Helper()
	tok, err := Open(context.Background(), backend, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return tok
}

// signedToken builds an HS256 token whose subject is sub.
func signedToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "type": "access"})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestTokens_EmptyStore(t *testing.T) {
	tok := openTokens(t, store.NewMemoryStore())
	sess := tok.Get()
	if sess.IsAuthenticated() {
		t.Error("expected no session on an empty store")
	}
	if !sess.IsZero() {
		t.Errorf("expected zero session, got %+v", sess)
	}
}

func TestTokens_SetGet(t *testing.T) {
	backend := store.NewMemoryStore()
	tok := openTokens(t, backend)
	ctx := context.Background()

	if err := tok.Set(ctx, "abc", "xyz"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	sess := tok.Get()
	if sess.AccessToken != "abc" || sess.RefreshToken != "xyz" {
		t.Errorf("Get() = %+v, want {abc xyz}", sess)
	}

	v, ok, _ := backend.Get(ctx, AccessTokenKey)
	if !ok || v != "abc" {
		t.Errorf("persisted access token = %q, %v", v, ok)
	}
	v, ok, _ = backend.Get(ctx, RefreshTokenKey)
	if !ok || v != "xyz" {
		t.Errorf("persisted refresh token = %q, %v", v, ok)
	}
}

func TestTokens_SetWithoutRefresh(t *testing.T) {
	backend := store.NewMemoryStore()
	tok := openTokens(t, backend)
	ctx := context.Background()

	tok.Set(ctx, "old", "old-refresh")
	if err := tok.Set(ctx, "new", ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := tok.Get(); got.RefreshToken != "" || got.AccessToken != "new" {
		t.Errorf("Get() = %+v", got)
	}
	if _, ok, _ := backend.Get(ctx, RefreshTokenKey); ok {
		t.Error("stale refresh token should have been removed")
	}
}

func TestTokens_Clear(t *testing.T) {
	backend := store.NewMemoryStore()
	tok := openTokens(t, backend)
	ctx := context.Background()

	tok.Set(ctx, "abc", "xyz")
	if err := tok.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok.Get().IsAuthenticated() {
		t.Error("expected no session after Clear")
	}
	if backend.Len() != 0 {
		t.Errorf("expected empty backend, got %d keys", backend.Len())
	}

	// Clearing again changes nothing.
	if err := tok.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if !tok.Get().IsZero() {
		t.Error("expected zero session after second Clear")
	}
}

func TestTokens_SurvivesReopen(t *testing.T) {
	backend := store.NewMemoryStore()
	ctx := context.Background()

	first := openTokens(t, backend)
	first.Set(ctx, "abc", "xyz")

	second := openTokens(t, backend)
	if got := second.Get(); got.AccessToken != "abc" || got.RefreshToken != "xyz" {
		t.Errorf("reopened session = %+v", got)
	}
}

type failingStore struct {
	*store.MemoryStore
	failWrites bool
	failReads  bool
}

func (f *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failReads {
		return "", false, errors.New("disk gone")
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *failingStore) Remove(ctx context.Context, key string) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	return f.MemoryStore.Remove(ctx, key)
}

func TestTokens_PersistFailureKeepsMemory(t *testing.T) {
	backend := &failingStore{MemoryStore: store.NewMemoryStore()}
	tok := openTokens(t, backend)
	ctx := context.Background()

	backend.failWrites = true
	if err := tok.Set(ctx, "abc", "xyz"); err == nil {
		t.Fatal("expected persist error")
	}
	if tok.Get().AccessToken != "abc" {
		t.Error("in-memory session should still be updated")
	}

	if err := tok.Clear(ctx); err == nil {
		t.Fatal("expected clear error")
	}
	if tok.Get().IsAuthenticated() {
		t.Error("in-memory session should be cleared even when storage fails")
	}
}

func TestOpen_ReadFailure(t *testing.T) {
	backend := &failingStore{MemoryStore: store.NewMemoryStore(), failReads: true}
	if _, err := Open(context.Background(), backend, testLogger()); err == nil {
		t.Fatal("expected error when the store cannot be read")
	}
}

func TestTokens_ConcurrentAccess(t *testing.T) {
	tok := openTokens(t, store.NewMemoryStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tok.Set(ctx, "abc", "xyz")
		}()
		go func() {
			defer wg.Done()
			sess := tok.Get()
			if sess.AccessToken != "" && sess.AccessToken != "abc" {
				t.Errorf("torn read: %+v", sess)
			}
		}()
	}
	wg.Wait()
}

// gatedStore blocks its first Set until release is closed.
type gatedStore struct {
	*store.MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Set(ctx context.Context, key, value string) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemoryStore.Set(ctx, key, value)
}

func TestTokens_ClearDuringSetPersist(t *testing.T) {
	backend := &gatedStore{
		MemoryStore: store.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	tok := openTokens(t, backend)
	ctx := context.Background()

	setDone := make(chan error, 1)
	go func() { setDone <- tok.Set(ctx, "abc", "xyz") }()
	<-backend.entered

	clearDone := make(chan error, 1)
	go func() { clearDone <- tok.Clear(ctx) }()

	select {
	case <-clearDone:
		t.Fatal("expected Clear to wait for the pending Set to finish persisting")
	case <-time.After(50 * time.Millisecond):
	}
	close(backend.release)

	if err := <-setDone; err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := <-clearDone; err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if !tok.Get().IsZero() {
		t.Errorf("expected empty session in memory, got %+v", tok.Get())
	}
	reopened := openTokens(t, backend)
	if got := reopened.Get(); !got.IsZero() {
		t.Errorf("expected empty session after reopen, got %+v", got)
	}
}

func TestSubject(t *testing.T) {
	got, err := Subject(signedToken(t, "alice"))
	if err != nil {
		t.Fatalf("Subject: %v", err)
	}
	if got != "alice" {
		t.Errorf("Subject() = %q, want alice", got)
	}

	if _, err := Subject(""); !errors.Is(err, ErrNoSubject) {
		t.Errorf("empty token err = %v, want ErrNoSubject", err)
	}
	if _, err := Subject("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestTokens_Username(t *testing.T) {
	tok := openTokens(t, store.NewMemoryStore())
	if tok.Username() != "" {
		t.Error("expected empty username without a session")
	}

	tok.Set(context.Background(), signedToken(t, "bob"), "")
	if tok.Username() != "bob" {
		t.Errorf("Username() = %q, want bob", tok.Username())
	}

	tok.Set(context.Background(), "opaque", "")
	if tok.Username() != "" {
		t.Errorf("opaque token should yield empty username, got %q", tok.Username())
	}
}
