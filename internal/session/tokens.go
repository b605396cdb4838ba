// Package session holds the signed-in user's credentials for the lifetime
// of the process and mirrors them into durable storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/moodiary/internal/store"
	"github.com/me/moodiary/pkg/model"
)

// Storage keys, shared with every store backend.
const (
	AccessTokenKey  = "token"
	RefreshTokenKey = "refresh_token"
)

// Reader is the read side of the token store. The guard and the request
// authorizer only need this.
type Reader interface {
	Get() model.Session
}

// Tokens is the single source of truth for the current session's
// credentials. Reads are served from memory and never block on storage;
// writes go to memory first and then to the backing store.
//
// writeMu serializes Set and Clear across both the memory update and the
// persistence, so the last writer wins in memory and on disk alike. mu only
// guards current, so Get never waits for storage.
type Tokens struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	current model.Session

	backend store.Store
	logger  *slog.Logger
}

// Open loads the persisted session from backend. A session written by an
// earlier process is picked up here.
func Open(ctx context.Context, backend store.Store, logger *slog.Logger) (*Tokens, error) {
	t := &Tokens{
		backend: backend,
		logger:  logger.With("component", "session"),
	}

	access, _, err := backend.Get(ctx, AccessTokenKey)
	if err != nil {
		return nil, fmt.Errorf("load access token: %w", err)
	}
	refresh, _, err := backend.Get(ctx, RefreshTokenKey)
	if err != nil {
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	t.current = model.Session{AccessToken: access, RefreshToken: refresh}

	t.logger.Debug("session loaded", "authenticated", t.current.IsAuthenticated())
	return t, nil
}

// Get returns the current session. Absent fields are empty.
func (t *Tokens) Get() model.Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Set overwrites the session. An empty refresh token removes any stored one.
// The in-memory value is updated even if persisting fails, so the running
// process stays consistent with what the caller asked for.
func (t *Tokens) Set(ctx context.Context, access, refresh string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.mu.Lock()
	t.current = model.Session{AccessToken: access, RefreshToken: refresh}
	t.mu.Unlock()

	var errs []error
	errs = append(errs, t.put(ctx, AccessTokenKey, access))
	errs = append(errs, t.put(ctx, RefreshTokenKey, refresh))
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	t.logger.Debug("session stored", "has_refresh", refresh != "")
	return nil
}

// Clear removes both tokens. Clearing an empty session is a no-op.
func (t *Tokens) Clear(ctx context.Context) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.mu.Lock()
	t.current = model.Session{}
	t.mu.Unlock()

	err := errors.Join(
		t.backend.Remove(ctx, AccessTokenKey),
		t.backend.Remove(ctx, RefreshTokenKey),
	)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	t.logger.Debug("session cleared")
	return nil
}

func (t *Tokens) put(ctx context.Context, key, value string) error {
	if value == "" {
		return t.backend.Remove(ctx, key)
	}
	return t.backend.Set(ctx, key, value)
}
