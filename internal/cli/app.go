package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/me/moodiary/internal/api"
	"github.com/me/moodiary/internal/auth"
	"github.com/me/moodiary/internal/config"
	"github.com/me/moodiary/internal/metrics"
	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/session"
	"github.com/me/moodiary/internal/store"
	"github.com/me/moodiary/pkg/model"
)

// ErrLoginRequired is returned when a command needs a session and none is
// stored.
var ErrLoginRequired = errors.New("not logged in: run 'diary login' first")

// ErrSessionExpired is returned when the backend rejected the stored token.
// The session has already been cleared when this is reported.
var ErrSessionExpired = errors.New("session expired: run 'diary login' again")

// App wires the session pipeline for one CLI invocation.
type App struct {
	Config  config.ClientConfig
	Logger  *slog.Logger
	Store   store.Store
	Tokens  *session.Tokens
	Router  *navigation.Router
	Guard   *auth.Guard
	Metrics *metrics.Metrics
	Client  *api.Client
}

// NewApp opens the session store and builds the router, guard and client.
func NewApp(ctx context.Context, cfg config.ClientConfig, logger *slog.Logger) (*App, error) {
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	tokens, err := session.Open(ctx, st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	m := metrics.New()
	router := navigation.NewRouter(navigation.DefaultRoutes(), logger)
	guard := auth.NewGuard(tokens, router, auth.WithLogger(logger), auth.WithMetrics(m))
	router.UseGuard(guard.CanActivate)

	client := api.NewClient(cfg.BaseURL(), tokens, router, logger,
		api.WithTimeout(cfg.Timeout),
		api.WithMetrics(m),
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Tokens:  tokens,
		Router:  router,
		Guard:   guard,
		Metrics: m,
		Client:  client,
	}, nil
}

// Close releases the session store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Enter navigates to a page, running the guard for protected ones.
func (a *App) Enter(ctx context.Context, path string) error {
	err := a.Router.Navigate(ctx, path)
	if errors.Is(err, navigation.ErrCancelled) {
		return ErrLoginRequired
	}
	return err
}

// RequireSession runs the guard for calls that belong to no page.
func (a *App) RequireSession(ctx context.Context, what string) error {
	if !a.Guard.CanActivate(ctx, what) {
		return ErrLoginRequired
	}
	return nil
}

// explain maps backend failures onto CLI errors.
func explain(err error, action string) error {
	if err == nil {
		return nil
	}
	if model.IsUnauthorized(err) {
		return fmt.Errorf("%w (%v)", ErrSessionExpired, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
