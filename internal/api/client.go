// Package api is the typed client for the diary backend. Every call goes
// through a transport chain that tags the request, logs it and lets the
// session authorizer stamp the bearer token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/me/moodiary/internal/auth"
	"github.com/me/moodiary/internal/metrics"
	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/session"
	"github.com/me/moodiary/pkg/model"
)

// Client is an HTTP client for the diary backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	tokens *session.Tokens
	nav    navigation.Navigator
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
	timeout   time.Duration
	metrics   *metrics.Metrics
}

// WithTransport sets the innermost transport. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) { o.transport = rt }
}

// WithTimeout bounds each request. Zero means no limit.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// WithMetrics records request outcomes.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(o *clientOptions) { o.metrics = m }
}

// NewClient creates a diary API client. nav receives the navigation commands
// issued by login, logout and the authorizer, unless the request context
// carries its own navigator.
func NewClient(baseURL string, tokens *session.Tokens, nav navigation.Navigator, logger *slog.Logger, opts ...ClientOption) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	rt := Chain(o.transport,
		RequestID(),
		Logging(logger),
		auth.Middleware(tokens, nav,
			auth.WithLogger(logger),
			auth.WithMetrics(o.metrics),
		),
	)

	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Transport: rt, Timeout: o.timeout},
		Logger:     logger,
		tokens:     tokens,
		nav:        nav,
	}
}

// do performs an HTTP request and decodes a 2xx JSON body into out (if not
// nil). Non-2xx responses become *model.HTTPError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb model.ErrorBody
		_ = json.Unmarshal(respBody, &eb)
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    eb.Text(),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

func (c *Client) navigate(ctx context.Context, path string) error {
	nav := navigation.FromContext(ctx, c.nav)
	if nav == nil {
		return nil
	}
	return nav.Navigate(ctx, path)
}

// Tokens returns the session store the client stamps requests from.
func (c *Client) Tokens() *session.Tokens { return c.tokens }

// Login authenticates, stores the returned token pair and navigates to the
// today page.
func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	req := model.LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := ValidateLogin(req); err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		var he *model.HTTPError
		if errors.As(err, &he) && he.Message == "" {
			he.Message = "Wrong username or password"
		}
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("login response carries no access token")
	}

	if err := c.tokens.Set(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	c.Logger.Info("logged in", "username", req.Username)

	if err := c.navigate(ctx, navigation.TodayRoute); err != nil {
		return &resp, err
	}
	return &resp, nil
}

// Register creates an account and navigates to the login page. It does not
// log the new user in.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.City = strings.TrimSpace(req.City)
	if err := ValidateRegister(req); err != nil {
		return nil, err
	}

	var resp model.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		var he *model.HTTPError
		if errors.As(err, &he) && he.Message == "" {
			he.Message = "Registration failed"
		}
		return nil, err
	}

	if err := c.navigate(ctx, navigation.LoginRoute); err != nil {
		return &resp, err
	}
	return &resp, nil
}

// Logout ends the session locally and navigates to the login page. No
// request is sent.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.Logger.Info("logged out")
	return c.navigate(ctx, navigation.LoginRoute)
}

// Me returns the profile of the logged-in user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var resp model.MeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
