package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends understood by store.Open.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// DirName is the per-user directory holding the session store and config.
const DirName = ".moodiary"

// ClientConfig holds configuration for the diary client and local UI.
type ClientConfig struct {
	Server      string        `yaml:"server"`       // Backend base URL
	Store       string        `yaml:"store"`        // Session store backend: sqlite, file, redis, memory
	StorePath   string        `yaml:"store_path"`   // sqlite/file location (default under ~/.moodiary)
	RedisAddr   string        `yaml:"redis_addr"`   // host:port for the redis backend
	RedisPrefix string        `yaml:"redis_prefix"` // key prefix for the redis backend
	Timeout     time.Duration `yaml:"timeout"`      // Per-request timeout
	LogLevel    string        `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string        `yaml:"log_format"`   // text, json, auto
	UIAddr      string        `yaml:"ui_addr"`      // Listen address for "diary serve"
	Profile     string        `yaml:"profile"`      // Keeps sessions apart when profiles share one sqlite or redis store
}

// DefaultClientConfig returns sensible defaults. DIARY_SERVER overrides the
// backend URL.
func DefaultClientConfig() ClientConfig {
	server := "http://localhost:5000"
	if s := os.Getenv("DIARY_SERVER"); s != "" {
		server = s
	}
	return ClientConfig{
		Server:      server,
		Store:       StoreSQLite,
		RedisAddr:   "localhost:6379",
		RedisPrefix: "moodiary:",
		Timeout:     30 * time.Second,
		LogLevel:    "info",
		LogFormat:   "text",
		UIAddr:      "127.0.0.1:4200",
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults are returned unchanged.
func Load(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used.
func (c ClientConfig) Validate() error {
	var problems []string

	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("server %q must be an http(s) URL", c.Server))
	}
	switch c.Store {
	case StoreSQLite, StoreFile, StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			problems = append(problems, "redis_addr is required for the redis store")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store %q (sqlite, file, redis, memory)", c.Store))
	}
	if c.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// BaseURL returns Server without a trailing slash.
func (c ClientConfig) BaseURL() string {
	return strings.TrimRight(c.Server, "/")
}

// ResolveStorePath returns StorePath, or the default location for the
// configured backend under ~/.moodiary.
func (c ClientConfig) ResolveStorePath() (string, error) {
	if c.StorePath != "" {
		return c.StorePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.Store == StoreFile {
		return filepath.Join(dir, "credentials.json"), nil
	}
	return filepath.Join(dir, "session.db"), nil
}

// Dir returns ~/.moodiary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns ~/.moodiary/config.yaml, or "" if the home directory
// cannot be found.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
