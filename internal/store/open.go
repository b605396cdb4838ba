package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/me/moodiary/internal/config"
)

// Open builds the Store selected by cfg.Store. SQLite stores are migrated
// before they are returned. A non-empty cfg.Profile gives the sqlite and
// redis backends a key space of their own.
func Open(ctx context.Context, cfg config.ClientConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreRedis:
		prefix := cfg.RedisPrefix
		if cfg.Profile != "" {
			prefix += cfg.Profile + ":"
		}
		return DialRedis(ctx, cfg.RedisAddr, prefix, logger)
	case config.StoreFile:
		path, err := cfg.ResolveStorePath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path, logger), nil
	case config.StoreSQLite, "":
		path, err := cfg.ResolveStorePath()
		if err != nil {
			return nil, err
		}
		st, err := NewSQLiteStore(path, logger)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate %s: %w", path, err)
		}
		if cfg.Profile != "" {
			return st.WithNamespace(cfg.Profile), nil
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
