// Package cli implements the diary command line client.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/moodiary/internal/config"
	"github.com/me/moodiary/internal/logging"
)

var (
	flagServer    string
	flagConfig    string
	flagStore     string
	flagStorePath string
	flagProfile   string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	app    *App
)

// NewRootCmd creates the root cobra command for the diary CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "diary",
		Short: "moodiary: a mood diary in your terminal",
		Long:  "diary logs you in to the diary backend, records your mood and reflections, and shows your day.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			app, err = NewApp(cmd.Context(), cfg, logger)
			return err
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagServer, "server", "", "Diary backend URL (or DIARY_SERVER env, default http://localhost:5000)")
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/.moodiary/config.yaml)")
	pf.StringVar(&flagStore, "store", "", "Session store: sqlite, file, redis, memory")
	pf.StringVar(&flagStorePath, "store-path", "", "Session store location for sqlite and file")
	pf.StringVar(&flagProfile, "profile", "", "Session profile, for several accounts in one store")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format (text, json, auto)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newWhoamiCmd(),
		newTodayCmd(),
		newWriteCmd(),
		newHistoryCmd(),
		newSettingsCmd(),
		newServeCmd(),
	)

	return root
}

// Execute runs the CLI and releases the session store afterwards.
func Execute(ctx context.Context) error {
	err := NewRootCmd().ExecuteContext(ctx)
	if app != nil {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
		app = nil
	}
	return err
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (config.ClientConfig, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = flagServer
	}
	if flags.Changed("store") {
		cfg.Store = flagStore
	}
	if flags.Changed("store-path") {
		cfg.StorePath = flagStorePath
	}
	if flags.Changed("profile") {
		cfg.Profile = flagProfile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w (config %s)", err, path)
	}
	return cfg, nil
}
