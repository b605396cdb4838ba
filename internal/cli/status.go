package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/moodiary/internal/config"
	"github.com/me/moodiary/internal/session"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without contacting the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := app.Config

			fmt.Fprintf(out, "Server:  %s\n", cfg.BaseURL())
			where := cfg.Store
			switch cfg.Store {
			case config.StoreSQLite, config.StoreFile:
				if p, err := cfg.ResolveStorePath(); err == nil {
					where = fmt.Sprintf("%s (%s)", cfg.Store, p)
				}
			case config.StoreRedis:
				where = fmt.Sprintf("%s (%s, prefix %q)", cfg.Store, cfg.RedisAddr, cfg.RedisPrefix)
			}
			fmt.Fprintf(out, "Store:   %s\n", where)
			if cfg.Profile != "" {
				fmt.Fprintf(out, "Profile: %s\n", cfg.Profile)
			}

			s := app.Tokens.Get()
			if !s.IsAuthenticated() {
				fmt.Fprintln(out, "Session: none")
				return nil
			}
			fmt.Fprintln(out, "Session: stored")
			if sub, err := session.Subject(s.AccessToken); err == nil {
				fmt.Fprintf(out, "User:    %s\n", sub)
			}
			if s.RefreshToken != "" {
				fmt.Fprintln(out, "Refresh: stored")
			}
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.RequireSession(cmd.Context(), "/auth/me"); err != nil {
				return err
			}
			u, err := app.Client.Me(cmd.Context())
			if err != nil {
				return explain(err, "whoami")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username: %s\n", u.Username)
			fmt.Fprintf(out, "City:     %s\n", u.City)
			if u.MorningTime != "" || u.EveningTime != "" {
				fmt.Fprintf(out, "Reminders: %s / %s\n", u.MorningTime, u.EveningTime)
			}
			return nil
		},
	}
}
