package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/moodiary/internal/navigation"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change city and reminder times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Enter(cmd.Context(), navigation.SettingsRoute); err != nil {
				return err
			}
			s, err := app.Client.Settings(cmd.Context())
			if err != nil {
				return explain(err, "load settings")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "City:    %s\n", s.City)
			fmt.Fprintf(out, "Morning: %s\n", s.MorningTime)
			fmt.Fprintf(out, "Evening: %s\n", s.EveningTime)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "city <name>",
			Short: "Change the city used for the weather",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Enter(cmd.Context(), navigation.SettingsRoute); err != nil {
					return err
				}
				if err := app.Client.SetCity(cmd.Context(), args[0]); err != nil {
					return explain(err, "set city")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "City set to %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "notifications <morning HH:MM> <evening HH:MM>",
			Short: "Change the reminder times",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Enter(cmd.Context(), navigation.SettingsRoute); err != nil {
					return err
				}
				if err := app.Client.SetNotifications(cmd.Context(), args[0], args[1]); err != nil {
					return explain(err, "set notifications")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reminders set to %s and %s\n", args[0], args[1])
				return nil
			},
		},
	)
	return cmd
}
