package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/view"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's plan, weather and mood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Enter(cmd.Context(), navigation.TodayRoute); err != nil {
				return err
			}
			today, err := app.Client.Today(cmd.Context())
			if err != nil {
				return explain(err, "load today")
			}
			printToday(cmd.OutOrStdout(), view.NewToday(today, app.Tokens.Username()))
			return nil
		},
	}
}

func printToday(out io.Writer, v view.Today) {
	if v.Greeting != "" {
		fmt.Fprintf(out, "Good day, %s\n", v.Greeting)
	} else {
		fmt.Fprintln(out, "Good day")
	}
	if v.City != "" {
		fmt.Fprintf(out, "%s · %s\n", v.Date, v.City)
	} else {
		fmt.Fprintln(out, v.Date)
	}
	fmt.Fprintln(out)

	if v.Weather != "" {
		fmt.Fprintf(out, "%s  %s %s\n\n", v.WeatherEmoji, v.Temperature, v.Condition)
	}

	fmt.Fprintln(out, "Morning plan")
	if v.PlanText != "" {
		printIndented(out, v.PlanText)
	} else {
		fmt.Fprintln(out, "  (not ready yet)")
	}

	if v.EveningPrompt != "" {
		fmt.Fprintln(out, "\nTonight")
		printIndented(out, v.EveningPrompt)
	}

	if v.Mood > 0 {
		fmt.Fprintf(out, "\nYour day %s\n", v.MoodEmoji)
		if v.Summary != "" {
			printIndented(out, v.Summary)
		}
	} else {
		fmt.Fprintln(out, "\nNo entry yet. Run 'diary write' tonight.")
	}
}

func printIndented(out io.Writer, text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
