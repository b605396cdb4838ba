package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/internal/view"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [entry_id]",
		Short: "List past entries, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Enter(cmd.Context(), navigation.HistoryRoute); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid entry id %q", args[0])
				}
				d, err := app.Client.HistoryEntry(cmd.Context(), id)
				if err != nil {
					return explain(err, "get entry")
				}
				v := view.NewHistoryDetails(d)
				fmt.Fprintf(out, "%s  %s\n\n", v.MoodIcon, v.Date)
				fmt.Fprintln(out, "What went well")
				printIndented(out, v.Good)
				fmt.Fprintln(out, "\nWhat could be better")
				printIndented(out, v.Improve)
				return nil
			}

			items, err := app.Client.History(cmd.Context())
			if err != nil {
				return explain(err, "list history")
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No entries yet.")
				return nil
			}

			fmt.Fprintf(out, "%-6s  %-12s  %-14s  %s\n", "ID", "DATE", "AGE", "SUMMARY")
			fmt.Fprintf(out, "%-6s  %-12s  %-14s  %s\n", "--", "----", "---", "-------")
			for _, row := range view.NewHistory(items, time.Now()) {
				fmt.Fprintf(out, "%-6d  %-12s  %-14s  %s\n", row.ID, row.Date, row.Age, row.Summary)
			}
			return nil
		},
	}
}
