package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/moodiary/internal/navigation"
	"github.com/me/moodiary/pkg/model"
)

func newWriteCmd() *cobra.Command {
	var entry model.DiaryEntry

	cmd := &cobra.Command{
		Use:     "write",
		Aliases: []string{"diary"},
		Short:   "Record today's mood and reflection",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Enter(cmd.Context(), navigation.DiaryRoute); err != nil {
				return err
			}

			p := newPrompter(cmd)
			if err := p.ask("What went well", &entry.Good); err != nil {
				return err
			}
			if err := p.ask("What could be better", &entry.Improve); err != nil {
				return err
			}

			if err := app.Client.SubmitDiary(cmd.Context(), entry); err != nil {
				return explain(err, "save entry")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved ✅")
			return nil
		},
	}

	cmd.Flags().IntVarP(&entry.Mood, "mood", "m", 0, "Mood from 1 (bad) to 5 (great)")
	cmd.Flags().StringVar(&entry.Good, "good", "", "What went well (prompted if omitted)")
	cmd.Flags().StringVar(&entry.Improve, "improve", "", "What could be better (prompted if omitted)")
	return cmd
}
