package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asd977/FlexSimulate/internal/activity"
)

func newLogCmd(app *App) *cobra.Command {
	var n int
	var plain bool
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the project's activity log (imports, warnings, runs)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			entries, err := sess.Log().Tail(cmd.Context(), n)
			if err != nil {
				return writeErr(cmd, err)
			}
			if plain {
				for _, e := range entries {
					fmt.Fprintln(cmd.OutOrStdout(), e.String())
				}
				return nil
			}
			if entries == nil {
				entries = []activity.Entry{}
			}
			return writeOut(cmd, app, map[string]any{"data": entries})
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 50, "Number of most recent entries")
	cmd.Flags().BoolVar(&plain, "plain", false, "One line per entry instead of structured output")
	return cmd
}
