package cli

import (
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a scheme or model by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if sc, ok := pc.DB.FindScheme(args[0]); ok {
				return writeOut(cmd, app, map[string]any{"data": sc, "meta": map[string]any{"kind": "scheme"}})
			}
			m, sc, err := resolveModel(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": modelView{Model: *m, SchemeID: sc.ID}, "meta": map[string]any{"kind": "model"}})
		},
	}
}
