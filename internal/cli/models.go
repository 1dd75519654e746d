package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/nav"
	"github.com/asd977/FlexSimulate/internal/runner"
	"github.com/asd977/FlexSimulate/internal/store"
)

func newModelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "model",
		Aliases: []string{"models"},
		Short:   "Model commands",
	}
	cmd.AddCommand(newModelListCmd(app))
	cmd.AddCommand(newModelShowCmd(app))
	cmd.AddCommand(newModelImportCmd(app))
	cmd.AddCommand(newModelRenameCmd(app))
	cmd.AddCommand(newModelRemarksCmd(app))
	cmd.AddCommand(newModelMoveCmd(app))
	cmd.AddCommand(newModelDeleteCmd(app))
	cmd.AddCommand(newModelRunCmd(app))
	return cmd
}

type modelView struct {
	model.Model
	SchemeID string `json:"schemeId"`
}

func newModelListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [scheme]",
		Short: "List models, optionally of one scheme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			schemes := pc.DB.Schemes
			if len(args) == 1 {
				sc, err := resolveScheme(pc.DB, args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				schemes = []model.Scheme{*sc}
			}
			out := []modelView{}
			for _, sc := range schemes {
				for _, m := range sc.Models {
					out = append(out, modelView{Model: m, SchemeID: sc.ID})
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newModelShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <model>",
		Short: "Show a model (id, name, or <scheme>/<model>)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, sc, err := resolveModel(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": modelView{Model: *m, SchemeID: sc.ID}})
		},
	}
}

func newModelImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <scheme> <path>...",
		Short: "Move model folders into a scheme's working directory and add them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.Nav().HandleExternalDrop(args[1:], nav.SchemeNode{ID: sc.ID})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"schemeId": sc.ID,
				"modelIds": nonNil(res.ModelIDs),
				"failures": failureViews(res.Failures),
			}})
		},
	}
}

func newModelRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <model> <new-name>",
		Short: "Rename a model (rejected when its scheme already has a model with the name)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, _, err := resolveModel(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id := m.ID
			var res mutate.RenameResult
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				res, err = mutate.RenameModel(db, id, args[1])
				return res.Changed, err
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}

func newModelRemarksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remarks <model> <text|->",
		Short: "Set model remarks ('-' reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, _, err := resolveModel(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			text, err := readTextArg(cmd, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			id := m.ID
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				return mutate.SetModelRemarks(db, id, text)
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			m, sc, _ := pc.DB.FindModel(id)
			return writeOut(cmd, app, map[string]any{"data": modelView{Model: *m, SchemeID: sc.ID}})
		},
	}
}

func newModelMoveCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "move <model> <index>",
		Short: "Reorder a model within its scheme, or move its record to another scheme with --to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, _, err := resolveModel(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid index %q", args[1]))
			}
			target := ""
			if to != "" {
				sc, err := resolveScheme(pc.DB, to)
				if err != nil {
					return writeErr(cmd, err)
				}
				target = sc.ID
			}
			id := m.ID
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				return mutate.MoveModel(db, id, target, index)
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			moved, sc, _ := pc.DB.FindModel(id)
			return writeOut(cmd, app, map[string]any{"data": modelView{Model: *moved, SchemeID: sc.ID}})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Destination scheme (id or name)")
	return cmd
}

func newModelDeleteCmd(app *App) *cobra.Command {
	var files, yes bool
	cmd := &cobra.Command{
		Use:   "delete <model>",
		Short: "Remove a model record (and with --files its folder)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, _, err := resolveModel(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !yes {
				if err := confirmDelete(cmd.InOrStdin(), "model", m.Name, files); err != nil {
					return writeErr(cmd, err)
				}
			}
			id := m.ID
			var res mutate.RemoveModelResult
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				res, err = mutate.RemoveModel(db, id, files)
				return res.Model.ID != "", err
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.Log().Info(fmt.Sprintf("deleted model %s", res.Model.Name))
			return writeOut(cmd, app, map[string]any{"data": modelView{Model: res.Model, SchemeID: res.SchemeID}})
		},
	}
	cmd.Flags().BoolVar(&files, "files", false, "Also delete the model folder")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newModelRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <model>",
		Short: "Run a model's script in its folder and report the produced artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, _, err := resolveModel(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := runner.Run(cmd.Context(), *m, sess.Settings())
			if err != nil {
				sess.Log().Warn(fmt.Sprintf("could not run %s: %v", m.Name, err))
				return writeErr(cmd, err)
			}
			if res.OK() {
				sess.Log().Info(fmt.Sprintf("model %s finished", m.Name))
			} else {
				sess.Log().Warn(fmt.Sprintf("model %s exited with code %d", m.Name, res.ExitCode))
			}
			if err := writeOut(cmd, app, map[string]any{"data": res}); err != nil {
				return err
			}
			if !res.OK() {
				return writeErr(cmd, fmt.Errorf("script exited with code %d", res.ExitCode))
			}
			return nil
		},
	}
}
