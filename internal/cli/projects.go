package cli

import (
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project commands (open, new, close, status)",
	}
	cmd.AddCommand(newProjectOpenCmd(app))
	cmd.AddCommand(newProjectNewCmd(app))
	cmd.AddCommand(newProjectCloseCmd(app))
	cmd.AddCommand(newProjectStatusCmd(app))
	return cmd
}

func newProjectOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open <dir>",
		Short: "Open (or initialize) a project directory and remember it as the last project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.OpenProjectAt(cmd.Context(), args[0], false); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newProjectView(sess.Project())})
		},
	}
}

func newProjectNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new <parent-dir> <name>",
		Short: "Create <parent-dir>/<name> as a new project and open it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := sess.CreateProject(cmd.Context(), args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newProjectView(sess.Project())})
		},
	}
}

func newProjectCloseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the current project and forget it as the last project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.EnterProjectless()
			return writeOut(cmd, app, map[string]any{"data": newProjectView(sess.Project())})
		},
	}
}

func newProjectStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newProjectView(sess.Project())})
		},
	}
}
