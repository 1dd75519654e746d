package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asd977/FlexSimulate/internal/config"
	"github.com/asd977/FlexSimulate/internal/format"
	"github.com/asd977/FlexSimulate/internal/project"
	"github.com/asd977/FlexSimulate/internal/store"
	"github.com/asd977/FlexSimulate/internal/tui"
)

type App struct {
	Project    string
	PrettyJSON bool
	Format     string
	LogLevel   string

	settings config.Settings
	session  *project.Session
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "flexsim",
		Short:        "FlexSimulate project, scheme and model manager (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive tree
  flexsim

  # Create a project and import an existing scheme folder
  flexsim project new ~/sims Bridge
  flexsim scheme import ~/old/BridgeDeck

  # Direct record lookup (shortcut for: flexsim show <record-id>)
  flexsim 3f1c2a9e-5b7d-4e8f-9a0b-1c2d3e4f5a6b
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd.ErrOrStderr())
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.Project, "project", envOr("FLEXSIM_PROJECT", ""), "Project directory (default: the last project opened)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FLEXSIM_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Diagnostic log level (debug|info|warn|error; default from settings)")

	cmd.AddCommand(newProjectCmd(app))
	cmd.AddCommand(newSchemeCmd(app))
	cmd.AddCommand(newModelCmd(app))
	cmd.AddCommand(newLibraryCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newLogCmd(app))
	cmd.AddCommand(newShowCmd(app))

	return cmd
}

// setup loads settings and routes diagnostic logging to stderr.
func (app *App) setup(stderr io.Writer) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	app.settings = settings
	level := settings.SlogLevel()
	if app.LogLevel != "" {
		level = config.ParseLevel(app.LogLevel)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func (app *App) close() error {
	if app.session == nil {
		return nil
	}
	err := app.session.Close()
	app.session = nil
	return err
}

func runTUI(ctx context.Context, app *App) error {
	sess, err := loadSession(ctx, app)
	if err != nil {
		return err
	}
	return tui.Run(ctx, sess)
}

// loadSession opens --project, or otherwise whatever project startup resolution finds.
func loadSession(ctx context.Context, app *App) (*project.Session, error) {
	if app.session != nil {
		return app.session, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	sess := project.NewSession(app.settings, nil)
	if p := strings.TrimSpace(app.Project); p != "" {
		if err := sess.OpenProjectAt(ctx, p, true); err != nil {
			return nil, err
		}
	} else {
		sess.Startup(ctx)
	}
	app.session = sess
	return sess, nil
}

func requireProject(cmd *cobra.Command, app *App) (*project.Session, store.ProjectContext, error) {
	sess, err := loadSession(cmd.Context(), app)
	if err != nil {
		return nil, store.ProjectContext{}, err
	}
	pc := sess.Project()
	if !pc.IsOpen() {
		return nil, pc, fmt.Errorf("%w; run `flexsim project open <dir>` or pass --project", store.ErrNoProject)
	}
	return sess, pc, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func isTerminal(f *os.File) bool {
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

var errAborted = errors.New("aborted")
