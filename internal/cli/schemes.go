package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/store"
)

func newSchemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scheme",
		Aliases: []string{"schemes"},
		Short:   "Scheme commands",
	}
	cmd.AddCommand(newSchemeListCmd(app))
	cmd.AddCommand(newSchemeShowCmd(app))
	cmd.AddCommand(newSchemeImportCmd(app))
	cmd.AddCommand(newSchemeNewCmd(app))
	cmd.AddCommand(newSchemeRenameCmd(app))
	cmd.AddCommand(newSchemeRemarksCmd(app))
	cmd.AddCommand(newSchemeThumbnailCmd(app))
	cmd.AddCommand(newSchemeMoveCmd(app))
	cmd.AddCommand(newSchemeRescanCmd(app))
	cmd.AddCommand(newSchemeDeleteCmd(app))
	return cmd
}

func newSchemeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schemes in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			schemes := pc.DB.Schemes
			if schemes == nil {
				schemes = []model.Scheme{}
			}
			return writeOut(cmd, app, map[string]any{"data": schemes})
		},
	}
}

func newSchemeShowCmd(app *App) *cobra.Command {
	var render bool
	cmd := &cobra.Command{
		Use:   "show <scheme>",
		Short: "Show a scheme (id or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if render {
				return writeSchemeText(cmd.OutOrStdout(), sc)
			}
			return writeOut(cmd, app, map[string]any{"data": sc})
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "Print a readable summary with remarks rendered as Markdown")
	return cmd
}

func writeSchemeText(w io.Writer, sc *model.Scheme) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", sc.Name)
	fmt.Fprintf(&b, "  id:        %s\n", sc.ID)
	fmt.Fprintf(&b, "  directory: %s\n", sc.WorkingDirectory)
	if sc.ThumbnailPath != "" {
		fmt.Fprintf(&b, "  thumbnail: %s\n", sc.ThumbnailPath)
	}
	fmt.Fprintf(&b, "  models:    %d\n", len(sc.Models))
	for _, m := range sc.Models {
		fmt.Fprintf(&b, "    - %s (%s)\n", m.Name, m.ID)
	}
	if r := renderRemarks(sc.Remarks, 80); r != "" {
		b.WriteString("\n")
		b.WriteString(r)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func newSchemeImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>...",
		Short: "Import scheme folders (a folder already bound to a scheme is resynced)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.Nav().HandleExternalDrop(args, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{"data": map[string]any{
				"schemeIds": nonNil(res.SchemeIDs),
				"failures":  failureViews(res.Failures),
			}}
			if err := writeOut(cmd, app, out); err != nil {
				return err
			}
			if len(res.SchemeIDs) == 0 {
				return writeErr(cmd, fmt.Errorf("nothing imported (%d failure(s))", len(res.Failures)))
			}
			return nil
		},
	}
}

func newSchemeNewCmd(app *App) *cobra.Command {
	var template, thumbnail string
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a scheme in the workspace, optionally from a template folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var id string
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				sc, err := mutate.CreateScheme(db, mutate.CreateSchemeInput{
					Name:        args[0],
					TemplateDir: template,
					Thumbnail:   thumbnail,
				}, sess.Patterns())
				if err != nil {
					return false, err
				}
				id = sc.ID
				return true, nil
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, _ := pc.DB.FindScheme(id)
			sess.Log().Info(fmt.Sprintf("created scheme %s", sc.Name))
			return writeOut(cmd, app, map[string]any{"data": sc})
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Template folder copied into the new working directory")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Cover image to store with the scheme")
	return cmd
}

func newSchemeRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <scheme> <new-name>",
		Short: "Rename a scheme (rejected when another scheme already has the name)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id := sc.ID
			var res mutate.RenameResult
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				res, err = mutate.RenameScheme(db, id, args[1])
				return res.Changed, err
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
}

func newSchemeRemarksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remarks <scheme> <text|->",
		Short: "Set scheme remarks (Markdown; '-' reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			text, err := readTextArg(cmd, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			id := sc.ID
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				return mutate.SetSchemeRemarks(db, id, text)
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, _ = pc.DB.FindScheme(id)
			return writeOut(cmd, app, map[string]any{"data": sc})
		},
	}
}

func newSchemeThumbnailCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "thumbnail <scheme> [image]",
		Short: "Set the scheme cover image (omit the image to clear it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			source := ""
			if len(args) == 2 {
				source = args[1]
			}
			id := sc.ID
			var stored string
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				stored, err = mutate.SetSchemeThumbnail(db, id, source)
				return err == nil, err
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "thumbnail": stored}})
		},
	}
}

func newSchemeMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <scheme> <index>",
		Short: "Move a scheme to a position in the display order (0-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid index %q", args[1]))
			}
			id := sc.ID
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				return mutate.MoveScheme(db, id, index)
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": schemeIDs(pc.DB)})
		},
	}
}

func newSchemeRescanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rescan <scheme>",
		Short: "Replace a scheme's models with the model folders found on disk (ids and remarks are not kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id := sc.ID
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				_, err := mutate.RescanScheme(db, id, sess.Patterns())
				return err == nil, err
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, _ = pc.DB.FindScheme(id)
			sess.Log().Info(fmt.Sprintf("rescanned scheme %s: %d model(s)", sc.Name, len(sc.Models)))
			return writeOut(cmd, app, map[string]any{"data": sc})
		},
	}
}

func newSchemeDeleteCmd(app *App) *cobra.Command {
	var files, yes bool
	cmd := &cobra.Command{
		Use:   "delete <scheme>",
		Short: "Remove a scheme record (and with --files its working directory)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := resolveScheme(pc.DB, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !yes {
				if err := confirmDelete(cmd.InOrStdin(), "scheme", sc.Name, files); err != nil {
					return writeErr(cmd, err)
				}
			}
			id := sc.ID
			var res mutate.RemoveSchemeResult
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				res, err = mutate.RemoveScheme(db, id, files)
				return res.Scheme.ID != "", err
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.Log().Info(fmt.Sprintf("deleted scheme %s", res.Scheme.Name))
			return writeOut(cmd, app, map[string]any{"data": res.Scheme})
		},
	}
	cmd.Flags().BoolVar(&files, "files", false, "Also delete the working directory")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func schemeIDs(db *store.DB) []string {
	out := make([]string, 0, len(db.Schemes))
	for _, sc := range db.Schemes {
		out = append(out, sc.ID)
	}
	return out
}

// readTextArg returns arg, or stdin when arg is "-".
func readTextArg(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	in := cmd.InOrStdin()
	if in == nil {
		in = os.Stdin
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
