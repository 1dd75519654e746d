package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/store"
)

func newLibraryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Scheme library commands",
	}
	cmd.AddCommand(newLibraryListCmd(app))
	cmd.AddCommand(newLibraryAddCmd(app))
	cmd.AddCommand(newLibraryRemoveCmd(app))
	cmd.AddCommand(newLibraryUseCmd(app))
	cmd.AddCommand(newLibraryThumbnailCmd(app))
	cmd.AddCommand(newLibraryTemplatesCmd(app))
	return cmd
}

func loadLibrary(cmd *cobra.Command, app *App) (*store.Library, error) {
	sess, err := loadSession(cmd.Context(), app)
	if err != nil {
		return nil, err
	}
	return sess.Library()
}

// resolveLibraryEntry accepts an entry id or a case-insensitive name.
func resolveLibraryEntry(lib *store.Library, ref string) (*model.LibraryEntry, error) {
	ref = strings.TrimSpace(ref)
	if e, ok := lib.Find(ref); ok {
		return e, nil
	}
	var names []string
	for i := range lib.Entries {
		if strings.EqualFold(lib.Entries[i].Name, ref) {
			return &lib.Entries[i], nil
		}
		names = append(names, lib.Entries[i].Name)
	}
	return nil, errNotFound("library entry", ref, names)
}

func newLibraryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library entries (user entries and built-in templates)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			entries := lib.Entries
			if entries == nil {
				entries = []model.LibraryEntry{}
			}
			return writeOut(cmd, app, map[string]any{"data": entries, "meta": map[string]any{"root": lib.Root}})
		},
	}
}

func newLibraryAddCmd(app *App) *cobra.Command {
	var template, thumbnail string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a library entry, copying a template folder into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			lib, err := sess.Library()
			if err != nil {
				return writeErr(cmd, err)
			}
			e, err := mutate.AddLibraryEntry(lib, mutate.AddLibraryEntryInput{
				Name:        args[0],
				TemplateDir: template,
				Thumbnail:   thumbnail,
			}, sess.Patterns())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Folder copied into the new library entry")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Cover image for the entry")
	return cmd
}

func newLibraryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry>",
		Short: "Remove a user library entry (built-in templates cannot be removed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			e, err := resolveLibraryEntry(lib, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			removed := *e
			if err := mutate.RemoveLibraryEntry(lib, removed.ID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": removed})
		},
	}
}

func newLibraryUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <entry>",
		Short: "Create a scheme in the current project from a library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, pc, err := requireProject(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			lib, err := sess.Library()
			if err != nil {
				return writeErr(cmd, err)
			}
			e, err := resolveLibraryEntry(lib, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			entry := *e
			var id string
			err = sess.Nav().Commit(func(db *store.DB) (bool, error) {
				sc, err := mutate.AddSchemeFromLibrary(db, entry, sess.Patterns())
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
			sess.Log().Info(fmt.Sprintf("added scheme %s from the library", sc.Name))
			return writeOut(cmd, app, map[string]any{"data": sc})
		},
	}
}

func newLibraryThumbnailCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "thumbnail <entry> [image]",
		Short: "Set a library entry's cover image (omit the image to clear it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			source := ""
			if len(args) == 2 {
				source = args[1]
			}
			e, err := resolveLibraryEntry(lib, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id := e.ID
			if err := mutate.SetLibraryThumbnail(lib, id, source); err != nil {
				return writeErr(cmd, err)
			}
			e, _ = lib.Find(id)
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}
}

func newLibraryTemplatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List folders a new scheme can be created from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ts, err := sess.Templates()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ts})
		},
	}
}
