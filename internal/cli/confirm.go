package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// confirmDelete asks before a record (and possibly its folder) is removed. Without a terminal
// the caller must pass --yes.
func confirmDelete(in io.Reader, kind, name string, withFiles bool) error {
	if f, ok := in.(*os.File); !ok || !isTerminal(f) {
		return fmt.Errorf("refusing to delete %s %q without --yes (stdin is not a terminal)", kind, name)
	}
	desc := "Only the record is removed; files stay on disk."
	if withFiles {
		desc = "The folder on disk is deleted as well."
	}
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %q?", kind, name)).
				Description(desc).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithInput(in)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errAborted
		}
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}
