package mutate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/store"
)

const coverBaseName = "scheme_cover"

// StoreThumbnail copies an image into dir as scheme_cover.<ext> (extension lower-cased, png when
// missing) and removes any other scheme_cover.* files there. It returns the stored path.
func StoreThumbnail(dir, source string) (string, error) {
	source = strings.TrimSpace(source)
	st, err := os.Stat(source)
	if err != nil {
		return "", &PathInvalidError{Path: source, Err: err}
	}
	if !st.Mode().IsRegular() {
		return "", &PathInvalidError{Path: source, Err: os.ErrInvalid}
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", &IOError{Op: "create", Path: dir, Err: err}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(source), "."))
	if ext == "" {
		ext = "png"
	}
	target := filepath.Join(dir, coverBaseName+"."+ext)
	srcAbs, _ := filepath.Abs(source)
	if !strings.EqualFold(filepath.Clean(srcAbs), target) {
		if err := fsutil.CopyFile(source, target); err != nil {
			return "", &IOError{Op: "copy", Path: source, Err: err}
		}
	}

	for _, dup := range fsutil.MatchFiles(dir, coverBaseName+".*") {
		if strings.EqualFold(dup, target) {
			continue
		}
		_ = os.Remove(dup)
	}
	return target, nil
}

// applyThumbnail updates *current for a record whose files live in dir. An empty source clears
// the thumbnail, deleting the old file only when it lives inside dir. When the image cannot be
// copied in, the source is referenced where it is.
func applyThumbnail(dir string, current *string, source string) error {
	source = strings.TrimSpace(source)
	old := *current
	if source == "" {
		if old != "" && fsutil.IsWithin(old, dir) {
			_ = os.Remove(old)
		}
		*current = ""
		return nil
	}

	stored, err := StoreThumbnail(dir, source)
	if err != nil {
		var pe *PathInvalidError
		if errors.As(err, &pe) {
			return err
		}
		abs, absErr := filepath.Abs(source)
		if absErr != nil {
			return err
		}
		stored = filepath.Clean(abs)
	}
	if old != "" && old != stored && fsutil.IsWithin(old, dir) {
		_ = os.Remove(old)
	}
	*current = stored
	return nil
}

// SetSchemeThumbnail stores source as the scheme's cover, or clears it when source is empty.
// Callers are responsible for saving db.
func SetSchemeThumbnail(db *store.DB, schemeID, source string) (string, error) {
	sc, ok := db.FindScheme(schemeID)
	if !ok {
		return "", NotFoundError{Kind: "scheme", ID: schemeID}
	}
	if err := applyThumbnail(sc.WorkingDirectory, &sc.ThumbnailPath, source); err != nil {
		return "", err
	}
	return sc.ThumbnailPath, nil
}
