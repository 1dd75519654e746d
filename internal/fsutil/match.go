package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchName reports whether a base file name matches a glob pattern such as "*.json".
// Matching is case-insensitive: model folders frequently come from Windows machines.
func MatchName(pattern, name string) bool {
	ok, err := doublestar.Match(strings.ToLower(pattern), strings.ToLower(name))
	return err == nil && ok
}

// MatchFiles returns the regular files directly inside dir whose names match pattern,
// in lexical order.
func MatchFiles(dir, pattern string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !MatchName(pattern, e.Name()) {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if st, err := os.Stat(full); err != nil || !st.Mode().IsRegular() {
			continue
		}
		out = append(out, full)
	}
	return out
}

// FirstMatch returns the first file in dir matching pattern.
func FirstMatch(dir, pattern string) (string, bool) {
	files := MatchFiles(dir, pattern)
	if len(files) == 0 {
		return "", false
	}
	return files[0], true
}

// LatestMatch returns the most recently modified file in dir matching pattern.
func LatestMatch(dir, pattern string) (string, bool) {
	var best string
	var bestAt time.Time
	for _, f := range MatchFiles(dir, pattern) {
		st, err := os.Stat(f)
		if err != nil {
			continue
		}
		if best == "" || st.ModTime().After(bestAt) {
			best, bestAt = f, st.ModTime()
		}
	}
	return best, best != ""
}
