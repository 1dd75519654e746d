// Package fsutil holds the filesystem primitives the record store is built on:
// canonical paths, recursive copy/move and collision-free child names.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Canonicalize returns the absolute, symlink-resolved, cleaned form of path.
//
// Paths that do not exist yet are still comparable: the deepest existing ancestor is
// resolved and the missing tail is appended. An empty input yields "".
func Canonicalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return filepath.Clean(resolved)
	}

	dir := abs
	var tail []string
	for {
		parent := filepath.Dir(dir)
		tail = append([]string{filepath.Base(dir)}, tail...)
		if parent == dir {
			return abs
		}
		if resolved, err := filepath.EvalSymlinks(parent); err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...)
		}
		dir = parent
	}
}

// SamePath reports whether a and b name the same canonical location.
func SamePath(a, b string) bool {
	ca, cb := Canonicalize(a), Canonicalize(b)
	return ca != "" && ca == cb
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// EnsureDir creates path (and parents) unless it already exists as a directory.
func EnsureDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("ensure dir: empty path")
	}
	if IsDir(path) {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

func CopyFile(src string, dest string) error {
	src = filepath.Clean(src)
	dest = filepath.Clean(dest)
	if src == "" || dest == "" {
		return errors.New("copy file: missing src/dest")
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	// Existing destination files are replaced, not merged.
	_ = os.Remove(dest)
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CopyTree copies the directory src into dst recursively, overwriting files that already
// exist at the destination. A failed copy is not rolled back.
func CopyTree(src, dst string) error {
	if !IsDir(src) {
		return fmt.Errorf("copy tree: source is not a directory: %s", src)
	}
	if IsWithin(Canonicalize(dst), Canonicalize(src)) {
		return fmt.Errorf("copy tree: destination %s is inside source %s", dst, src)
	}
	return copyTree(src, dst)
}

func copyTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dst, e.Name())
		if IsDir(from) {
			if err := copyTree(from, to); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

// MoveTree moves src to dst. It tries a rename first and falls back to copy + delete
// (e.g. across volumes).
func MoveTree(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// UniqueChildPath returns parent/name when nothing exists there, otherwise the first free
// parent/name_N with N starting at 2.
func UniqueChildPath(parent, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "untitled"
	}
	candidate := filepath.Join(parent, name)
	for i := 2; exists(candidate); i++ {
		candidate = filepath.Join(parent, name+"_"+strconv.Itoa(i))
	}
	return candidate
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// DirName turns a display name into a directory name (whitespace runs become "_").
func DirName(name, fallback string) string {
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}

// IsWithin reports whether path equals dir or lies below it. Both are compared lexically,
// so callers should pass canonical paths.
func IsWithin(path, dir string) bool {
	if path == "" || dir == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
