package store

import (
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/asd977/FlexSimulate/internal/fsutil"
	"github.com/asd977/FlexSimulate/internal/model"
)

type indexFile struct {
	WorkspaceRoot string         `json:"workspaceRoot"`
	Schemes       []model.Scheme `json:"schemes"`
}

func decodeIndex(b []byte) (*indexFile, error) {
	var idx indexFile
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

func encodeIndex(projectDir string, db *DB) ([]byte, error) {
	idx := indexFile{
		WorkspaceRoot: storedWorkspaceRoot(projectDir, db.WorkspaceRoot),
		Schemes:       make([]model.Scheme, 0, len(db.Schemes)),
	}
	for _, sc := range db.Schemes {
		if sc.Models == nil {
			sc.Models = []model.Model{}
		}
		idx.Schemes = append(idx.Schemes, sc)
	}
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func storedWorkspaceRoot(projectDir, root string) string {
	if root == "" {
		return ""
	}
	project := fsutil.Canonicalize(projectDir)
	if !fsutil.IsWithin(root, project) {
		return root
	}
	rel, err := filepath.Rel(project, root)
	if err != nil || strings.HasPrefix(rel, "..") {
		return root
	}
	return rel
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
