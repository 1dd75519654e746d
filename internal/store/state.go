package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/asd977/FlexSimulate/internal/config"
)

const appStateFileName = "state.json"

// AppState is the per-user state kept outside any project.
type AppState struct {
	LastProject string `json:"lastProject"`
}

func AppStatePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appStateFileName), nil
}

// LoadAppState reads state.json. Missing or corrupt state is treated as empty.
func LoadAppState() (*AppState, error) {
	path, err := AppStatePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &AppState{}, nil
		}
		return nil, err
	}
	var st AppState
	if err := json.Unmarshal(b, &st); err != nil {
		return &AppState{}, nil
	}
	st.LastProject = strings.TrimSpace(st.LastProject)
	return &st, nil
}

func SaveAppState(st *AppState) error {
	if st == nil {
		return nil
	}
	path, err := AppStatePath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	// Keep the previous copy around; failures here never block the write.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, appStateFileName+".bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, appStateFileName+".*.tmp", path, b, 0o600)
}

const (
	// ProjectMetaDirName holds per-project files that are not part of the index.
	ProjectMetaDirName = ".flexsim"
	uiStateFileName    = "ui_state.json"
)

// UIState stores what the interactive tree had selected and expanded, per project.
// It is best effort: callers should tolerate missing or invalid data.
type UIState struct {
	Version int `json:"version"`

	SelectedID string          `json:"selectedId,omitempty"`
	Collapsed  map[string]bool `json:"collapsed,omitempty"`
	ShowLog    bool            `json:"showLog,omitempty"`
}

func (s Store) uiStatePath() string {
	return filepath.Join(s.Dir, ProjectMetaDirName, uiStateFileName)
}

func (s Store) LoadUIState() (*UIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &UIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.uiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveUIState(st *UIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	dir := filepath.Dir(s.uiStatePath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, uiStateFileName+".*.tmp", s.uiStatePath(), b, 0o644)
}
