// Package config resolves the per-user config directory and loads the optional
// settings.toml that tunes folder detection and the library location.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigDir overrides ~/.flexsim (keeps tests away from the real home directory).
const EnvConfigDir = "FLEXSIM_CONFIG_DIR"

const settingsFileName = "settings.toml"

// Settings are user preferences. Every field has a usable default; the file only overlays.
type Settings struct {
	// ConfigPattern identifies a model's parameter file. A folder is a model folder iff it
	// contains at least one match.
	ConfigPattern string `toml:"config_pattern"`
	// ScriptPattern identifies the optional run script of a model.
	ScriptPattern string `toml:"script_pattern"`
	// ArtifactPattern identifies files produced by a run (newest one wins).
	ArtifactPattern string `toml:"artifact_pattern"`
	// CoverPattern identifies a scheme thumbnail stored inside its working directory.
	CoverPattern string `toml:"cover_pattern"`

	LibraryRoot   string   `toml:"library_root"`
	TemplateRoots []string `toml:"template_roots"`

	LogLevel string `toml:"log_level"`

	// ScriptShell, when set, is the interpreter argv used to run model scripts
	// (the script path is appended).
	ScriptShell []string `toml:"script_shell"`
}

func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".flexsim"), nil
}

func SettingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// Default returns the built-in settings for the current config dir.
func Default() Settings {
	s := Settings{
		ConfigPattern:   "*.json",
		ScriptPattern:   "*.bat",
		ArtifactPattern: "*.stl",
		CoverPattern:    "scheme_cover.*",
		LogLevel:        "warn",
	}
	if dir, err := Dir(); err == nil {
		s.LibraryRoot = filepath.Join(dir, "scheme_library")
	}
	s.TemplateRoots = defaultTemplateRoots()
	return s
}

func defaultTemplateRoots() []string {
	var roots []string
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, filepath.Join(cwd, "sample_data"))
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		roots = append(roots, filepath.Join(exeDir, "sample_data"), filepath.Join(exeDir, "..", "sample_data"))
	}
	return roots
}

// Load reads settings.toml from the config dir. A missing file yields Default().
func Load() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, err
	}
	s, err := Parse(b)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse overlays TOML data onto Default(). Blank values keep their defaults.
func Parse(data []byte) (Settings, error) {
	def := Default()
	s := def
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	if strings.TrimSpace(s.ConfigPattern) == "" {
		s.ConfigPattern = def.ConfigPattern
	}
	if strings.TrimSpace(s.ScriptPattern) == "" {
		s.ScriptPattern = def.ScriptPattern
	}
	if strings.TrimSpace(s.ArtifactPattern) == "" {
		s.ArtifactPattern = def.ArtifactPattern
	}
	if strings.TrimSpace(s.CoverPattern) == "" {
		s.CoverPattern = def.CoverPattern
	}
	if strings.TrimSpace(s.LibraryRoot) == "" {
		s.LibraryRoot = def.LibraryRoot
	}
	if len(s.TemplateRoots) == 0 {
		s.TemplateRoots = def.TemplateRoots
	}
	return s, nil
}

// SlogLevel maps LogLevel to a slog level (unknown values mean warn).
func (s Settings) SlogLevel() slog.Level {
	return ParseLevel(s.LogLevel)
}

func ParseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
