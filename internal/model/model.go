package model

// Model is one simulation case: a folder holding a config file and an optional run script.
//
// JSON field names follow the on-disk index format (jsonPath/batPath are historical names
// for the config and script paths).
type Model struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Directory  string `json:"directory"`
	ConfigPath string `json:"jsonPath"`
	ScriptPath string `json:"batPath"`
	Remarks    string `json:"remarks"`
}

// HasScript reports whether the model folder had a script at scan time.
func (m Model) HasScript() bool { return m.ScriptPath != "" }

// Scheme groups models that live under one working directory.
// Models are kept in display order.
type Scheme struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	WorkingDirectory string  `json:"workingDirectory"`
	ThumbnailPath    string  `json:"thumbnailPath"`
	Remarks          string  `json:"remarks"`
	Models           []Model `json:"models"`
}

// FindModel returns the model with id inside the scheme.
func (s *Scheme) FindModel(id string) (*Model, bool) {
	for i := range s.Models {
		if s.Models[i].ID == id {
			return &s.Models[i], true
		}
	}
	return nil, false
}

// LibraryEntry is a reusable scheme template. Its directory tree is copied (never referenced)
// when the entry is added to a project.
type LibraryEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Directory     string `json:"directory"`
	ThumbnailPath string `json:"thumbnail,omitempty"`

	// Deletable is false for built-in templates that are rediscovered on every load.
	Deletable bool `json:"deletable"`
}

// Template is a directory that can seed a new scheme.
type Template struct {
	Name      string `json:"name"`
	Directory string `json:"directory"`
}
