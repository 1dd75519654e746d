package cli

import (
	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/store"
)

type failureView struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func failureViews(fs []mutate.ImportFailure) []failureView {
	out := make([]failureView, 0, len(fs))
	for _, f := range fs {
		out = append(out, failureView{Path: f.Path, Error: f.Err.Error()})
	}
	return out
}

type projectView struct {
	Open          bool   `json:"open"`
	Root          string `json:"root,omitempty"`
	Name          string `json:"name,omitempty"`
	WorkspaceRoot string `json:"workspaceRoot,omitempty"`
	Schemes       int    `json:"schemes"`
	Models        int    `json:"models"`
}

func newProjectView(pc store.ProjectContext) projectView {
	if !pc.IsOpen() {
		return projectView{}
	}
	return projectView{
		Open:          true,
		Root:          pc.Root,
		Name:          pc.Name(),
		WorkspaceRoot: pc.DB.WorkspaceRoot,
		Schemes:       len(pc.DB.Schemes),
		Models:        pc.DB.ModelCount(),
	}
}
