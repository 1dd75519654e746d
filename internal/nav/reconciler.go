package nav

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asd977/FlexSimulate/internal/activity"
	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/scan"
	"github.com/asd977/FlexSimulate/internal/store"
)

const LibraryLabel = "Scheme library"

var ErrInvalidDrop = errors.New("items cannot be dropped there")

// Reconciler owns the two sync directions between the record store and the tree. Every store
// mutation it performs is written to disk before the tree is rebuilt.
type Reconciler struct {
	tree     *Tree
	project  store.ProjectContext
	patterns scan.Patterns
	report   activity.Reporter

	rebuilding bool
	selected   Node
	editErr    error
}

func New(tree *Tree, p scan.Patterns, report activity.Reporter) *Reconciler {
	if tree == nil {
		tree = NewTree()
	}
	if report == nil {
		report = activity.NewMemory(200)
	}
	r := &Reconciler{tree: tree, patterns: p, report: report}
	tree.OnChange(r.onItemChanged)
	return r
}

func (r *Reconciler) Tree() *Tree { return r.tree }

func (r *Reconciler) Project() store.ProjectContext { return r.project }

func (r *Reconciler) Patterns() scan.Patterns { return r.patterns }

func (r *Reconciler) SetReporter(rep activity.Reporter) { r.report = rep }

// SetProject switches the active project (the zero value for none) and rebuilds the tree.
func (r *Reconciler) SetProject(pc store.ProjectContext) {
	r.project = pc
	r.selected = nil
	r.Rebuild()
}

// Rebuild regenerates the whole tree from the store. Change notifications are suppressed while
// it runs. The selection is kept when its record still exists.
func (r *Reconciler) Rebuild() {
	r.rebuilding = true
	defer func() { r.rebuilding = false }()

	r.tree.WithoutNotifications(func() {
		r.tree.Clear()
		r.tree.AddRoot(LibraryNode{}, LibraryLabel)
		if !r.project.IsOpen() {
			return
		}
		root := r.tree.AddRoot(ProjectNode{}, r.project.Name())
		for _, sc := range r.project.DB.Schemes {
			si := root.Add(SchemeNode{ID: sc.ID}, sc.Name)
			for _, m := range sc.Models {
				si.Add(ModelNode{ID: m.ID, SchemeID: sc.ID}, m.Name)
			}
		}
	})

	if r.selected != nil && r.tree.Find(r.selected.Key()) == nil {
		r.selected = nil
	}
}

// Commit runs a store mutation, writes the index if fn reports a change, then rebuilds.
func (r *Reconciler) Commit(fn func(db *store.DB) (changed bool, err error)) error {
	if !r.project.IsOpen() {
		return store.ErrNoProject
	}
	changed, err := fn(r.project.DB)
	if changed {
		if saveErr := r.save(); saveErr != nil && err == nil {
			err = saveErr
		}
	}
	r.Rebuild()
	return err
}

func (r *Reconciler) save() error {
	if err := r.project.Save(); err != nil {
		r.report.Warn(fmt.Sprintf("could not write %s: %v", r.project.Store().IndexPath(), err))
		return &mutate.IOError{Op: "write", Path: r.project.Store().IndexPath(), Err: err}
	}
	return nil
}

// SyncFromTree rebuilds the store's scheme and model order, and display names, from the tree.
// Records are looked up by id; tree items whose id no longer resolves are dropped.
func (r *Reconciler) SyncFromTree() error {
	if !r.project.IsOpen() {
		return store.ErrNoProject
	}
	db := r.project.DB

	schemes := make(map[string]model.Scheme, len(db.Schemes))
	models := map[string]model.Model{}
	for _, sc := range db.Schemes {
		schemes[sc.ID] = sc
		for _, m := range sc.Models {
			models[m.ID] = m
		}
	}

	updated := make([]model.Scheme, 0, len(db.Schemes))
	for _, si := range r.tree.SchemeItems() {
		sn := si.Node.(SchemeNode)
		sc, ok := schemes[sn.ID]
		if !ok {
			continue
		}
		if name := strings.TrimSpace(si.Text); name != "" {
			sc.Name = name
		}
		sc.Models = nil
		for _, mi := range si.Children {
			mn, ok := mi.Node.(ModelNode)
			if !ok {
				continue
			}
			m, ok := models[mn.ID]
			if !ok {
				continue
			}
			if name := strings.TrimSpace(mi.Text); name != "" {
				m.Name = name
			}
			sc.Models = append(sc.Models, m)
		}
		updated = append(updated, sc)
	}
	db.Schemes = updated
	// A model dragged into another scheme may collide there.
	db.EnsureUniqueNames()

	err := r.save()
	r.Rebuild()
	return err
}

// Drag moves an item as a drag-and-drop inside the tree would, then syncs the store from the
// tree. Schemes can only be dropped on the project root and models only on schemes.
func (r *Reconciler) Drag(it, parent *Item, index int) error {
	if it == nil || parent == nil {
		return ErrInvalidDrop
	}
	switch it.Node.(type) {
	case SchemeNode:
		if _, ok := parent.Node.(ProjectNode); !ok {
			return ErrInvalidDrop
		}
	case ModelNode:
		if _, ok := parent.Node.(SchemeNode); !ok {
			return ErrInvalidDrop
		}
	default:
		return ErrInvalidDrop
	}
	r.tree.Move(it, parent, index)
	return r.SyncFromTree()
}

// EditText commits an in-place edit of an item's text and returns the validation result.
func (r *Reconciler) EditText(it *Item, text string) error {
	r.editErr = nil
	r.tree.CancelEdit()
	r.tree.SetText(it, text)
	return r.editErr
}

func (r *Reconciler) onItemChanged(it *Item) {
	if r.rebuilding || r.tree.Blocked() {
		return
	}
	r.editErr = r.commitRename(it)
}

// commitRename validates an in-place rename. A rejected name restores the last valid text and
// leaves the store untouched; interactive renames are never auto-suffixed.
func (r *Reconciler) commitRename(it *Item) error {
	if !r.project.IsOpen() {
		return nil
	}
	db := r.project.DB

	switch n := it.Node.(type) {
	case SchemeNode:
		sc, ok := db.FindScheme(n.ID)
		if !ok {
			return mutate.NotFoundError{Kind: "scheme", ID: n.ID}
		}
		trimmed, err := mutate.CheckSchemeName(db, n.ID, it.Text)
		if err != nil {
			r.restoreText(it, sc.Name)
			r.report.Warn(renameWarning("scheme", err))
			return err
		}
		r.restoreText(it, trimmed)
		if sc.Name == trimmed {
			return nil
		}
		sc.Name = trimmed
		return r.save()

	case ModelNode:
		m, owner, ok := db.FindModel(n.ID)
		if !ok {
			return mutate.NotFoundError{Kind: "model", ID: n.ID}
		}
		trimmed, err := mutate.CheckModelName(owner, n.ID, it.Text)
		if err != nil {
			r.restoreText(it, m.Name)
			r.report.Warn(renameWarning("model", err))
			return err
		}
		r.restoreText(it, trimmed)
		if m.Name == trimmed {
			return nil
		}
		m.Name = trimmed
		return r.save()
	}
	return nil
}

func (r *Reconciler) restoreText(it *Item, text string) {
	r.tree.WithoutNotifications(func() { r.tree.SetText(it, text) })
}

func renameWarning(kind string, err error) string {
	var nc *mutate.NameConflictError
	switch {
	case errors.Is(err, mutate.ErrEmptyName):
		return fmt.Sprintf("%s name cannot be empty", kind)
	case errors.As(err, &nc):
		return fmt.Sprintf("a %s named %q already exists; choose another name", kind, nc.Name)
	default:
		return err.Error()
	}
}

// SelectionInfo describes the selected node for detail panes.
type SelectionInfo struct {
	Node    Node
	Name    string
	Path    string
	Remarks string
}

// Select makes n the current selection (nil clears it). Any in-progress edit is dropped.
func (r *Reconciler) Select(n Node) SelectionInfo {
	r.tree.CancelEdit()
	r.selected = n
	return r.Selection()
}

func (r *Reconciler) Selected() Node { return r.selected }

func (r *Reconciler) Selection() SelectionInfo {
	info := SelectionInfo{Node: r.selected}
	switch n := r.selected.(type) {
	case ProjectNode:
		info.Name = r.project.Name()
		info.Path = r.project.Root
	case LibraryNode:
		info.Name = LibraryLabel
	case SchemeNode:
		if !r.project.IsOpen() {
			break
		}
		if sc, ok := r.project.DB.FindScheme(n.ID); ok {
			info.Name, info.Path, info.Remarks = sc.Name, sc.WorkingDirectory, sc.Remarks
		}
	case ModelNode:
		if !r.project.IsOpen() {
			break
		}
		if m, _, ok := r.project.DB.FindModel(n.ID); ok {
			info.Name, info.Path, info.Remarks = m.Name, m.Directory, m.Remarks
		}
	}
	return info
}

func (r *Reconciler) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Debug(msg)
	r.report.Info(msg)
}
