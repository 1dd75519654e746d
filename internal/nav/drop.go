package nav

import (
	"fmt"

	"github.com/asd977/FlexSimulate/internal/mutate"
	"github.com/asd977/FlexSimulate/internal/store"
)

type DropResult struct {
	// SchemeIDs lists schemes created or resynced by a drop onto no scheme.
	SchemeIDs []string
	// ModelIDs lists models added by a drop onto a scheme or model.
	ModelIDs []string
	Failures []mutate.ImportFailure
}

// DropTargetScheme resolves where a drop lands: "" for a new scheme per path, otherwise the
// scheme receiving models. Model targets resolve to their owning scheme.
func (r *Reconciler) DropTargetScheme(target Node) string {
	switch n := target.(type) {
	case SchemeNode:
		return n.ID
	case ModelNode:
		if n.SchemeID != "" {
			return n.SchemeID
		}
		if r.project.IsOpen() {
			if _, owner, ok := r.project.DB.FindModel(n.ID); ok {
				return owner.ID
			}
		}
	}
	return ""
}

// HandleExternalDrop imports paths dropped from outside the tree onto target (nil for empty
// space). Per-path failures are reported and collected; the rest of the batch continues.
func (r *Reconciler) HandleExternalDrop(paths []string, target Node) (DropResult, error) {
	var res DropResult
	if !r.project.IsOpen() {
		return res, store.ErrNoProject
	}
	if len(paths) == 0 {
		return res, nil
	}
	db := r.project.DB
	changed := false

	if schemeID := r.DropTargetScheme(target); schemeID == "" {
		for _, p := range paths {
			out, err := mutate.ImportSchemeFromDirectory(db, p, r.patterns)
			if err != nil {
				res.Failures = append(res.Failures, mutate.ImportFailure{Path: p, Err: err})
				continue
			}
			res.SchemeIDs = append(res.SchemeIDs, out.SchemeID)
			changed = true
		}
	} else {
		out, err := mutate.ImportModelsIntoScheme(db, schemeID, paths, r.patterns)
		if err != nil {
			r.report.Warn(fmt.Sprintf("import failed: %v", err))
			r.Rebuild()
			return res, err
		}
		res.ModelIDs = out.Added
		res.Failures = out.Failures
		changed = len(out.Added) > 0
	}

	for _, f := range res.Failures {
		r.report.Warn(fmt.Sprintf("import failed for %s: %v", f.Path, f.Err))
	}

	var err error
	if changed {
		err = r.save()
		switch {
		case len(res.ModelIDs) > 0:
			r.logf("imported %d model(s)", len(res.ModelIDs))
		case len(res.SchemeIDs) > 0:
			r.logf("imported %d scheme(s)", len(res.SchemeIDs))
		}
	}
	r.Rebuild()

	switch {
	case len(res.ModelIDs) > 0:
		if m, owner, ok := db.FindModel(res.ModelIDs[0]); ok {
			r.Select(ModelNode{ID: m.ID, SchemeID: owner.ID})
		}
	case len(res.SchemeIDs) > 0:
		r.Select(SchemeNode{ID: res.SchemeIDs[0]})
	}
	return res, err
}
