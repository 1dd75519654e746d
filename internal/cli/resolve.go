package cli

import (
	"strings"

	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/store"
)

// resolveScheme accepts a scheme id or a case-insensitive name.
func resolveScheme(db *store.DB, ref string) (*model.Scheme, error) {
	ref = strings.TrimSpace(ref)
	if sc, ok := db.FindScheme(ref); ok {
		return sc, nil
	}
	var names []string
	for i := range db.Schemes {
		if strings.EqualFold(db.Schemes[i].Name, ref) {
			return &db.Schemes[i], nil
		}
		names = append(names, db.Schemes[i].Name)
	}
	return nil, errNotFound("scheme", ref, names)
}

// resolveModel accepts a model id, a model name that is unique across the project, or
// <scheme>/<model>.
func resolveModel(db *store.DB, ref string) (*model.Model, *model.Scheme, error) {
	ref = strings.TrimSpace(ref)
	if m, sc, ok := db.FindModel(ref); ok {
		return m, sc, nil
	}

	var (
		names      []string
		foundModel *model.Model
		foundOwner *model.Scheme
		matches    int
	)
	for i := range db.Schemes {
		sc := &db.Schemes[i]
		for j := range sc.Models {
			names = append(names, sc.Models[j].Name)
			if strings.EqualFold(sc.Models[j].Name, ref) {
				foundModel, foundOwner = &sc.Models[j], sc
				matches++
			}
		}
	}
	switch {
	case matches == 1:
		return foundModel, foundOwner, nil
	case matches > 1:
		return nil, nil, ambiguousError{kind: "model", ref: ref, n: matches}
	}

	if schemeRef, modelRef, ok := strings.Cut(ref, "/"); ok {
		if sc, err := resolveScheme(db, schemeRef); err == nil {
			modelRef = strings.TrimSpace(modelRef)
			var local []string
			for j := range sc.Models {
				if sc.Models[j].ID == modelRef || strings.EqualFold(sc.Models[j].Name, modelRef) {
					return &sc.Models[j], sc, nil
				}
				local = append(local, sc.Models[j].Name)
			}
			return nil, nil, errNotFound("model", ref, local)
		}
	}
	return nil, nil, errNotFound("model", ref, names)
}
