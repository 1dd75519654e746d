package mutate

import (
	"strings"

	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/store"
)

// CheckModelName validates an interactive rename within the model's scheme. It never suffixes.
func CheckModelName(owner *model.Scheme, modelID, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	if store.ModelNames(owner, modelID).Has(trimmed) {
		return "", &NameConflictError{Kind: "model", Name: trimmed}
	}
	return trimmed, nil
}

// RenameModel applies a validated rename. On error the store is left untouched.
func RenameModel(db *store.DB, modelID, name string) (RenameResult, error) {
	m, owner, ok := db.FindModel(modelID)
	if !ok {
		return RenameResult{}, NotFoundError{Kind: "model", ID: modelID}
	}
	trimmed, err := CheckModelName(owner, modelID, name)
	if err != nil {
		return RenameResult{Old: m.Name, New: m.Name}, err
	}
	res := RenameResult{Old: m.Name, New: trimmed, Changed: m.Name != trimmed}
	m.Name = trimmed
	return res, nil
}

func SetModelRemarks(db *store.DB, modelID, remarks string) (bool, error) {
	m, _, ok := db.FindModel(modelID)
	if !ok {
		return false, NotFoundError{Kind: "model", ID: modelID}
	}
	if m.Remarks == remarks {
		return false, nil
	}
	m.Remarks = remarks
	return true, nil
}

type RemoveModelResult struct {
	Model    model.Model
	SchemeID string
}

// RemoveModel drops a model record; with deleteFiles its folder is removed as well.
// Callers are responsible for saving db.
func RemoveModel(db *store.DB, modelID string, deleteFiles bool) (RemoveModelResult, error) {
	removed, schemeID, ok := db.RemoveModel(modelID)
	if !ok {
		return RemoveModelResult{}, NotFoundError{Kind: "model", ID: modelID}
	}
	res := RemoveModelResult{Model: removed, SchemeID: schemeID}
	if deleteFiles {
		if err := removeRecordDir(removed.Directory); err != nil {
			return res, err
		}
	}
	return res, nil
}

// MoveModel repositions a model at index (clamped) inside toSchemeID, or inside its own scheme
// when toSchemeID is empty. Only the record moves: the model folder stays where it is. A model
// moved into another scheme is renamed if its name is taken there.
func MoveModel(db *store.DB, modelID, toSchemeID string, index int) (bool, error) {
	_, owner, ok := db.FindModel(modelID)
	if !ok {
		return false, NotFoundError{Kind: "model", ID: modelID}
	}
	if toSchemeID == "" || toSchemeID == owner.ID {
		from := -1
		for i := range owner.Models {
			if owner.Models[i].ID == modelID {
				from = i
				break
			}
		}
		to := clamp(index, 0, len(owner.Models)-1)
		if to == from {
			return false, nil
		}
		owner.Models = moveElem(owner.Models, from, to)
		return true, nil
	}

	if _, ok := db.FindScheme(toSchemeID); !ok {
		return false, NotFoundError{Kind: "scheme", ID: toSchemeID}
	}
	m, _, _ := db.RemoveModel(modelID)
	target, _ := db.FindScheme(toSchemeID)
	m.Name = store.UniqueModelName(target, m.Name, m.ID)
	to := clamp(index, 0, len(target.Models))
	target.Models = append(target.Models, model.Model{})
	copy(target.Models[to+1:], target.Models[to:])
	target.Models[to] = m
	return true, nil
}
