package store

import (
	"fmt"
	"strings"

	"github.com/asd977/FlexSimulate/internal/model"
)

const (
	FallbackSchemeName = "Untitled scheme"
	FallbackModelName  = "Untitled model"
)

// NameSet holds case-insensitive name keys of one uniqueness scope.
type NameSet map[string]struct{}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (ns NameSet) Has(name string) bool {
	_, ok := ns[nameKey(name)]
	return ok
}

func (ns NameSet) Add(name string) {
	ns[nameKey(name)] = struct{}{}
}

// UniqueName returns desired (trimmed, or fallback when blank) if it is free in taken,
// otherwise the first free "desired (N)" with N starting at 2. The result is added to taken.
func UniqueName(desired string, taken NameSet, fallback string) string {
	base := strings.TrimSpace(desired)
	if base == "" {
		base = fallback
	}
	candidate := base
	for i := 2; taken.Has(candidate); i++ {
		candidate = fmt.Sprintf("%s (%d)", base, i)
	}
	taken.Add(candidate)
	return candidate
}

// SchemeNames is the scheme uniqueness scope, ignoring the scheme excludeID.
func (db *DB) SchemeNames(excludeID string) NameSet {
	taken := NameSet{}
	for _, sc := range db.Schemes {
		if sc.ID == excludeID {
			continue
		}
		taken.Add(sc.Name)
	}
	return taken
}

// ModelNames is the model uniqueness scope of one scheme, ignoring the model excludeID.
func ModelNames(sc *model.Scheme, excludeID string) NameSet {
	taken := NameSet{}
	for _, m := range sc.Models {
		if m.ID == excludeID {
			continue
		}
		taken.Add(m.Name)
	}
	return taken
}

func (db *DB) UniqueSchemeName(desired, excludeID string) string {
	return UniqueName(desired, db.SchemeNames(excludeID), FallbackSchemeName)
}

func UniqueModelName(sc *model.Scheme, desired, excludeID string) string {
	return UniqueName(desired, ModelNames(sc, excludeID), FallbackModelName)
}

// EnsureUniqueModelNames renames models in order so that earlier models keep their names.
func EnsureUniqueModelNames(sc *model.Scheme) {
	taken := NameSet{}
	for i := range sc.Models {
		sc.Models[i].Name = UniqueName(sc.Models[i].Name, taken, FallbackModelName)
	}
}

// EnsureUniqueNames restores both uniqueness invariants (used after loading an index that
// may have been edited by hand).
func (db *DB) EnsureUniqueNames() {
	taken := NameSet{}
	for i := range db.Schemes {
		db.Schemes[i].Name = UniqueName(db.Schemes[i].Name, taken, FallbackSchemeName)
		EnsureUniqueModelNames(&db.Schemes[i])
	}
}
