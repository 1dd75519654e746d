package mutate

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/asd977/FlexSimulate/internal/model"
	"github.com/asd977/FlexSimulate/internal/store"
)

func twoModelDB() *store.DB {
	return &store.DB{Schemes: []model.Scheme{
		{ID: "s1", Name: "S1", Models: []model.Model{{ID: "m1", Name: "Case1"}, {ID: "m2", Name: "Case2"}}},
		{ID: "s2", Name: "S2", Models: []model.Model{{ID: "m3", Name: "Case1"}}},
	}}
}

func TestRenameModel_ConflictLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	db := twoModelDB()
	before := db.Clone()

	res, err := RenameModel(db, "m1", "Case2")
	var nc *NameConflictError
	if !errors.As(err, &nc) {
		t.Fatalf("expected NameConflictError, got %v", err)
	}
	if res.New != "Case1" {
		t.Fatalf("result should carry the last valid name, got %q", res.New)
	}
	for i := range before.Schemes {
		for j := range before.Schemes[i].Models {
			if db.Schemes[i].Models[j] != before.Schemes[i].Models[j] {
				t.Fatalf("store mutated: %+v", db.Schemes[i].Models[j])
			}
		}
	}

	// The same name in a different scheme is fine.
	if _, err := RenameModel(db, "m3", "case2"); err != nil {
		t.Fatalf("RenameModel across scopes: %v", err)
	}
}

func TestSetRemarks(t *testing.T) {
	t.Parallel()

	db := twoModelDB()
	if changed, err := SetModelRemarks(db, "m2", "mesh v2"); err != nil || !changed {
		t.Fatalf("SetModelRemarks: %v %v", changed, err)
	}
	if changed, _ := SetModelRemarks(db, "m2", "mesh v2"); changed {
		t.Fatalf("same remarks reported as change")
	}
	if changed, err := SetSchemeRemarks(db, "s2", "baseline"); err != nil || !changed {
		t.Fatalf("SetSchemeRemarks: %v %v", changed, err)
	}
	if _, err := SetSchemeRemarks(db, "nope", ""); err == nil {
		t.Fatalf("expected NotFoundError")
	}
}

func TestMoveModel(t *testing.T) {
	t.Parallel()

	db := twoModelDB()
	if changed, err := MoveModel(db, "m2", "", 0); err != nil || !changed {
		t.Fatalf("MoveModel within scheme: %v %v", changed, err)
	}
	if db.Schemes[0].Models[0].ID != "m2" {
		t.Fatalf("order = %+v", db.Schemes[0].Models)
	}

	if _, err := MoveModel(db, "m1", "s2", 0); err != nil {
		t.Fatalf("MoveModel across schemes: %v", err)
	}
	if len(db.Schemes[0].Models) != 1 || len(db.Schemes[1].Models) != 2 {
		t.Fatalf("unexpected counts: %+v", db.Schemes)
	}
	moved := db.Schemes[1].Models[0]
	if moved.ID != "m1" || moved.Name != "Case1 (2)" {
		t.Fatalf("moved model = %+v", moved)
	}
}

func TestRemoveModel_DeleteFiles(t *testing.T) {
	t.Parallel()

	dir := modelDir(t, filepath.Join(t.TempDir(), "m"))
	db := &store.DB{Schemes: []model.Scheme{{ID: "s", Name: "S", Models: []model.Model{{ID: "m", Name: "m", Directory: dir}}}}}
	res, err := RemoveModel(db, "m", true)
	if err != nil {
		t.Fatalf("RemoveModel: %v", err)
	}
	if res.SchemeID != "s" || exists(dir) {
		t.Fatalf("unexpected result %+v, dir exists=%v", res, exists(dir))
	}
	if _, err := RemoveModel(db, "m", false); err == nil {
		t.Fatalf("expected NotFoundError")
	}
}
