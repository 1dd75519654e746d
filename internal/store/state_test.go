package store

import (
	"os"
	"reflect"
	"testing"

	"github.com/asd977/FlexSimulate/internal/config"
)

func TestAppState_SaveLoadKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)

	st0, err := LoadAppState()
	if err != nil {
		t.Fatalf("LoadAppState: %v", err)
	}
	if st0.LastProject != "" {
		t.Fatalf("expected empty state, got %#v", st0)
	}

	if err := SaveAppState(&AppState{LastProject: "/p/one"}); err != nil {
		t.Fatalf("SaveAppState: %v", err)
	}
	if err := SaveAppState(&AppState{LastProject: "/p/two"}); err != nil {
		t.Fatalf("SaveAppState: %v", err)
	}
	got, err := LoadAppState()
	if err != nil {
		t.Fatalf("LoadAppState: %v", err)
	}
	if got.LastProject != "/p/two" {
		t.Fatalf("LastProject = %q", got.LastProject)
	}
	path, _ := AppStatePath()
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
}

func TestAppState_CorruptIsEmpty(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	path, _ := AppStatePath()
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := LoadAppState()
	if err != nil {
		t.Fatalf("LoadAppState: %v", err)
	}
	if st.LastProject != "" {
		t.Fatalf("expected empty state, got %#v", st)
	}
}

func TestUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	st0, err := s.LoadUIState()
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &UIState{
		Version:    1,
		SelectedID: "scheme-1",
		Collapsed:  map[string]bool{"scheme-2": true},
		ShowLog:    true,
	}
	if err := s.SaveUIState(want); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	got, err := s.LoadUIState()
	if err != nil {
		t.Fatalf("LoadUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}
