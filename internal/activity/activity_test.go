package activity

import (
	"context"
	"os"
	"testing"
)

func TestSQLite_AppendAndTail(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	l, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	l.Info("imported scheme A")
	l.Warn("could not move /tmp/x")
	if err := l.Append(ctx, LevelError, "write failed"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	all, err := l.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Message != "imported scheme A" || all[2].Level != LevelError {
		t.Fatalf("entries out of order: %+v", all)
	}

	last, err := l.Tail(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 1 || last[0].Message != "write failed" {
		t.Fatalf("unexpected tail: %+v", last)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Fatalf("db file missing: %v", err)
	}
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	l, err := Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("first")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	l2, err := Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l2.Close()
	got, err := l2.Tail(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Message != "first" {
		t.Fatalf("got %+v", got)
	}
}

func TestMemory_Bounded(t *testing.T) {
	t.Parallel()

	m := NewMemory(2)
	m.Info("a")
	m.Warn("b")
	m.Info("c")
	got, _ := m.Tail(context.Background(), 0)
	if len(got) != 2 || got[0].Message != "b" || got[1].Message != "c" {
		t.Fatalf("got %+v", got)
	}
	if got[0].Level != LevelWarn {
		t.Fatalf("level = %q", got[0].Level)
	}
}

var (
	_ Log = (*SQLite)(nil)
	_ Log = (*Memory)(nil)
)
