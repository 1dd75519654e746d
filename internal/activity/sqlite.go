package activity

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	metaDirName  = ".flexsim"
	dbFileName   = "activity.sqlite"
	defaultLimit = 200
)

// SQLite persists the activity log at <project>/.flexsim/activity.sqlite.
type SQLite struct {
	db   *sql.DB
	path string
}

func Path(projectRoot string) string {
	return filepath.Join(projectRoot, metaDirName, dbFileName)
}

func Open(ctx context.Context, projectRoot string) (*SQLite, error) {
	path := Path(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the CLI append while the TUI reads the same project.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, path: path}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unixms INTEGER NOT NULL,
			level TEXT NOT NULL,
			message TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_at ON entries(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (l *SQLite) Path() string { return l.path }

func (l *SQLite) Append(ctx context.Context, level Level, msg string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO entries(at_unixms, level, message) VALUES(?, ?, ?)`,
		time.Now().UTC().UnixMilli(), string(level), msg)
	return err
}

func (l *SQLite) Tail(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = defaultLimit
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, at_unixms, level, message FROM entries ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e     Entry
			atMs  int64
			level string
		)
		if err := rows.Scan(&e.ID, &atMs, &level, &e.Message); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(atMs).UTC()
		e.Level = Level(level)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (l *SQLite) Close() error { return l.db.Close() }

func (l *SQLite) Info(msg string) { report(l, LevelInfo, msg) }
func (l *SQLite) Warn(msg string) { report(l, LevelWarn, msg) }
