// Package activity keeps the user-facing log of what happened in a project: imports, renames,
// deletions and the warnings that batch operations collect instead of failing.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type Entry struct {
	ID      int64     `json:"id"`
	At      time.Time `json:"at"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %-5s %s", e.At.Local().Format("2006-01-02 15:04:05"), e.Level, e.Message)
}

// Reporter receives user-facing messages. It never fails: sinks swallow their own errors.
type Reporter interface {
	Info(msg string)
	Warn(msg string)
}

// Log is a persistent or in-memory activity log.
type Log interface {
	Reporter
	Append(ctx context.Context, level Level, msg string) error
	// Tail returns the newest n entries, oldest first.
	Tail(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// Memory is an in-memory Log used when no project is open, and in tests.
type Memory struct {
	mu      sync.Mutex
	max     int
	nextID  int64
	entries []Entry
}

// NewMemory keeps at most max entries (unbounded when max <= 0).
func NewMemory(max int) *Memory {
	return &Memory{max: max}
}

func (m *Memory) Append(_ context.Context, level Level, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.entries = append(m.entries, Entry{ID: m.nextID, At: time.Now().UTC(), Level: level, Message: msg})
	if m.max > 0 && len(m.entries) > m.max {
		m.entries = append([]Entry(nil), m.entries[len(m.entries)-m.max:]...)
	}
	return nil
}

func (m *Memory) Tail(_ context.Context, n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if n > 0 && len(m.entries) > n {
		start = len(m.entries) - n
	}
	return append([]Entry(nil), m.entries[start:]...), nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Info(msg string) { _ = m.Append(context.Background(), LevelInfo, msg) }
func (m *Memory) Warn(msg string) { _ = m.Append(context.Background(), LevelWarn, msg) }

func report(l Log, level Level, msg string) {
	if err := l.Append(context.Background(), level, msg); err != nil {
		slog.Debug("activity append failed", "error", err)
	}
}
