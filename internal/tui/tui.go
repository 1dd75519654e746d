// Package tui is the interactive tree view over the open project. Every change goes through
// the session's reconciler, so the index on disk is updated before the screen is.
package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asd977/FlexSimulate/internal/project"
	"github.com/asd977/FlexSimulate/internal/watcher"
)

// Run shows the tree until the user quits or ctx is cancelled.
func Run(ctx context.Context, sess *project.Session) error {
	applyColorProfilePreference()
	applyThemePreference()
	restoreLogs := redirectLogs(sess.Settings().SlogLevel())
	defer restoreLogs()

	m := newAppModel(ctx, sess)

	var p *tea.Program
	m.watch.factory = func(roots []string) *watcher.Watcher {
		return watcher.New(roots,
			watcher.WithOnChange(func(changed []string) { p.Send(fsChangedMsg{roots: changed}) }),
			watcher.WithOnError(func(err error) { slog.Warn("watch error", "error", err) }),
		)
	}
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.watch.sync(m.watchRoots())
	defer m.watch.stop()

	final, err := p.Run()
	if fm, ok := final.(appModel); ok {
		fm.saveUIState()
	}
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
