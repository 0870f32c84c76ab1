// Package tui is the interactive board: columns side by side, keyboard-driven drag gestures, and
// a card detail pane.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskorium-cli/internal/board"
	"taskorium-cli/internal/notify"
	"taskorium-cli/internal/store"
)

type Options struct {
	Workspace string
	NoColor   bool
	Log       log.FieldLogger

	// Redis, when set, delivers commits from other processes so the board can reload.
	Redis   *redis.Client
	Channel string
	Origin  string
}

func Run(ctx context.Context, b *board.Board, s store.Store, opts Options) error {
	applyColorProfilePreference(opts.NoColor)
	applyThemePreference()
	applyGlyphPreference()

	l := opts.Log
	if l == nil {
		l = log.StandardLogger()
	}
	st, err := s.LoadTUIState()
	if err != nil {
		l.WithError(err).Warn("tui state unreadable")
		st = nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newAppModel(ctx, b, s, opts, st)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Redis != nil {
		go notify.Listen(ctx, opts.Redis, opts.Channel, opts.Workspace, opts.Origin, l, func(msg notify.Message) {
			p.Send(externalCommitMsg{event: msg.Event})
		})
	}

	final, err := p.Run()
	if fm, ok := final.(appModel); ok {
		if serr := s.SaveTUIState(fm.tuiState()); serr != nil {
			l.WithError(serr).Warn("tui state not saved")
		}
	}
	return err
}
