package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	log "github.com/sirupsen/logrus"

	"taskorium-cli/internal/board"
	"taskorium-cli/internal/drag"
	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

type mode int

const (
	modeNormal mode = iota
	modeInput
	modeConfirm
)

type inputPurpose int

const (
	inputNewCard inputPurpose = iota
	inputNewColumn
	inputNewProject
	inputEditCard
)

type confirmPurpose int

const (
	confirmDeleteCard confirmPurpose = iota
	confirmDeleteColumn
)

// dropState is where a gesture currently points, in view coordinates.
type dropState struct {
	col int
	gap int
}

type appModel struct {
	ctx       context.Context
	board     *board.Board
	store     store.Store
	workspace string
	log       log.FieldLogger

	projects  []model.Project
	projectID string
	view      store.BoardView

	// Focus is tracked by id so it survives reorders; col/card are the resolved indices.
	colID  string
	cardID string
	col    int
	card   int

	gesture *drag.Gesture
	drop    dropState

	mode       mode
	input      textinput.Model
	inputFor   inputPurpose
	confirmFor confirmPurpose

	showDetail bool
	keys       keyMap
	help       help.Model

	status    string
	statusErr bool

	width  int
	height int
}

func newAppModel(ctx context.Context, b *board.Board, s store.Store, opts Options, st *store.TUIState) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	l := opts.Log
	if l == nil {
		l = log.StandardLogger()
	}
	in := textinput.New()
	in.CharLimit = 200

	m := appModel{
		ctx:       ctx,
		board:     b,
		store:     s,
		workspace: opts.Workspace,
		log:       l,
		gesture:   drag.New(b),
		input:     in,
		keys:      defaultKeyMap(),
		help:      help.New(),
		card:      -1,
		width:     100,
		height:    30,
	}
	if st != nil {
		m.projectID = st.SelectedProjectID
		m.colID = st.FocusColumnID
		m.cardID = st.FocusCardID
		m.showDetail = st.ShowDetail
	}
	m.refresh()
	return m
}

// tuiState captures what a relaunch should restore.
func (m appModel) tuiState() *store.TUIState {
	return &store.TUIState{
		Version:           1,
		SelectedProjectID: m.projectID,
		FocusColumnID:     m.colID,
		FocusCardID:       m.cardID,
		ShowDetail:        m.showDetail,
	}
}

// refresh re-reads the board and resolves the focus ids against it.
func (m *appModel) refresh() {
	m.projects = m.board.Projects()
	if !m.hasProject(m.projectID) {
		m.projectID = m.board.CurrentProjectID()
	}
	if !m.hasProject(m.projectID) {
		m.projectID = ""
		if len(m.projects) > 0 {
			m.projectID = m.projects[0].ID
		}
	}

	m.view = store.BoardView{}
	if m.projectID != "" {
		if v, err := m.board.Board(m.projectID); err == nil {
			m.view = v
		}
	}
	m.resolveFocus()
}

func (m *appModel) hasProject(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	for _, p := range m.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (m *appModel) resolveFocus() {
	cols := m.view.Columns
	if len(cols) == 0 {
		m.col, m.card = 0, -1
		m.colID, m.cardID = "", ""
		return
	}

	found := false
	if m.cardID != "" {
		for ci, c := range cols {
			for ki, card := range c.Cards {
				if card.ID == m.cardID {
					m.col, m.card = ci, ki
					found = true
				}
			}
		}
	}
	if !found && m.colID != "" {
		for ci, c := range cols {
			if c.ID == m.colID {
				m.col = ci
			}
		}
	}
	m.col = clamp(m.col, 0, len(cols)-1)
	m.colID = cols[m.col].ID

	if !found {
		n := len(cols[m.col].Cards)
		if n == 0 {
			m.card = -1
		} else {
			m.card = clamp(m.card, 0, n-1)
		}
	}
	m.cardID = ""
	if m.card >= 0 {
		m.cardID = cols[m.col].Cards[m.card].ID
	}
}

func (m *appModel) focus(col, card int) {
	cols := m.view.Columns
	if len(cols) == 0 {
		return
	}
	m.col = clamp(col, 0, len(cols)-1)
	m.colID = cols[m.col].ID
	n := len(cols[m.col].Cards)
	if n == 0 {
		m.card = -1
		m.cardID = ""
		return
	}
	m.card = clamp(card, 0, n-1)
	m.cardID = cols[m.col].Cards[m.card].ID
}

func (m appModel) selectedColumn() (store.ColumnView, bool) {
	if m.col < 0 || m.col >= len(m.view.Columns) {
		return store.ColumnView{}, false
	}
	return m.view.Columns[m.col], true
}

func (m appModel) selectedCard() (store.CardView, bool) {
	c, ok := m.selectedColumn()
	if !ok || m.card < 0 || m.card >= len(c.Cards) {
		return store.CardView{}, false
	}
	return c.Cards[m.card], true
}

func (m appModel) projectIndex() int {
	for i, p := range m.projects {
		if p.ID == m.projectID {
			return i
		}
	}
	return -1
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
