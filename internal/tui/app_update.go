package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskorium-cli/internal/board"
	"taskorium-cli/internal/drag"
	"taskorium-cli/internal/mutate"
)

// externalCommitMsg reports a commit made by another process on the same workspace.
type externalCommitMsg struct {
	event board.CommitEvent
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case externalCommitMsg:
		if err := m.board.Reload(m.ctx); err != nil {
			m.setError(err)
			return m, nil
		}
		m.refresh()
		if m.gesture.State() == drag.Tracking && m.clampDrop() {
			m.track()
		}
		m.setStatus("updated: " + msg.event.Type)
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.mode == modeInput:
			return m.updateInput(msg)
		case m.mode == modeConfirm:
			return m.updateConfirm(msg)
		case m.gesture.State() == drag.Tracking:
			return m.updateDrag(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Left):
		m.focus(m.col-1, m.card)
	case key.Matches(msg, k.Right):
		m.focus(m.col+1, m.card)
	case key.Matches(msg, k.Up):
		m.focus(m.col, m.card-1)
	case key.Matches(msg, k.Down):
		m.focus(m.col, m.card+1)
	case key.Matches(msg, k.PrevPrj):
		m.switchProject(-1)
	case key.Matches(msg, k.NextPrj):
		m.switchProject(1)
	case key.Matches(msg, k.Detail):
		m.showDetail = !m.showDetail

	case key.Matches(msg, k.GrabCard):
		m.beginCardDrag()
	case key.Matches(msg, k.GrabColumn):
		m.beginColumnDrag()

	case key.Matches(msg, k.NewCard):
		if _, ok := m.selectedColumn(); !ok {
			m.setStatus("create a column first (c)")
			break
		}
		return m.openInput(inputNewCard, "Card title", "")
	case key.Matches(msg, k.NewColumn):
		if m.projectID == "" {
			m.setStatus("create a project first (p)")
			break
		}
		return m.openInput(inputNewColumn, "Column name", "")
	case key.Matches(msg, k.NewProject):
		return m.openInput(inputNewProject, "Project name", "")
	case key.Matches(msg, k.EditCard):
		if c, ok := m.selectedCard(); ok {
			return m.openInput(inputEditCard, "Card title", c.Title)
		}
	case key.Matches(msg, k.DeleteCard):
		if c, ok := m.selectedCard(); ok {
			m.mode = modeConfirm
			m.confirmFor = confirmDeleteCard
			m.setStatus(fmt.Sprintf("delete card %q? (y/n)", c.Title))
		}
	case key.Matches(msg, k.DeleteColumn):
		if c, ok := m.selectedColumn(); ok {
			m.mode = modeConfirm
			m.confirmFor = confirmDeleteColumn
			m.setStatus(fmt.Sprintf("delete column %q? its cards move to the first remaining column (y/n)", c.Name))
		}
	}
	return m, nil
}

func (m *appModel) switchProject(delta int) {
	if len(m.projects) == 0 {
		return
	}
	i := m.projectIndex()
	i = (i + delta + len(m.projects)) % len(m.projects)
	m.projectID = m.projects[i].ID
	m.colID, m.cardID = "", ""
	m.col, m.card = 0, 0
	if _, err := m.board.UseProject(m.ctx, m.projectID); err != nil {
		m.setError(err)
	}
	m.refresh()
}

func (m *appModel) beginCardDrag() {
	c, ok := m.selectedCard()
	if !ok {
		return
	}
	loc, err := m.board.LocateCard(c.ID)
	if err != nil {
		m.setError(err)
		return
	}
	if err := m.gesture.BeginCard(c.ID, loc); err != nil {
		m.setError(err)
		return
	}
	m.drop = dropState{col: m.col, gap: loc.Index}
	m.setStatus("moving " + c.Title)
}

func (m *appModel) beginColumnDrag() {
	c, ok := m.selectedColumn()
	if !ok {
		return
	}
	loc, err := m.board.LocateColumn(c.ID)
	if err != nil {
		m.setError(err)
		return
	}
	if err := m.gesture.BeginColumn(c.ID, loc); err != nil {
		m.setError(err)
		return
	}
	m.drop = dropState{col: m.col, gap: loc.Index}
	m.setStatus("moving column " + c.Name)
}

func (m appModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	kind, _, origin := m.gesture.Subject()

	switch {
	case msg.String() == "ctrl+c":
		m.gesture.Cancel()
		return m, tea.Quit
	case key.Matches(msg, k.Cancel):
		m.gesture.Cancel()
		m.setStatus("move cancelled")
		return m, nil
	case key.Matches(msg, k.Drop):
		return m.commitDrop()
	}

	if !m.clampDrop() {
		return m, nil
	}
	ncols := len(m.view.Columns)

	switch kind {
	case drag.KindCard:
		step := 0
		switch {
		case key.Matches(msg, k.Left):
			m.drop.col = clamp(m.drop.col-1, 0, ncols-1)
		case key.Matches(msg, k.Right):
			m.drop.col = clamp(m.drop.col+1, 0, ncols-1)
		case key.Matches(msg, k.Up):
			step = -1
		case key.Matches(msg, k.Down):
			step = 1
		default:
			return m, nil
		}
		col := m.view.Columns[m.drop.col]
		m.drop.gap = clamp(m.drop.gap+step, 0, len(col.Cards))
		// The gaps just above and just below the card's own slot land in the same place.
		if col.ID == origin.ParentID && step != 0 && m.drop.gap == origin.Index+1 {
			if step > 0 && origin.Index+2 <= len(col.Cards) {
				m.drop.gap = origin.Index + 2
			} else {
				m.drop.gap = origin.Index
			}
		}
	case drag.KindColumn:
		switch {
		case key.Matches(msg, k.Left):
			m.drop.gap--
		case key.Matches(msg, k.Right):
			m.drop.gap++
		default:
			return m, nil
		}
		m.drop.gap = clamp(m.drop.gap, 0, ncols)
	}
	m.track()
	return m, nil
}

// clampDrop pulls the drop position back onto the current board after it changed underneath the
// gesture. With no columns left there is nowhere to drop and it reports false.
func (m *appModel) clampDrop() bool {
	ncols := len(m.view.Columns)
	if ncols == 0 {
		m.gesture.Leave()
		return false
	}
	m.drop.col = clamp(m.drop.col, 0, ncols-1)
	kind, _, _ := m.gesture.Subject()
	if kind == drag.KindCard {
		m.drop.gap = clamp(m.drop.gap, 0, len(m.view.Columns[m.drop.col].Cards))
	} else {
		m.drop.gap = clamp(m.drop.gap, 0, ncols)
	}
	return true
}

// track forwards the current drop position to the gesture.
func (m *appModel) track() {
	kind, _, _ := m.gesture.Subject()
	parentID := ""
	if kind == drag.KindCard {
		if m.drop.col < 0 || m.drop.col >= len(m.view.Columns) {
			m.gesture.Leave()
			return
		}
		m.drop.gap = clamp(m.drop.gap, 0, len(m.view.Columns[m.drop.col].Cards))
		parentID = m.view.Columns[m.drop.col].ID
	}
	if err := m.gesture.Track(parentID, m.drop.gap); err != nil {
		m.setError(err)
	}
}

func (m appModel) commitDrop() (tea.Model, tea.Cmd) {
	kind, id, _ := m.gesture.Subject()
	res, committed, err := m.gesture.Drop(m.ctx)
	switch {
	case err != nil:
		m.setError(err)
	case !committed:
		m.setStatus("nothing to drop on")
	case !res.Changed:
		m.setStatus("unchanged")
	default:
		m.setStatus("moved")
	}
	if kind == drag.KindColumn {
		m.colID = id
		m.cardID = ""
	}
	m.refresh()
	return m, nil
}

func (m appModel) openInput(purpose inputPurpose, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.inputFor = purpose
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.setStatus("")
	cmd := m.input.Focus()
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		m.mode = modeNormal
		m.input.Blur()
		m.submitInput(strings.TrimSpace(m.input.Value()))
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) submitInput(value string) {
	var err error
	switch m.inputFor {
	case inputNewCard:
		col, _ := m.selectedColumn()
		var res mutate.CardResult
		if res, err = m.board.CreateCard(m.ctx, col.ID, value, ""); err == nil {
			m.cardID = res.Card.ID
		}
	case inputNewColumn:
		var res mutate.ColumnResult
		if res, err = m.board.CreateColumn(m.ctx, m.projectID, value); err == nil {
			m.colID, m.cardID = res.Column.ID, ""
		}
	case inputNewProject:
		var res mutate.ProjectResult
		if res, err = m.board.CreateProject(m.ctx, value, "", ""); err == nil {
			m.projectID = res.Project.ID
			m.colID, m.cardID = "", ""
			_, err = m.board.UseProject(m.ctx, res.Project.ID)
		}
	case inputEditCard:
		_, err = m.board.EditCard(m.ctx, m.cardID, mutate.CardPatch{Title: &value})
	}
	if err != nil {
		m.setError(err)
	}
	m.refresh()
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
	case "n", "N", "esc":
		m.mode = modeNormal
		m.setStatus("")
		return m, nil
	default:
		return m, nil
	}

	m.mode = modeNormal
	var err error
	switch m.confirmFor {
	case confirmDeleteCard:
		_, err = m.board.DeleteCard(m.ctx, m.cardID)
		m.cardID = ""
	case confirmDeleteColumn:
		var res mutate.DeleteResult
		res, err = m.board.DeleteColumn(m.ctx, m.colID)
		if err == nil && res.ReflowedTo != "" {
			m.colID = res.ReflowedTo
		}
	}
	if err != nil {
		m.setError(err)
	} else {
		m.setStatus("deleted")
	}
	m.refresh()
	return m, nil
}
