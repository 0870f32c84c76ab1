package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskorium-cli/internal/drag"
)

const (
	minColumnWidth = 18
	columnGap      = 1
	dropHereLabel  = "drop here"
)

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 100
	}

	var b strings.Builder
	b.WriteString(m.viewHeader(w))
	b.WriteString("\n\n")

	switch {
	case m.projectID == "":
		b.WriteString(styleMuted().Render("No projects yet. Press p to create one."))
	case len(m.view.Columns) == 0:
		b.WriteString(styleMuted().Render("This project has no columns. Press c to add one."))
	default:
		boardW := w
		if m.showDetail {
			boardW = w * 2 / 3
		}
		cols := m.viewColumns(boardW)
		if m.showDetail {
			detail := m.viewDetail(w - boardW - 2)
			cols = lipgloss.JoinHorizontal(lipgloss.Top, cols, "  ", detail)
		}
		b.WriteString(cols)
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewFooter(w))
	return b.String()
}

func (m appModel) viewHeader(w int) string {
	ws := lipgloss.NewStyle().Foreground(colorHeaderMuted).Render(m.workspace)
	sep := styleMuted().Render(" " + glyphBreadcrumb() + " ")
	if m.projectID == "" {
		return truncateText(ws, w)
	}
	p := m.view.Project
	name := lipgloss.NewStyle().Bold(true).Foreground(planetColor(p.Theme)).Render(p.Name)
	pos := ""
	if i := m.projectIndex(); i >= 0 && len(m.projects) > 1 {
		pos = styleMuted().Render(fmt.Sprintf("  (%d/%d)", i+1, len(m.projects)))
	}
	return truncateText(ws+sep+name+pos, w)
}

func (m appModel) columnWidth(boardW int) int {
	n := len(m.view.Columns)
	if n == 0 {
		return minColumnWidth
	}
	cw := (boardW - columnGap*(n-1)) / n
	if cw < minColumnWidth {
		cw = minColumnWidth
	}
	return cw
}

func (m appModel) viewColumns(boardW int) string {
	cw := m.columnWidth(boardW)
	kind, dragID, _ := m.gesture.Subject()
	dragging := m.gesture.State() == drag.Tracking
	_, hasTarget := m.gesture.Target()

	bar := lipgloss.NewStyle().Foreground(colorDropFg).Bold(true).Render(glyphDropBar())
	blank := " "

	var parts []string
	for i := range m.view.Columns {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", columnGap))
		}
		if dragging && kind == drag.KindColumn && hasTarget && m.drop.gap == i {
			parts = append(parts, bar)
		} else if dragging && kind == drag.KindColumn {
			parts = append(parts, blank)
		}
		parts = append(parts, m.viewColumn(i, cw, dragging, kind, dragID, hasTarget))
	}
	if dragging && kind == drag.KindColumn && hasTarget && m.drop.gap == len(m.view.Columns) {
		parts = append(parts, bar)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m appModel) viewColumn(ci, width int, dragging bool, kind drag.Kind, dragID string, hasTarget bool) string {
	col := m.view.Columns[ci]
	focused := ci == m.col

	head := fmt.Sprintf("%s (%d)", col.Name, len(col.Cards))
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	switch {
	case dragging && kind == drag.KindColumn && col.ID == dragID:
		headStyle = lipgloss.NewStyle().Foreground(colorDraggingFg)
		head = glyphGrip() + " " + head
	case focused:
		headStyle = headStyle.Foreground(colorAccentFg).Background(colorAccent)
	}

	lines := []string{
		headStyle.Render(truncateText(head, width)),
		styleMuted().Render(strings.Repeat(glyphHRule(), width)),
	}

	dropLine := lipgloss.NewStyle().Foreground(colorDropFg).Bold(true).
		Render(truncateText(glyphDropBar()+" "+dropHereLabel, width))
	showDrop := dragging && kind == drag.KindCard && hasTarget && m.drop.col == ci

	for ki, card := range col.Cards {
		if showDrop && m.drop.gap == ki {
			lines = append(lines, dropLine)
		}
		lines = append(lines, m.viewCard(card.Title, card.CompletedCount, len(card.Subtasks), width,
			focused && ki == m.card && !dragging,
			dragging && kind == drag.KindCard && card.ID == dragID))
	}
	if showDrop && m.drop.gap >= len(col.Cards) {
		lines = append(lines, dropLine)
	}
	if len(col.Cards) == 0 && !showDrop {
		lines = append(lines, styleMuted().Render(truncateText("(empty)", width)))
	}
	return normalizePane(strings.Join(lines, "\n"), width, 0)
}

func (m appModel) viewCard(title string, done, total, width int, selected, dragged bool) string {
	text := title
	if total > 0 {
		text = fmt.Sprintf("%s [%d/%d]", title, done, total)
	}
	st := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	prefix := "  "
	switch {
	case dragged:
		st = lipgloss.NewStyle().Foreground(colorDraggingFg)
		prefix = glyphGrip() + " "
	case selected:
		st = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	}
	return st.Render(truncateText(prefix+text, width))
}

func (m appModel) viewDetail(width int) string {
	if width < 20 {
		width = 20
	}
	card, ok := m.selectedCard()
	if !ok {
		return styleMuted().Render("No card selected.")
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(truncateText(card.Title, width)),
		lipgloss.NewStyle().Foreground(colorCardMetaFg).Render(truncateText(card.ID, width)),
		"",
	}
	if body := renderMarkdown(card.Body, width); body != "" {
		lines = append(lines, body, "")
	}
	if len(card.Subtasks) > 0 {
		lines = append(lines, styleMuted().Render(fmt.Sprintf("Subtasks %d/%d", card.CompletedCount, len(card.Subtasks))))
		for _, s := range card.Subtasks {
			lines = append(lines, truncateText(glyphCheckbox(s.Completed)+" "+s.Title, width))
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

func (m appModel) viewFooter(w int) string {
	var lines []string
	switch m.mode {
	case modeInput:
		lines = append(lines, m.input.View())
	case modeConfirm:
		lines = append(lines, lipgloss.NewStyle().Foreground(colorErrorFg).Render(truncateText(m.status, w)))
	}
	if m.mode != modeConfirm && m.status != "" {
		st := styleMuted()
		if m.statusErr {
			st = lipgloss.NewStyle().Foreground(colorErrorFg)
		}
		lines = append(lines, st.Render(truncateText(m.status, w)))
	}

	if m.gesture.State() == drag.Tracking {
		lines = append(lines, m.help.View(dragKeyMap{k: m.keys}))
	} else {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}
