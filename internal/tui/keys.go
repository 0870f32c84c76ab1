package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	PrevPrj key.Binding
	NextPrj key.Binding

	GrabCard   key.Binding
	GrabColumn key.Binding
	Drop       key.Binding
	Cancel     key.Binding

	NewCard      key.Binding
	NewColumn    key.Binding
	NewProject   key.Binding
	EditCard     key.Binding
	DeleteCard   key.Binding
	DeleteColumn key.Binding
	Detail       key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PrevPrj: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev project")),
		NextPrj: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next project")),

		GrabCard:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move card")),
		GrabColumn: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "move column")),
		Drop:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		NewCard:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new card")),
		NewColumn:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new column")),
		NewProject:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new project")),
		EditCard:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		DeleteCard:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete card")),
		DeleteColumn: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete column")),
		Detail:       key.NewBinding(key.WithKeys(" ", "i"), key.WithHelp("space", "details")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// dragKeyMap is shown while a gesture is in progress.
type dragKeyMap struct{ k keyMap }

func (d dragKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{d.k.Up, d.k.Down, d.k.Left, d.k.Right, d.k.Drop, d.k.Cancel}
}

func (d dragKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{d.ShortHelp()} }

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.GrabCard, k.GrabColumn, k.NewCard, k.Detail, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PrevPrj, k.NextPrj},
		{k.GrabCard, k.GrabColumn, k.Drop, k.Cancel},
		{k.NewCard, k.NewColumn, k.NewProject, k.EditCard},
		{k.DeleteCard, k.DeleteColumn, k.Detail, k.Help, k.Quit},
	}
}
