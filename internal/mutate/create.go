package mutate

import (
	"strings"
	"time"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

// DefaultColumnNames are seeded, in order, into every new project.
var DefaultColumnNames = []string{"To Do", "In Progress", "Done"}

type ProjectResult struct {
	Project      model.Project  `json:"project"`
	Columns      []model.Column `json:"columns"`
	Changed      bool           `json:"changed"`
	EventPayload map[string]any `json:"-"`
}

type ColumnResult struct {
	Column       model.Column   `json:"column"`
	Changed      bool           `json:"changed"`
	EventPayload map[string]any `json:"-"`
}

type CardResult struct {
	Card         model.Card     `json:"card"`
	Changed      bool           `json:"changed"`
	EventPayload map[string]any `json:"-"`
}

type SubtaskResult struct {
	Subtask      model.Subtask  `json:"subtask"`
	Changed      bool           `json:"changed"`
	EventPayload map[string]any `json:"-"`
}

// CreateProject appends a project at the end of the project list and seeds the default columns.
// Callers are responsible for saving db and appending the project.create event.
func CreateProject(db *store.DB, now time.Time, name, description string, theme model.Theme) (ProjectResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProjectResult{}, ValidationError{Field: "name", Message: "must not be empty"}
	}
	theme, err := model.ParseTheme(string(theme))
	if err != nil {
		return ProjectResult{}, ValidationError{Field: "theme", Message: err.Error()}
	}

	p := model.Project{
		ID:          db.NextID(store.PrefixProject),
		Name:        name,
		Description: strings.TrimSpace(description),
		Theme:       theme,
		Order:       len(db.Projects),
		CreatedAt:   now,
	}
	db.Projects = append(db.Projects, p)

	cols := make([]model.Column, 0, len(DefaultColumnNames))
	for i, n := range DefaultColumnNames {
		c := model.Column{
			ID:        db.NextID(store.PrefixColumn),
			ProjectID: p.ID,
			Name:      n,
			Order:     i,
			CreatedAt: now,
		}
		db.Columns = append(db.Columns, c)
		cols = append(cols, c)
	}

	colIDs := make([]string, 0, len(cols))
	for _, c := range cols {
		colIDs = append(colIDs, c.ID)
	}
	return ProjectResult{
		Project: p,
		Columns: cols,
		Changed: true,
		EventPayload: map[string]any{
			"name":      p.Name,
			"theme":     p.Theme,
			"order":     p.Order,
			"columnIds": colIDs,
		},
	}, nil
}

// CreateColumn appends a column at the end of the project's column list.
func CreateColumn(db *store.DB, now time.Time, projectID, name string) (ColumnResult, error) {
	projectID = strings.TrimSpace(projectID)
	p, ok := db.FindProject(projectID)
	if !ok {
		return ColumnResult{}, NotFoundError{Kind: "project", ID: projectID}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ColumnResult{}, ValidationError{Field: "name", Message: "must not be empty"}
	}

	c := model.Column{
		ID:        db.NextID(store.PrefixColumn),
		ProjectID: p.ID,
		Name:      name,
		Order:     len(db.ColumnRefs(p.ID)),
		CreatedAt: now,
	}
	db.Columns = append(db.Columns, c)
	return ColumnResult{
		Column:       c,
		Changed:      true,
		EventPayload: map[string]any{"projectId": c.ProjectID, "name": c.Name, "order": c.Order},
	}, nil
}

// CreateCard appends a card at the end of the column.
func CreateCard(db *store.DB, now time.Time, columnID, title, body string) (CardResult, error) {
	columnID = strings.TrimSpace(columnID)
	col, ok := db.FindColumn(columnID)
	if !ok {
		return CardResult{}, NotFoundError{Kind: "column", ID: columnID}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return CardResult{}, ValidationError{Field: "title", Message: "must not be empty"}
	}

	c := model.Card{
		ID:        db.NextID(store.PrefixCard),
		ColumnID:  col.ID,
		Title:     title,
		Body:      body,
		Order:     len(db.CardRefs(col.ID)),
		CreatedAt: now,
	}
	db.Cards = append(db.Cards, c)
	return CardResult{
		Card:         c,
		Changed:      true,
		EventPayload: map[string]any{"columnId": c.ColumnID, "title": c.Title, "order": c.Order},
	}, nil
}

func CreateSubtask(db *store.DB, now time.Time, cardID, title string) (SubtaskResult, error) {
	cardID = strings.TrimSpace(cardID)
	card, ok := db.FindCard(cardID)
	if !ok {
		return SubtaskResult{}, NotFoundError{Kind: "card", ID: cardID}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return SubtaskResult{}, ValidationError{Field: "title", Message: "must not be empty"}
	}

	s := model.Subtask{
		ID:        db.NextID(store.PrefixSubtask),
		CardID:    card.ID,
		Title:     title,
		CreatedAt: now,
	}
	db.Subtasks = append(db.Subtasks, s)
	return SubtaskResult{
		Subtask:      s,
		Changed:      true,
		EventPayload: map[string]any{"cardId": s.CardID, "title": s.Title},
	}, nil
}
