package mutate

import (
	"strings"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

// ProjectPatch holds optional project edits; nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
	Theme       *model.Theme
}

func EditProject(db *store.DB, projectID string, patch ProjectPatch) (ProjectResult, error) {
	projectID = strings.TrimSpace(projectID)
	p, ok := db.FindProject(projectID)
	if !ok {
		return ProjectResult{}, NotFoundError{Kind: "project", ID: projectID}
	}

	// Validate everything before touching p.
	var name, desc string
	var theme model.Theme
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return ProjectResult{}, ValidationError{Field: "name", Message: "must not be empty"}
		}
	}
	if patch.Description != nil {
		desc = strings.TrimSpace(*patch.Description)
	}
	if patch.Theme != nil {
		t, err := model.ParseTheme(string(*patch.Theme))
		if err != nil {
			return ProjectResult{}, ValidationError{Field: "theme", Message: err.Error()}
		}
		theme = t
	}

	payload := map[string]any{}
	if patch.Name != nil && p.Name != name {
		p.Name = name
		payload["name"] = name
	}
	if patch.Description != nil && p.Description != desc {
		p.Description = desc
		payload["description"] = desc
	}
	if patch.Theme != nil && p.Theme != theme {
		p.Theme = theme
		payload["theme"] = theme
	}
	return ProjectResult{Project: *p, Changed: len(payload) > 0, EventPayload: payload}, nil
}

func RenameColumn(db *store.DB, columnID, name string) (ColumnResult, error) {
	columnID = strings.TrimSpace(columnID)
	c, ok := db.FindColumn(columnID)
	if !ok {
		return ColumnResult{}, NotFoundError{Kind: "column", ID: columnID}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ColumnResult{}, ValidationError{Field: "name", Message: "must not be empty"}
	}
	if c.Name == name {
		return ColumnResult{Column: *c}, nil
	}
	c.Name = name
	return ColumnResult{Column: *c, Changed: true, EventPayload: map[string]any{"name": name}}, nil
}

// CardPatch holds optional card edits; nil fields are left unchanged.
type CardPatch struct {
	Title *string
	Body  *string
}

func EditCard(db *store.DB, cardID string, patch CardPatch) (CardResult, error) {
	cardID = strings.TrimSpace(cardID)
	c, ok := db.FindCard(cardID)
	if !ok {
		return CardResult{}, NotFoundError{Kind: "card", ID: cardID}
	}
	var title string
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
		if title == "" {
			return CardResult{}, ValidationError{Field: "title", Message: "must not be empty"}
		}
	}

	payload := map[string]any{}
	if patch.Title != nil && c.Title != title {
		c.Title = title
		payload["title"] = title
	}
	if patch.Body != nil && c.Body != *patch.Body {
		c.Body = *patch.Body
		payload["body"] = c.Body
	}
	return CardResult{Card: *c, Changed: len(payload) > 0, EventPayload: payload}, nil
}

func ToggleSubtask(db *store.DB, subtaskID string) (SubtaskResult, error) {
	subtaskID = strings.TrimSpace(subtaskID)
	s, ok := db.FindSubtask(subtaskID)
	if !ok {
		return SubtaskResult{}, NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	s.Completed = !s.Completed
	return SubtaskResult{
		Subtask:      *s,
		Changed:      true,
		EventPayload: map[string]any{"completed": s.Completed},
	}, nil
}

func RenameSubtask(db *store.DB, subtaskID, title string) (SubtaskResult, error) {
	subtaskID = strings.TrimSpace(subtaskID)
	s, ok := db.FindSubtask(subtaskID)
	if !ok {
		return SubtaskResult{}, NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return SubtaskResult{}, ValidationError{Field: "title", Message: "must not be empty"}
	}
	if s.Title == title {
		return SubtaskResult{Subtask: *s}, nil
	}
	s.Title = title
	return SubtaskResult{Subtask: *s, Changed: true, EventPayload: map[string]any{"title": title}}, nil
}
