package store

import "taskorium-cli/internal/model"

// Snapshot queries are the only sanctioned read path for rendering. They return copies sorted by
// order, so callers can hold on to them across commands.

func (db *DB) ProjectsSorted() []model.Project {
	refs := db.ProjectRefs()
	out := make([]model.Project, 0, len(refs))
	for _, p := range refs {
		out = append(out, *p)
	}
	return out
}

func (db *DB) ColumnsSorted(projectID string) []model.Column {
	refs := db.ColumnRefs(projectID)
	out := make([]model.Column, 0, len(refs))
	for _, c := range refs {
		out = append(out, *c)
	}
	return out
}

func (db *DB) CardsSorted(columnID string) []model.Card {
	refs := db.CardRefs(columnID)
	out := make([]model.Card, 0, len(refs))
	for _, c := range refs {
		out = append(out, *c)
	}
	return out
}

// SubtasksOf returns a card's subtasks in insertion order.
func (db *DB) SubtasksOf(cardID string) []model.Subtask {
	refs := db.SubtaskRefs(cardID)
	out := make([]model.Subtask, 0, len(refs))
	for _, s := range refs {
		out = append(out, *s)
	}
	return out
}

type CardView struct {
	model.Card
	Subtasks       []model.Subtask `json:"subtasks"`
	CompletedCount int             `json:"completedCount"`
}

type ColumnView struct {
	model.Column
	Cards []CardView `json:"cards"`
}

type BoardView struct {
	Project model.Project `json:"project"`
	Columns []ColumnView  `json:"columns"`
}

// Board returns the nested sorted view of one project.
func (db *DB) Board(projectID string) (BoardView, bool) {
	p, ok := db.FindProject(projectID)
	if !ok {
		return BoardView{}, false
	}
	subsByCard := map[string][]model.Subtask{}
	for _, s := range db.Subtasks {
		subsByCard[s.CardID] = append(subsByCard[s.CardID], s)
	}

	out := BoardView{Project: *p, Columns: []ColumnView{}}
	for _, col := range db.ColumnsSorted(p.ID) {
		cv := ColumnView{Column: col, Cards: []CardView{}}
		for _, card := range db.CardsSorted(col.ID) {
			subs := subsByCard[card.ID]
			if subs == nil {
				subs = []model.Subtask{}
			}
			done := 0
			for _, s := range subs {
				if s.Completed {
					done++
				}
			}
			cv.Cards = append(cv.Cards, CardView{Card: card, Subtasks: subs, CompletedCount: done})
		}
		out.Columns = append(out.Columns, cv)
	}
	return out, true
}
