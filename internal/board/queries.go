package board

import (
	"strings"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/mutate"
	"taskorium-cli/internal/store"
)

func (b *Board) Projects() []model.Project {
	var out []model.Project
	b.read(func(db *store.DB) { out = db.ProjectsSorted() })
	return out
}

func (b *Board) Columns(projectID string) ([]model.Column, error) {
	var out []model.Column
	var err error
	b.read(func(db *store.DB) {
		if _, ok := db.FindProject(projectID); !ok {
			err = mutate.NotFoundError{Kind: "project", ID: strings.TrimSpace(projectID)}
			return
		}
		out = db.ColumnsSorted(projectID)
	})
	return out, err
}

func (b *Board) Cards(columnID string) ([]model.Card, error) {
	var out []model.Card
	var err error
	b.read(func(db *store.DB) {
		if _, ok := db.FindColumn(columnID); !ok {
			err = mutate.NotFoundError{Kind: "column", ID: strings.TrimSpace(columnID)}
			return
		}
		out = db.CardsSorted(columnID)
	})
	return out, err
}

func (b *Board) Subtasks(cardID string) ([]model.Subtask, error) {
	var out []model.Subtask
	var err error
	b.read(func(db *store.DB) {
		if _, ok := db.FindCard(cardID); !ok {
			err = mutate.NotFoundError{Kind: "card", ID: strings.TrimSpace(cardID)}
			return
		}
		out = db.SubtasksOf(cardID)
	})
	return out, err
}

func (b *Board) Project(projectID string) (model.Project, error) {
	var out model.Project
	var err error
	b.read(func(db *store.DB) {
		p, ok := db.FindProject(projectID)
		if !ok {
			err = mutate.NotFoundError{Kind: "project", ID: strings.TrimSpace(projectID)}
			return
		}
		out = *p
	})
	return out, err
}

// Card returns a card with its subtasks and the column/project it lives in.
func (b *Board) Card(cardID string) (CardDetail, error) {
	var out CardDetail
	var err error
	b.read(func(db *store.DB) {
		c, ok := db.FindCard(cardID)
		if !ok {
			err = mutate.NotFoundError{Kind: "card", ID: strings.TrimSpace(cardID)}
			return
		}
		out.Card = *c
		out.Subtasks = db.SubtasksOf(c.ID)
		for _, s := range out.Subtasks {
			if s.Completed {
				out.CompletedCount++
			}
		}
		if col, ok := db.FindColumn(c.ColumnID); ok {
			out.Column = *col
			if p, ok := db.FindProject(col.ProjectID); ok {
				out.Project = *p
			}
		}
		loc, lerr := mutate.LocateCard(db, c.ID)
		if lerr == nil {
			out.Index = loc.Index
		}
	})
	return out, err
}

type CardDetail struct {
	Card           model.Card      `json:"card"`
	Column         model.Column    `json:"column"`
	Project        model.Project   `json:"project"`
	Index          int             `json:"index"`
	Subtasks       []model.Subtask `json:"subtasks"`
	CompletedCount int             `json:"completedCount"`
}

// Board returns the nested sorted view of one project.
func (b *Board) Board(projectID string) (store.BoardView, error) {
	var out store.BoardView
	var err error
	b.read(func(db *store.DB) {
		v, ok := db.Board(projectID)
		if !ok {
			err = mutate.NotFoundError{Kind: "project", ID: strings.TrimSpace(projectID)}
			return
		}
		out = v
	})
	return out, err
}

func (b *Board) CurrentProjectID() string {
	var id string
	b.read(func(db *store.DB) { id = db.CurrentProjectID })
	return id
}

// Snapshot returns a deep copy of the whole graph.
func (b *Board) Snapshot() *store.DB {
	var out *store.DB
	b.read(func(db *store.DB) { out = db.Clone() })
	return out
}

func (b *Board) Check() store.DoctorReport {
	var rep store.DoctorReport
	b.read(func(db *store.DB) { rep = store.Doctor(db) })
	return rep
}

// ResolveCardDrop is read-only and safe to call on every pointer movement.
func (b *Board) ResolveCardDrop(cardID, destColumnID string, destIndex int) (mutate.DropTarget, error) {
	var out mutate.DropTarget
	var err error
	b.read(func(db *store.DB) { out, err = mutate.ResolveCardDrop(db, cardID, destColumnID, destIndex) })
	return out, err
}

func (b *Board) ResolveColumnDrop(columnID string, destIndex int) (mutate.DropTarget, error) {
	var out mutate.DropTarget
	var err error
	b.read(func(db *store.DB) { out, err = mutate.ResolveColumnDrop(db, columnID, destIndex) })
	return out, err
}

func (b *Board) LocateCard(cardID string) (mutate.Location, error) {
	var out mutate.Location
	var err error
	b.read(func(db *store.DB) { out, err = mutate.LocateCard(db, cardID) })
	return out, err
}

func (b *Board) LocateColumn(columnID string) (mutate.Location, error) {
	var out mutate.Location
	var err error
	b.read(func(db *store.DB) { out, err = mutate.LocateColumn(db, columnID) })
	return out, err
}
