package mutate

import (
	"testing"
	"time"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type colSpec struct {
	id    string
	cards []string
}

// boardDB builds one project "prj-1" whose columns hold cards with ids equal to the given names.
func boardDB(t *testing.T, cols ...colSpec) *store.DB {
	t.Helper()
	db := store.NewDB()
	db.Projects = append(db.Projects, model.Project{ID: "prj-1", Name: "P", Theme: model.DefaultTheme, CreatedAt: t0})
	for i, c := range cols {
		db.Columns = append(db.Columns, model.Column{ID: c.id, ProjectID: "prj-1", Name: c.id, Order: i, CreatedAt: t0})
		for j, id := range c.cards {
			db.Cards = append(db.Cards, model.Card{ID: id, ColumnID: c.id, Title: id, Order: j, CreatedAt: t0})
		}
	}
	return db
}

func cardIDs(db *store.DB, columnID string) []string {
	out := []string{}
	for _, c := range db.CardRefs(columnID) {
		out = append(out, c.ID)
	}
	return out
}

func columnIDs(db *store.DB, projectID string) []string {
	out := []string{}
	for _, c := range db.ColumnRefs(projectID) {
		out = append(out, c.ID)
	}
	return out
}

func projectIDs(db *store.DB) []string {
	out := []string{}
	for _, p := range db.ProjectRefs() {
		out = append(out, p.ID)
	}
	return out
}

// requireDense fails unless every sibling set in db has orders exactly 0..N-1.
func requireDense(t *testing.T, db *store.DB) {
	t.Helper()
	if !store.IsDense(db.ProjectRefs()) {
		t.Fatalf("project orders not dense")
	}
	for _, p := range db.Projects {
		if !store.IsDense(db.ColumnRefs(p.ID)) {
			t.Fatalf("column orders not dense in %s", p.ID)
		}
	}
	for _, c := range db.Columns {
		refs := db.CardRefs(c.ID)
		if !store.IsDense(refs) {
			orders := []int{}
			for _, r := range refs {
				orders = append(orders, r.Order)
			}
			t.Fatalf("card orders not dense in %s: %v", c.ID, orders)
		}
	}
}

func projectsDB(ids ...string) *store.DB {
	db := store.NewDB()
	for i, id := range ids {
		db.Projects = append(db.Projects, model.Project{ID: id, Name: id, Theme: model.DefaultTheme, Order: i, CreatedAt: t0})
	}
	return db
}
