package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"taskorium-cli/internal/model"
)

const (
	dirName        = ".taskorium"
	sqliteFileName = "taskorium.sqlite"
)

// DB is the canonical in-memory board graph.
//
// Ownership flows downward (Project -> Column -> Card -> Subtask). The ProjectID/ColumnID/CardID
// fields on children are navigational back-references only.
type DB struct {
	Version          int             `json:"version"`
	CurrentProjectID string          `json:"currentProjectId,omitempty"`
	Projects         []model.Project `json:"projects"`
	Columns          []model.Column  `json:"columns"`
	Cards            []model.Card    `json:"cards"`
	Subtasks         []model.Subtask `json:"subtasks"`
}

// NewDB returns an empty graph with non-nil slices.
func NewDB() *DB {
	return &DB{
		Version:  1,
		Projects: []model.Project{},
		Columns:  []model.Column{},
		Cards:    []model.Card{},
		Subtasks: []model.Subtask{},
	}
}

type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, dirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) Load(ctx context.Context) (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(ctx)
}

// Save flushes the whole graph. It is called after every committed command.
func (s Store) Save(ctx context.Context, db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(ctx, db)
}

func (s Store) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	return s.appendEventSQLite(ctx, typ, entityID, payload)
}

// Clone returns a deep copy. Every entity is a flat value, so copying the slices is enough.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := *db
	out.Projects = append([]model.Project{}, db.Projects...)
	out.Columns = append([]model.Column{}, db.Columns...)
	out.Cards = append([]model.Card{}, db.Cards...)
	out.Subtasks = append([]model.Subtask{}, db.Subtasks...)
	return &out
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

func (db *DB) FindColumn(id string) (*model.Column, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Columns {
		if db.Columns[i].ID == id {
			return &db.Columns[i], true
		}
	}
	return nil, false
}

func (db *DB) FindCard(id string) (*model.Card, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Cards {
		if db.Cards[i].ID == id {
			return &db.Cards[i], true
		}
	}
	return nil, false
}

func (db *DB) FindSubtask(id string) (*model.Subtask, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Subtasks {
		if db.Subtasks[i].ID == id {
			return &db.Subtasks[i], true
		}
	}
	return nil, false
}

// ProjectRefs returns pointers to all projects sorted by order.
// The pointers are valid until the next insert into or removal from db.Projects.
func (db *DB) ProjectRefs() []*model.Project {
	out := make([]*model.Project, 0, len(db.Projects))
	for i := range db.Projects {
		out = append(out, &db.Projects[i])
	}
	SortByOrder(out)
	return out
}

// ColumnRefs returns pointers to a project's columns sorted by order.
func (db *DB) ColumnRefs(projectID string) []*model.Column {
	var out []*model.Column
	for i := range db.Columns {
		if db.Columns[i].ProjectID == projectID {
			out = append(out, &db.Columns[i])
		}
	}
	SortByOrder(out)
	return out
}

// CardRefs returns pointers to a column's cards sorted by order.
func (db *DB) CardRefs(columnID string) []*model.Card {
	var out []*model.Card
	for i := range db.Cards {
		if db.Cards[i].ColumnID == columnID {
			out = append(out, &db.Cards[i])
		}
	}
	SortByOrder(out)
	return out
}

// SubtaskRefs returns pointers to a card's subtasks in insertion order.
func (db *DB) SubtaskRefs(cardID string) []*model.Subtask {
	var out []*model.Subtask
	for i := range db.Subtasks {
		if db.Subtasks[i].CardID == cardID {
			out = append(out, &db.Subtasks[i])
		}
	}
	return out
}

// RemoveProjects drops every project whose id is in ids. Callers reindex the survivors.
func (db *DB) RemoveProjects(ids map[string]bool) {
	db.Projects = filterSlice(db.Projects, func(p model.Project) bool { return !ids[p.ID] })
}

func (db *DB) RemoveColumns(ids map[string]bool) {
	db.Columns = filterSlice(db.Columns, func(c model.Column) bool { return !ids[c.ID] })
}

func (db *DB) RemoveCards(ids map[string]bool) {
	db.Cards = filterSlice(db.Cards, func(c model.Card) bool { return !ids[c.ID] })
}

func (db *DB) RemoveSubtasks(ids map[string]bool) {
	db.Subtasks = filterSlice(db.Subtasks, func(s model.Subtask) bool { return !ids[s.ID] })
}

func filterSlice[T any](xs []T, keep func(T) bool) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}
