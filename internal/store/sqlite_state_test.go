package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"taskorium-cli/internal/model"
)

func sampleDB(now time.Time) *DB {
	db := NewDB()
	db.CurrentProjectID = "prj-a"
	db.Projects = []model.Project{
		{ID: "prj-b", Name: "B", Theme: model.ThemeMars, Order: 1, CreatedAt: now},
		{ID: "prj-a", Name: "A", Description: "first", Theme: model.ThemeEarth, Order: 0, CreatedAt: now},
	}
	db.Columns = []model.Column{
		{ID: "col-1", ProjectID: "prj-a", Name: "To Do", Order: 0, CreatedAt: now},
		{ID: "col-2", ProjectID: "prj-a", Name: "Done", Order: 1, CreatedAt: now},
	}
	db.Cards = []model.Card{
		{ID: "crd-2", ColumnID: "col-1", Title: "second", Order: 1, CreatedAt: now},
		{ID: "crd-1", ColumnID: "col-1", Title: "first", Body: "# body", Order: 0, CreatedAt: now},
	}
	db.Subtasks = []model.Subtask{
		{ID: "sub-z", CardID: "crd-1", Title: "z", CreatedAt: now},
		{ID: "sub-a", CardID: "crd-1", Title: "a", Completed: true, CreatedAt: now},
	}
	return db
}

func TestSQLiteStateStore_SaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("TASKORIUM_CONFIG_DIR", t.TempDir())
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	now := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	want := sampleDB(now)
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}

	// Subtasks keep insertion order, not id order.
	subs := got.SubtasksOf("crd-1")
	require.Len(t, subs, 2)
	require.Equal(t, "sub-z", subs[0].ID)
}

func TestSQLiteStateStore_SaveReplacesEverything(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	require.NoError(t, s.Save(ctx, sampleDB(time.Now().UTC())))

	next := NewDB()
	next.Projects = []model.Project{{ID: "prj-only", Name: "Only", Theme: model.DefaultTheme, CreatedAt: time.Now().UTC()}}
	require.NoError(t, s.Save(ctx, next))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Projects, 1)
	require.Empty(t, got.Columns)
	require.Empty(t, got.Cards)
	require.Empty(t, got.Subtasks)
	require.Equal(t, "", got.CurrentProjectID)
}

func TestSQLiteStateStore_LoadEmptyWorkspace(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, got.Version)
	require.NotNil(t, got.Projects)
	require.Empty(t, got.Projects)
}
