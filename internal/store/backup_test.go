package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBackupExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	src := Store{Dir: t.TempDir()}
	db := sampleDB(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, src.Save(ctx, db))
	require.NoError(t, src.AppendEvent(ctx, "project.create", "prj-a", map[string]any{"name": "A"}))
	require.NoError(t, src.AppendEvent(ctx, "card.move", "crd-1", map[string]any{"toIndex": 0}))

	out := filepath.Join(t.TempDir(), "bak")
	res, err := src.ExportBackup(ctx, out)
	require.NoError(t, err)
	require.Equal(t, 2, res.Events)
	require.Equal(t, 2, res.Counts["projects"])
	for _, f := range []string{backupBoardFile, backupEventsFile} {
		_, err := os.Stat(filepath.Join(out, f))
		require.NoError(t, err, f)
	}

	dst := Store{Dir: t.TempDir()}
	require.NoError(t, dst.AppendEvent(ctx, "project.create", "prj-old", nil))
	_, err = dst.ImportBackup(ctx, out)
	require.NoError(t, err)

	got, err := dst.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(db, got); diff != "" {
		t.Fatalf("restored graph (-want +got):\n%s", diff)
	}

	evs, err := dst.ReadEvents(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	require.Equal(t, "project.create", evs[0].Type)
	require.Equal(t, "crd-1", evs[1].EntityID)
}

func TestBackupImportRejectsInconsistentGraph(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	board := `{"version":1,"projects":[{"id":"prj-a","name":"A","theme":"earth","order":3}],"columns":[],"cards":[],"subtasks":[]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, backupBoardFile), []byte(board), 0o644))

	s := Store{Dir: t.TempDir()}
	_, err := s.ImportBackup(ctx, dir)
	require.Error(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got.Projects)
}

func TestEventsJSONL_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	require.NoError(t, s.AppendEvent(ctx, "subtask.toggle", "sub-1", map[string]any{"completed": true}))
	evs, err := s.ReadEvents(ctx, "", 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, WriteEventsJSONL(path, evs))
	back, err := ReadEventsJSONL(path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	require.Equal(t, evs[0].ID, back[0].ID)
	require.True(t, evs[0].TS.Equal(back[0].TS))
}
