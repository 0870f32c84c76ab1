package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

func testView() store.BoardView {
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	return store.BoardView{
		Project: model.Project{ID: "prj-a", Name: "Launch", Description: "Ship it.", Theme: model.ThemeMars, CreatedAt: now},
		Columns: []store.ColumnView{
			{
				Column: model.Column{ID: "col-a", ProjectID: "prj-a", Name: "To Do"},
				Cards: []store.CardView{
					{
						Card: model.Card{ID: "crd-a", ColumnID: "col-a", Title: "Write docs", Body: "Some **markdown**.", CreatedAt: now},
						Subtasks: []model.Subtask{
							{ID: "sub-a", CardID: "crd-a", Title: "Outline", Completed: true},
							{ID: "sub-b", CardID: "crd-a", Title: "Draft"},
						},
						CompletedCount: 1,
					},
				},
			},
			{Column: model.Column{ID: "col-b", ProjectID: "prj-a", Name: "Done"}, Cards: []store.CardView{}},
		},
	}
}

func TestRenderBoardMarkdown_ColumnsInOrder(t *testing.T) {
	t.Parallel()
	md := RenderBoardMarkdown(testView(), RenderOptions{IncludeBodies: true})

	for _, want := range []string{"# Launch", "- Theme: Mars", "## To Do (1)", "[Write docs](cards/crd-a.md) (1/2)", "  Some **markdown**.", "## Done (0)", "_No cards._"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Index(md, "## To Do") > strings.Index(md, "## Done") {
		t.Fatalf("columns out of order:\n%s", md)
	}
}

func TestRenderCardMarkdown_Subtasks(t *testing.T) {
	t.Parallel()
	v := testView()
	md := RenderCardMarkdown(v, v.Columns[0].Cards[0], "To Do")
	for _, want := range []string{"# Write docs", "- Column: To Do", "- [x] Outline", "- [ ] Draft"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestWriteBoard_RespectsOverwrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	res, err := WriteBoard(testView(), dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteBoard: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected index + 1 card, got %v", res.Written)
	}
	if _, err := os.Stat(filepath.Join(dir, "prj-a", "cards", "crd-a.md")); err != nil {
		t.Fatalf("card page missing: %v", err)
	}

	if _, err := WriteBoard(testView(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected error without overwrite")
	}
	if _, err := WriteBoard(testView(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("WriteBoard overwrite: %v", err)
	}
}
