package store

import (
	"strings"
	"testing"

	"taskorium-cli/internal/model"
)

func TestNewRandomID_PrefixAndLength(t *testing.T) {
	t.Parallel()
	id, err := newRandomID(PrefixCard, 8)
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "crd-") {
		t.Fatalf("expected crd prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "crd-")
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected suffix len %d, got %d (%q)", want, got, suffix)
	}
	if suffix != strings.ToLower(suffix) {
		t.Fatalf("expected lowercase suffix, got %q", suffix)
	}
}

func TestNextID_Unique(t *testing.T) {
	t.Parallel()
	db := NewDB()
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := db.NextID(PrefixSubtask)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		db.Subtasks = append(db.Subtasks, model.Subtask{ID: id})
	}
}

func TestKindForID(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"prj-abc": "project",
		"col-abc": "column",
		" crd-x ": "card",
		"sub-1":   "subtask",
		"item-1":  "",
		"":        "",
		"prjabc":  "",
	}
	for in, want := range cases {
		if got := KindForID(in); got != want {
			t.Fatalf("KindForID(%q) = %q, want %q", in, got, want)
		}
	}
}
