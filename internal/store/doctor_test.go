package store

import (
	"testing"
	"time"

	"taskorium-cli/internal/model"
)

func hasIssue(rep DoctorReport, code, entityID string) bool {
	for _, it := range rep.Issues {
		if it.Code == code && it.EntityID == entityID {
			return true
		}
	}
	return false
}

func TestDoctor_CleanGraphHasNoIssues(t *testing.T) {
	t.Parallel()
	rep := Doctor(sampleDB(time.Now().UTC()))
	if len(rep.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", rep.Issues)
	}
}

func TestDoctor_DetectsGapsOrphansAndDuplicates(t *testing.T) {
	t.Parallel()
	db := sampleDB(time.Now().UTC())
	db.Cards[0].Order = 5
	db.Cards = append(db.Cards, model.Card{ID: "crd-orphan", ColumnID: "col-gone"})
	db.Subtasks = append(db.Subtasks, model.Subtask{ID: "sub-z", CardID: "crd-1"})

	rep := Doctor(db)
	if !rep.HasErrors() {
		t.Fatalf("expected errors")
	}
	if !hasIssue(rep, "order_not_dense", "col-1") {
		t.Fatalf("expected order_not_dense for col-1: %+v", rep.Issues)
	}
	if !hasIssue(rep, "orphan", "crd-orphan") {
		t.Fatalf("expected orphan for crd-orphan: %+v", rep.Issues)
	}
	if !hasIssue(rep, "duplicate_id", "sub-z") {
		t.Fatalf("expected duplicate_id for sub-z: %+v", rep.Issues)
	}
}

func TestRepair_RestoresInvariants(t *testing.T) {
	t.Parallel()
	db := sampleDB(time.Now().UTC())
	db.Projects[0].Order = 9
	db.Cards[0].Order = 4
	db.Columns = append(db.Columns, model.Column{ID: "col-orphan", ProjectID: "prj-gone"})
	db.Cards = append(db.Cards, model.Card{ID: "crd-under-orphan", ColumnID: "col-orphan"})
	db.Subtasks = append(db.Subtasks, model.Subtask{ID: "sub-under-orphan", CardID: "crd-under-orphan"})

	res := Repair(db)
	if res.RemovedOrphans != 3 {
		t.Fatalf("expected 3 removed orphans, got %d", res.RemovedOrphans)
	}
	if res.Reindexed == 0 {
		t.Fatalf("expected some sibling sets reindexed")
	}
	if rep := Doctor(db); len(rep.Issues) != 0 {
		t.Fatalf("expected clean graph after repair, got %+v", rep.Issues)
	}
	if again := Repair(db); again.Reindexed != 0 || again.RemovedOrphans != 0 {
		t.Fatalf("expected second repair to be a no-op, got %+v", again)
	}
}
