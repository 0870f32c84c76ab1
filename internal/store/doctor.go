package store

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDoctorIssuesFound is returned by `doctor --fail` when the report has errors.
var ErrDoctorIssuesFound = errors.New("doctor found issues")

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level      DoctorIssueLevel `json:"level"`
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	EntityKind string           `json:"entityKind,omitempty"`
	EntityID   string           `json:"entityId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks the structural invariants of the graph: dense per-parent order values and live
// back-references for every child.
func Doctor(db *DB) DoctorReport {
	rep := DoctorReport{Issues: []DoctorIssue{}}
	if db == nil {
		return rep
	}

	if !IsDense(db.ProjectRefs()) {
		rep.Issues = append(rep.Issues, DoctorIssue{
			Level:   DoctorIssueLevelError,
			Code:    "order_not_dense",
			Message: fmt.Sprintf("project orders are not 0..%d", len(db.Projects)-1),
		})
	}

	for _, p := range db.Projects {
		cols := db.ColumnRefs(p.ID)
		if !IsDense(cols) {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level:      DoctorIssueLevelError,
				Code:       "order_not_dense",
				Message:    fmt.Sprintf("column orders are not 0..%d", len(cols)-1),
				EntityKind: "project",
				EntityID:   p.ID,
			})
		}
	}
	for _, c := range db.Columns {
		if _, ok := db.FindProject(c.ProjectID); !ok {
			rep.Issues = append(rep.Issues, orphanIssue("column", c.ID, "project", c.ProjectID))
		}
		cards := db.CardRefs(c.ID)
		if !IsDense(cards) {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level:      DoctorIssueLevelError,
				Code:       "order_not_dense",
				Message:    fmt.Sprintf("card orders are not 0..%d", len(cards)-1),
				EntityKind: "column",
				EntityID:   c.ID,
			})
		}
	}
	for _, c := range db.Cards {
		if _, ok := db.FindColumn(c.ColumnID); !ok {
			rep.Issues = append(rep.Issues, orphanIssue("card", c.ID, "column", c.ColumnID))
		}
	}
	for _, s := range db.Subtasks {
		if _, ok := db.FindCard(s.CardID); !ok {
			rep.Issues = append(rep.Issues, orphanIssue("subtask", s.ID, "card", s.CardID))
		}
	}

	seen := map[string]bool{}
	check := func(kind, id string) {
		if seen[id] {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level:      DoctorIssueLevelError,
				Code:       "duplicate_id",
				Message:    "id is used by more than one entity",
				EntityKind: kind,
				EntityID:   id,
			})
		}
		seen[id] = true
	}
	for _, p := range db.Projects {
		check("project", p.ID)
	}
	for _, c := range db.Columns {
		check("column", c.ID)
	}
	for _, c := range db.Cards {
		check("card", c.ID)
	}
	for _, s := range db.Subtasks {
		check("subtask", s.ID)
	}

	sort.SliceStable(rep.Issues, func(i, j int) bool { return rep.Issues[i].Code < rep.Issues[j].Code })
	return rep
}

func orphanIssue(kind, id, parentKind, parentID string) DoctorIssue {
	return DoctorIssue{
		Level:      DoctorIssueLevelError,
		Code:       "orphan",
		Message:    fmt.Sprintf("%s references missing %s %s", kind, parentKind, parentID),
		EntityKind: kind,
		EntityID:   id,
	}
}

type RepairResult struct {
	Reindexed      int `json:"reindexed"`
	RemovedOrphans int `json:"removedOrphans"`
}

// Repair restores the invariants: orphans are dropped (top-down, so a dropped column takes its
// cards with it) and every sibling set is reindexed from its stable sort.
func Repair(db *DB) RepairResult {
	var res RepairResult
	if db == nil {
		return res
	}

	liveProjects := map[string]bool{}
	for _, p := range db.Projects {
		liveProjects[p.ID] = true
	}
	dropCols := map[string]bool{}
	for _, c := range db.Columns {
		if !liveProjects[c.ProjectID] {
			dropCols[c.ID] = true
		}
	}
	db.RemoveColumns(dropCols)

	liveCols := map[string]bool{}
	for _, c := range db.Columns {
		liveCols[c.ID] = true
	}
	dropCards := map[string]bool{}
	for _, c := range db.Cards {
		if !liveCols[c.ColumnID] {
			dropCards[c.ID] = true
		}
	}
	db.RemoveCards(dropCards)

	liveCards := map[string]bool{}
	for _, c := range db.Cards {
		liveCards[c.ID] = true
	}
	dropSubs := map[string]bool{}
	for _, s := range db.Subtasks {
		if !liveCards[s.CardID] {
			dropSubs[s.ID] = true
		}
	}
	db.RemoveSubtasks(dropSubs)
	res.RemovedOrphans = len(dropCols) + len(dropCards) + len(dropSubs)

	if Reindex(db.ProjectRefs()) {
		res.Reindexed++
	}
	for _, p := range db.Projects {
		if Reindex(db.ColumnRefs(p.ID)) {
			res.Reindexed++
		}
	}
	for _, c := range db.Columns {
		if Reindex(db.CardRefs(c.ID)) {
			res.Reindexed++
		}
	}
	return res
}

// Counts summarizes entity totals; used by status/doctor output.
func (db *DB) Counts() map[string]int {
	return map[string]int{
		"projects": len(db.Projects),
		"columns":  len(db.Columns),
		"cards":    len(db.Cards),
		"subtasks": len(db.Subtasks),
	}
}
