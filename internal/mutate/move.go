package mutate

import (
	"strings"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

// Drop indices are gap indices measured against the destination sequence as the user sees it
// while dragging, i.e. with the dragged element still in place. Index i means "in front of the
// element currently at i"; len(seq) means "after the last element". Out-of-range values are
// clamped, never rejected.

// Location is an element's parent and its current position among its siblings.
type Location struct {
	ParentID string `json:"parentId"`
	Index    int    `json:"index"`
}

// DropTarget is the resolved outcome of dropping at a requested gap index.
type DropTarget struct {
	ParentID  string `json:"parentId"`
	Requested int    `json:"requested"`
	// Index is the final position the element would occupy after the move.
	Index int  `json:"index"`
	Noop  bool `json:"noop"`
}

type MoveResult struct {
	EntityID     string         `json:"entityId"`
	From         Location       `json:"from"`
	To           Location       `json:"to"`
	Changed      bool           `json:"changed"`
	EventPayload map[string]any `json:"-"`
}

type movePlan[T comparable] struct {
	rest  []T // source sequence without the moved element
	final []T // destination sequence with the moved element inserted
	from  int
	at    int
	same  bool
}

// planMove computes a move without mutating anything. dest is ignored when same is true.
func planMove[T comparable](src []T, x T, dest []T, same bool, requested int) movePlan[T] {
	from := -1
	for i := range src {
		if src[i] == x {
			from = i
			break
		}
	}
	rest := src
	if from >= 0 {
		rest = store.Remove(src, from)
	}

	target := dest
	at := requested
	if same {
		target = rest
		// The gap index was measured with x still present; every gap after x shifts left by one
		// once x is lifted out.
		if from >= 0 && at > from {
			at--
		}
	}
	at = store.ClampIndex(at, len(target))
	return movePlan[T]{
		rest:  rest,
		final: store.Insert(target, at, x),
		from:  from,
		at:    at,
		same:  same,
	}
}

// RequestedIndexFor converts a desired final position into the gap index MoveCard/MoveColumn
// expect. It is the inverse of the same-parent adjustment.
func RequestedIndexFor(sameParent bool, from, final int) int {
	if sameParent && from >= 0 && final > from {
		return final + 1
	}
	return final
}

func indexOf[T comparable](xs []T, x T) int {
	for i := range xs {
		if xs[i] == x {
			return i
		}
	}
	return -1
}

func LocateCard(db *store.DB, cardID string) (Location, error) {
	cardID = strings.TrimSpace(cardID)
	c, ok := db.FindCard(cardID)
	if !ok {
		return Location{}, NotFoundError{Kind: "card", ID: cardID}
	}
	return Location{ParentID: c.ColumnID, Index: indexOf(db.CardRefs(c.ColumnID), c)}, nil
}

func LocateColumn(db *store.DB, columnID string) (Location, error) {
	columnID = strings.TrimSpace(columnID)
	c, ok := db.FindColumn(columnID)
	if !ok {
		return Location{}, NotFoundError{Kind: "column", ID: columnID}
	}
	return Location{ParentID: c.ProjectID, Index: indexOf(db.ColumnRefs(c.ProjectID), c)}, nil
}

func planCardMove(db *store.DB, cardID, destColumnID string, destIndex int) (*model.Card, *model.Column, movePlan[*model.Card], error) {
	cardID = strings.TrimSpace(cardID)
	destColumnID = strings.TrimSpace(destColumnID)
	card, ok := db.FindCard(cardID)
	if !ok {
		return nil, nil, movePlan[*model.Card]{}, NotFoundError{Kind: "card", ID: cardID}
	}
	dest, ok := db.FindColumn(destColumnID)
	if !ok {
		return nil, nil, movePlan[*model.Card]{}, NotFoundError{Kind: "column", ID: destColumnID}
	}
	same := card.ColumnID == dest.ID
	var destSeq []*model.Card
	if !same {
		destSeq = db.CardRefs(dest.ID)
	}
	return card, dest, planMove(db.CardRefs(card.ColumnID), card, destSeq, same, destIndex), nil
}

// ResolveCardDrop reports where a card would land if dropped at destIndex in destColumnID.
// It never mutates db, so it is safe to call on every pointer movement during a drag.
func ResolveCardDrop(db *store.DB, cardID, destColumnID string, destIndex int) (DropTarget, error) {
	_, dest, plan, err := planCardMove(db, cardID, destColumnID, destIndex)
	if err != nil {
		return DropTarget{}, err
	}
	return DropTarget{
		ParentID:  dest.ID,
		Requested: destIndex,
		Index:     plan.at,
		Noop:      plan.same && plan.at == plan.from,
	}, nil
}

// MoveCard relocates a card to destIndex (a gap index, see above) in destColumnID, which may be
// the card's current column. Both affected columns are reindexed.
func MoveCard(db *store.DB, cardID, destColumnID string, destIndex int) (MoveResult, error) {
	card, dest, plan, err := planCardMove(db, cardID, destColumnID, destIndex)
	if err != nil {
		return MoveResult{}, err
	}

	from := Location{ParentID: card.ColumnID, Index: plan.from}
	changed := false
	if card.ColumnID != dest.ID {
		card.ColumnID = dest.ID
		changed = true
	}
	if !plan.same && store.Reindex(plan.rest) {
		changed = true
	}
	if store.Reindex(plan.final) {
		changed = true
	}

	to := Location{ParentID: dest.ID, Index: plan.at}
	res := MoveResult{EntityID: card.ID, From: from, To: to, Changed: changed}
	if changed {
		res.EventPayload = map[string]any{
			"fromColumnId": from.ParentID,
			"fromIndex":    from.Index,
			"toColumnId":   to.ParentID,
			"toIndex":      to.Index,
		}
	}
	return res, nil
}

func planColumnMove(db *store.DB, columnID string, destIndex int) (*model.Column, movePlan[*model.Column], error) {
	columnID = strings.TrimSpace(columnID)
	col, ok := db.FindColumn(columnID)
	if !ok {
		return nil, movePlan[*model.Column]{}, NotFoundError{Kind: "column", ID: columnID}
	}
	return col, planMove(db.ColumnRefs(col.ProjectID), col, nil, true, destIndex), nil
}

// ResolveColumnDrop is the read-only counterpart of MoveColumn.
func ResolveColumnDrop(db *store.DB, columnID string, destIndex int) (DropTarget, error) {
	col, plan, err := planColumnMove(db, columnID, destIndex)
	if err != nil {
		return DropTarget{}, err
	}
	return DropTarget{
		ParentID:  col.ProjectID,
		Requested: destIndex,
		Index:     plan.at,
		Noop:      plan.at == plan.from,
	}, nil
}

// MoveColumn reorders a column within its project. Cards are untouched.
func MoveColumn(db *store.DB, columnID string, destIndex int) (MoveResult, error) {
	col, plan, err := planColumnMove(db, columnID, destIndex)
	if err != nil {
		return MoveResult{}, err
	}
	changed := store.Reindex(plan.final)
	res := MoveResult{
		EntityID: col.ID,
		From:     Location{ParentID: col.ProjectID, Index: plan.from},
		To:       Location{ParentID: col.ProjectID, Index: plan.at},
		Changed:  changed,
	}
	if changed {
		res.EventPayload = map[string]any{"projectId": col.ProjectID, "fromIndex": plan.from, "toIndex": plan.at}
	}
	return res, nil
}

// MoveProject reorders one project within the project list.
func MoveProject(db *store.DB, projectID string, destIndex int) (MoveResult, error) {
	projectID = strings.TrimSpace(projectID)
	p, ok := db.FindProject(projectID)
	if !ok {
		return MoveResult{}, NotFoundError{Kind: "project", ID: projectID}
	}
	plan := planMove(db.ProjectRefs(), p, nil, true, destIndex)
	changed := store.Reindex(plan.final)
	res := MoveResult{
		EntityID: p.ID,
		From:     Location{Index: plan.from},
		To:       Location{Index: plan.at},
		Changed:  changed,
	}
	if changed {
		res.EventPayload = map[string]any{"fromIndex": plan.from, "toIndex": plan.at}
	}
	return res, nil
}

type ReorderResult struct {
	IDs          []string       `json:"ids"`
	Changed      bool           `json:"changed"`
	EventPayload map[string]any `json:"-"`
}

// ReorderProjects applies a new project order. ids lists projects in their new order; duplicates
// after the first occurrence are ignored and live projects not listed keep their relative order
// after the listed ones. Every listed id must resolve.
func ReorderProjects(db *store.DB, ids []string) (ReorderResult, error) {
	seen := map[string]bool{}
	listed := make([]*model.Project, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		p, ok := db.FindProject(id)
		if !ok {
			return ReorderResult{}, NotFoundError{Kind: "project", ID: id}
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		listed = append(listed, p)
	}

	final := listed
	for _, p := range db.ProjectRefs() {
		if !seen[p.ID] {
			final = append(final, p)
		}
	}
	changed := store.Reindex(final)

	order := make([]string, 0, len(final))
	for _, p := range final {
		order = append(order, p.ID)
	}
	res := ReorderResult{IDs: order, Changed: changed}
	if changed {
		res.EventPayload = map[string]any{"order": order}
	}
	return res, nil
}
