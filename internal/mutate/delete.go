package mutate

import (
	"strings"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/store"
)

type DeleteResult struct {
	EntityID string `json:"entityId"`
	// RemovedIDs lists every entity that no longer exists, the root first.
	RemovedIDs []string `json:"removedIds"`
	// ReflowedTo is the column that received the deleted column's cards, if any.
	ReflowedTo   string         `json:"reflowedTo,omitempty"`
	MovedCardIDs []string       `json:"movedCardIds,omitempty"`
	Changed      bool           `json:"changed"`
	EventPayload map[string]any `json:"-"`
}

func DeleteSubtask(db *store.DB, subtaskID string) (DeleteResult, error) {
	subtaskID = strings.TrimSpace(subtaskID)
	s, ok := db.FindSubtask(subtaskID)
	if !ok {
		return DeleteResult{}, NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	cardID := s.CardID
	db.RemoveSubtasks(map[string]bool{subtaskID: true})
	return DeleteResult{
		EntityID:     subtaskID,
		RemovedIDs:   []string{subtaskID},
		Changed:      true,
		EventPayload: map[string]any{"cardId": cardID},
	}, nil
}

// DeleteCard removes a card and its subtasks, then closes the gap in its column.
func DeleteCard(db *store.DB, cardID string) (DeleteResult, error) {
	cardID = strings.TrimSpace(cardID)
	c, ok := db.FindCard(cardID)
	if !ok {
		return DeleteResult{}, NotFoundError{Kind: "card", ID: cardID}
	}
	columnID := c.ColumnID

	removed := map[string]bool{cardID: true}
	ids := []string{cardID}
	subs := subtaskIDs(db, cardID)
	for _, id := range subs {
		removed[id] = true
	}
	ids = append(ids, subs...)

	db.RemoveSubtasks(removed)
	db.RemoveCards(removed)
	store.Reindex(db.CardRefs(columnID))

	return DeleteResult{
		EntityID:     cardID,
		RemovedIDs:   ids,
		Changed:      true,
		EventPayload: map[string]any{"columnId": columnID, "removed": ids},
	}, nil
}

// DeleteColumn removes a column. Its cards are appended, in order, to the lowest-order surviving
// column of the same project; when no other column exists they are deleted with it.
func DeleteColumn(db *store.DB, columnID string) (DeleteResult, error) {
	columnID = strings.TrimSpace(columnID)
	col, ok := db.FindColumn(columnID)
	if !ok {
		return DeleteResult{}, NotFoundError{Kind: "column", ID: columnID}
	}
	projectID := col.ProjectID

	var target *model.Column
	for _, c := range db.ColumnRefs(projectID) {
		if c.ID != columnID {
			target = c
			break
		}
	}

	res := DeleteResult{EntityID: columnID, RemovedIDs: []string{columnID}, Changed: true}
	cards := db.CardRefs(columnID)
	removed := map[string]bool{columnID: true}

	if target != nil {
		seq := db.CardRefs(target.ID)
		for _, c := range cards {
			c.ColumnID = target.ID
			seq = append(seq, c)
			res.MovedCardIDs = append(res.MovedCardIDs, c.ID)
		}
		store.Reindex(seq)
		res.ReflowedTo = target.ID
	} else {
		for _, c := range cards {
			removed[c.ID] = true
			res.RemovedIDs = append(res.RemovedIDs, c.ID)
			for _, sid := range subtaskIDs(db, c.ID) {
				removed[sid] = true
				res.RemovedIDs = append(res.RemovedIDs, sid)
			}
		}
		db.RemoveSubtasks(removed)
		db.RemoveCards(removed)
	}
	db.RemoveColumns(removed)
	store.Reindex(db.ColumnRefs(projectID))

	res.EventPayload = map[string]any{"projectId": projectID, "removed": res.RemovedIDs}
	if target != nil {
		res.EventPayload["reflowedTo"] = res.ReflowedTo
		res.EventPayload["movedCardIds"] = res.MovedCardIDs
	}
	return res, nil
}

// DeleteProject removes a project and everything it owns, then closes the gap in the project list.
func DeleteProject(db *store.DB, projectID string) (DeleteResult, error) {
	projectID = strings.TrimSpace(projectID)
	if _, ok := db.FindProject(projectID); !ok {
		return DeleteResult{}, NotFoundError{Kind: "project", ID: projectID}
	}

	removed := map[string]bool{projectID: true}
	ids := []string{projectID}
	for _, col := range db.ColumnRefs(projectID) {
		removed[col.ID] = true
		ids = append(ids, col.ID)
		for _, c := range db.CardRefs(col.ID) {
			removed[c.ID] = true
			ids = append(ids, c.ID)
			for _, sid := range subtaskIDs(db, c.ID) {
				removed[sid] = true
				ids = append(ids, sid)
			}
		}
	}

	db.RemoveSubtasks(removed)
	db.RemoveCards(removed)
	db.RemoveColumns(removed)
	db.RemoveProjects(removed)
	store.Reindex(db.ProjectRefs())
	if db.CurrentProjectID == projectID {
		db.CurrentProjectID = ""
	}

	return DeleteResult{
		EntityID:     projectID,
		RemovedIDs:   ids,
		Changed:      true,
		EventPayload: map[string]any{"removed": ids},
	}, nil
}

func subtaskIDs(db *store.DB, cardID string) []string {
	var out []string
	for _, s := range db.SubtaskRefs(cardID) {
		out = append(out, s.ID)
	}
	return out
}
