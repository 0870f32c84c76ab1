package board

import (
	"context"
	"strings"
	"time"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/mutate"
	"taskorium-cli/internal/store"
)

// Event types written to the event log and carried by CommitEvent.
const (
	EventProjectCreate  = "project.create"
	EventProjectEdit    = "project.edit"
	EventProjectMove    = "project.move"
	EventProjectReorder = "project.reorder"
	EventProjectDelete  = "project.delete"
	EventProjectUse     = "project.use"
	EventColumnCreate   = "column.create"
	EventColumnRename   = "column.rename"
	EventColumnMove     = "column.move"
	EventColumnDelete   = "column.delete"
	EventCardCreate     = "card.create"
	EventCardEdit       = "card.edit"
	EventCardMove       = "card.move"
	EventCardDelete     = "card.delete"
	EventSubtaskCreate  = "subtask.create"
	EventSubtaskToggle  = "subtask.toggle"
	EventSubtaskRename  = "subtask.rename"
	EventSubtaskDelete  = "subtask.delete"
	EventBoardRepair    = "board.repair"
)

func (b *Board) CreateProject(ctx context.Context, name, description string, theme model.Theme) (mutate.ProjectResult, error) {
	var res mutate.ProjectResult
	err := b.run(ctx, func(db *store.DB, now time.Time) (outcome, error) {
		var err error
		res, err = mutate.CreateProject(db, now, name, description, theme)
		if err != nil {
			return outcome{}, err
		}
		if strings.TrimSpace(db.CurrentProjectID) == "" {
			db.CurrentProjectID = res.Project.ID
		}
		return outcome{typ: EventProjectCreate, entityID: res.Project.ID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) EditProject(ctx context.Context, projectID string, patch mutate.ProjectPatch) (mutate.ProjectResult, error) {
	var res mutate.ProjectResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = mutate.EditProject(db, projectID, patch)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventProjectEdit, entityID: res.Project.ID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

// UseProject makes projectID the workspace's current project. It is persisted but not logged.
func (b *Board) UseProject(ctx context.Context, projectID string) (model.Project, error) {
	var p model.Project
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		projectID = strings.TrimSpace(projectID)
		found, ok := db.FindProject(projectID)
		if !ok {
			return outcome{}, mutate.NotFoundError{Kind: "project", ID: projectID}
		}
		p = *found
		changed := db.CurrentProjectID != p.ID
		db.CurrentProjectID = p.ID
		return outcome{typ: EventProjectUse, entityID: p.ID, changed: changed, noEvent: true}, nil
	})
	return p, err
}

func (b *Board) MoveProject(ctx context.Context, projectID string, destIndex int) (mutate.MoveResult, error) {
	var res mutate.MoveResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = mutate.MoveProject(db, projectID, destIndex)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventProjectMove, entityID: res.EntityID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) ReorderProjects(ctx context.Context, ids []string) (mutate.ReorderResult, error) {
	var res mutate.ReorderResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = mutate.ReorderProjects(db, ids)
		if err != nil {
			return outcome{}, err
		}
		entity := ""
		if len(res.IDs) > 0 {
			entity = res.IDs[0]
		}
		return outcome{typ: EventProjectReorder, entityID: entity, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) DeleteProject(ctx context.Context, projectID string) (mutate.DeleteResult, error) {
	return b.runDelete(ctx, EventProjectDelete, func(db *store.DB) (mutate.DeleteResult, error) {
		return mutate.DeleteProject(db, projectID)
	})
}

func (b *Board) CreateColumn(ctx context.Context, projectID, name string) (mutate.ColumnResult, error) {
	var res mutate.ColumnResult
	err := b.run(ctx, func(db *store.DB, now time.Time) (outcome, error) {
		var err error
		res, err = mutate.CreateColumn(db, now, projectID, name)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventColumnCreate, entityID: res.Column.ID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) RenameColumn(ctx context.Context, columnID, name string) (mutate.ColumnResult, error) {
	var res mutate.ColumnResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = mutate.RenameColumn(db, columnID, name)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventColumnRename, entityID: res.Column.ID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) MoveColumn(ctx context.Context, columnID string, destIndex int) (mutate.MoveResult, error) {
	var res mutate.MoveResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = mutate.MoveColumn(db, columnID, destIndex)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventColumnMove, entityID: res.EntityID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) DeleteColumn(ctx context.Context, columnID string) (mutate.DeleteResult, error) {
	return b.runDelete(ctx, EventColumnDelete, func(db *store.DB) (mutate.DeleteResult, error) {
		return mutate.DeleteColumn(db, columnID)
	})
}

func (b *Board) CreateCard(ctx context.Context, columnID, title, body string) (mutate.CardResult, error) {
	var res mutate.CardResult
	err := b.run(ctx, func(db *store.DB, now time.Time) (outcome, error) {
		var err error
		res, err = mutate.CreateCard(db, now, columnID, title, body)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventCardCreate, entityID: res.Card.ID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) EditCard(ctx context.Context, cardID string, patch mutate.CardPatch) (mutate.CardResult, error) {
	var res mutate.CardResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = mutate.EditCard(db, cardID, patch)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventCardEdit, entityID: res.Card.ID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

// MoveCard commits a card move. destIndex is a drop-gap index; see mutate.MoveCard.
func (b *Board) MoveCard(ctx context.Context, cardID, destColumnID string, destIndex int) (mutate.MoveResult, error) {
	var res mutate.MoveResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = mutate.MoveCard(db, cardID, destColumnID, destIndex)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: EventCardMove, entityID: res.EntityID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) DeleteCard(ctx context.Context, cardID string) (mutate.DeleteResult, error) {
	return b.runDelete(ctx, EventCardDelete, func(db *store.DB) (mutate.DeleteResult, error) {
		return mutate.DeleteCard(db, cardID)
	})
}

func (b *Board) CreateSubtask(ctx context.Context, cardID, title string) (mutate.SubtaskResult, error) {
	return b.runSubtask(ctx, EventSubtaskCreate, func(db *store.DB, now time.Time) (mutate.SubtaskResult, error) {
		return mutate.CreateSubtask(db, now, cardID, title)
	})
}

func (b *Board) ToggleSubtask(ctx context.Context, subtaskID string) (mutate.SubtaskResult, error) {
	return b.runSubtask(ctx, EventSubtaskToggle, func(db *store.DB, _ time.Time) (mutate.SubtaskResult, error) {
		return mutate.ToggleSubtask(db, subtaskID)
	})
}

func (b *Board) RenameSubtask(ctx context.Context, subtaskID, title string) (mutate.SubtaskResult, error) {
	return b.runSubtask(ctx, EventSubtaskRename, func(db *store.DB, _ time.Time) (mutate.SubtaskResult, error) {
		return mutate.RenameSubtask(db, subtaskID, title)
	})
}

func (b *Board) DeleteSubtask(ctx context.Context, subtaskID string) (mutate.DeleteResult, error) {
	return b.runDelete(ctx, EventSubtaskDelete, func(db *store.DB) (mutate.DeleteResult, error) {
		return mutate.DeleteSubtask(db, subtaskID)
	})
}

// Repair restores the order and ownership invariants of a damaged graph.
func (b *Board) Repair(ctx context.Context) (store.RepairResult, error) {
	var res store.RepairResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		res = store.Repair(db)
		changed := res.Reindexed > 0 || res.RemovedOrphans > 0
		return outcome{
			typ:      EventBoardRepair,
			entityID: "board",
			changed:  changed,
			payload:  map[string]any{"reindexed": res.Reindexed, "removedOrphans": res.RemovedOrphans},
		}, nil
	})
	return res, err
}

func (b *Board) runDelete(ctx context.Context, typ string, fn func(db *store.DB) (mutate.DeleteResult, error)) (mutate.DeleteResult, error) {
	var res mutate.DeleteResult
	err := b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
		var err error
		res, err = fn(db)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: typ, entityID: res.EntityID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}

func (b *Board) runSubtask(ctx context.Context, typ string, fn func(db *store.DB, now time.Time) (mutate.SubtaskResult, error)) (mutate.SubtaskResult, error) {
	var res mutate.SubtaskResult
	err := b.run(ctx, func(db *store.DB, now time.Time) (outcome, error) {
		var err error
		res, err = fn(db, now)
		if err != nil {
			return outcome{}, err
		}
		return outcome{typ: typ, entityID: res.Subtask.ID, changed: res.Changed, payload: res.EventPayload}, nil
	})
	return res, err
}
