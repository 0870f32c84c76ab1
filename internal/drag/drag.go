// Package drag models an interactive drag gesture as an explicit state machine.
//
// While Tracking, the gesture only ever asks the engine where the dragged element would land;
// nothing is written until Drop. Cancel, or a Drop without a valid target, returns to Idle
// without touching the board.
package drag

import (
	"context"
	"errors"
	"fmt"

	"taskorium-cli/internal/mutate"
)

type State int

const (
	Idle State = iota
	Tracking
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Kind int

const (
	KindCard Kind = iota + 1
	KindColumn
)

// Engine is the subset of the board a gesture needs. *board.Board satisfies it.
type Engine interface {
	ResolveCardDrop(cardID, destColumnID string, destIndex int) (mutate.DropTarget, error)
	ResolveColumnDrop(columnID string, destIndex int) (mutate.DropTarget, error)
	MoveCard(ctx context.Context, cardID, destColumnID string, destIndex int) (mutate.MoveResult, error)
	MoveColumn(ctx context.Context, columnID string, destIndex int) (mutate.MoveResult, error)
}

var (
	ErrBusy      = errors.New("drag: a gesture is already in progress")
	ErrNotActive = errors.New("drag: no gesture in progress")
)

// Gesture tracks at most one drag at a time. It is not safe for concurrent use; it is driven by a
// single UI event loop.
type Gesture struct {
	engine Engine
	state  State

	kind   Kind
	id     string
	origin mutate.Location

	// provisional target; valid is false when the pointer is outside any drop zone.
	parentID string
	gap      int
	target   mutate.DropTarget
	valid    bool
}

func New(engine Engine) *Gesture {
	return &Gesture{engine: engine}
}

func (g *Gesture) State() State { return g.state }

// Subject returns what is being dragged and where it started.
func (g *Gesture) Subject() (Kind, string, mutate.Location) { return g.kind, g.id, g.origin }

// Target returns the current provisional drop target and whether there is one.
func (g *Gesture) Target() (mutate.DropTarget, bool) { return g.target, g.valid }

// BeginCard starts dragging a card that currently sits at origin.
func (g *Gesture) BeginCard(cardID string, origin mutate.Location) error {
	return g.begin(KindCard, cardID, origin)
}

// BeginColumn starts dragging a column; origin.ParentID is its project.
func (g *Gesture) BeginColumn(columnID string, origin mutate.Location) error {
	return g.begin(KindColumn, columnID, origin)
}

func (g *Gesture) begin(kind Kind, id string, origin mutate.Location) error {
	if g.state != Idle {
		return ErrBusy
	}
	g.state = Tracking
	g.kind = kind
	g.id = id
	g.origin = origin
	g.valid = false
	if err := g.Track(origin.ParentID, origin.Index); err != nil {
		g.reset()
		return err
	}
	if !g.valid {
		g.reset()
		return mutate.NotFoundError{Kind: kind.String(), ID: id}
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case KindCard:
		return "card"
	case KindColumn:
		return "column"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Track re-evaluates the provisional target for the pointer hovering over gap index gap of
// parentID. For column drags parentID is ignored. It may be called at any frequency.
func (g *Gesture) Track(parentID string, gap int) error {
	if g.state != Tracking {
		return ErrNotActive
	}
	var (
		t   mutate.DropTarget
		err error
	)
	switch g.kind {
	case KindCard:
		t, err = g.engine.ResolveCardDrop(g.id, parentID, gap)
	case KindColumn:
		t, err = g.engine.ResolveColumnDrop(g.id, gap)
	}
	if err != nil {
		// Hovering over something that no longer exists is not fatal; there is just no target.
		g.valid = false
		if mutate.IsNotFound(err) {
			return nil
		}
		return err
	}
	g.parentID = t.ParentID
	g.gap = gap
	g.target = t
	g.valid = true
	return nil
}

// Leave marks the pointer as outside every drop zone.
func (g *Gesture) Leave() {
	if g.state == Tracking {
		g.valid = false
	}
}

// Cancel abandons the gesture. The board is untouched.
func (g *Gesture) Cancel() {
	g.reset()
}

// Drop commits the gesture at the last tracked target. Without a valid target it behaves like
// Cancel and reports committed=false.
func (g *Gesture) Drop(ctx context.Context) (res mutate.MoveResult, committed bool, err error) {
	if g.state != Tracking {
		return mutate.MoveResult{}, false, ErrNotActive
	}
	if !g.valid {
		g.reset()
		return mutate.MoveResult{}, false, nil
	}
	g.state = Committing
	defer g.reset()

	switch g.kind {
	case KindCard:
		res, err = g.engine.MoveCard(ctx, g.id, g.parentID, g.gap)
	case KindColumn:
		res, err = g.engine.MoveColumn(ctx, g.id, g.gap)
	}
	if err != nil {
		return mutate.MoveResult{}, false, err
	}
	return res, true, nil
}

func (g *Gesture) reset() {
	*g = Gesture{engine: g.engine}
}
