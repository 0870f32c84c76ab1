// Package board serialises commands against the in-memory graph, flushes each committed command
// to the durable store, appends it to the event log and notifies observers.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"taskorium-cli/internal/store"
)

// Persister is the durable side of the board. store.Store satisfies it.
type Persister interface {
	Save(ctx context.Context, db *store.DB) error
	AppendEvent(ctx context.Context, typ, entityID string, payload any) error
}

// Loader is implemented by persisters that can re-read state written by another process.
type Loader interface {
	Load(ctx context.Context) (*store.DB, error)
}

// CommitEvent describes one committed command.
type CommitEvent struct {
	Type     string         `json:"type"`
	EntityID string         `json:"entityId"`
	Payload  map[string]any `json:"payload,omitempty"`
	At       time.Time      `json:"at"`
}

type Observer func(CommitEvent)

type Board struct {
	mu        sync.Mutex
	db        *store.DB
	persister Persister
	log       log.FieldLogger
	now       func() time.Time

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

type Option func(*Board)

func WithLogger(l log.FieldLogger) Option {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

// WithClock overrides time.Now for created-at stamps and commit events.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

func New(db *store.DB, p Persister, opts ...Option) *Board {
	if db == nil {
		db = store.NewDB()
	}
	b := &Board{
		db:        db,
		persister: p,
		log:       log.StandardLogger(),
		now:       func() time.Time { return time.Now().UTC() },
		observers: map[int]Observer{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open loads the workspace at s and returns a board that persists back to it.
func Open(ctx context.Context, s store.Store, opts ...Option) (*Board, error) {
	db, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", s.Dir, err)
	}
	return New(db, s, opts...), nil
}

// Subscribe registers fn to be called after every committed command. Observers run on the
// committing goroutine after the board lock is released. The returned func unsubscribes.
func (b *Board) Subscribe(fn Observer) (unsubscribe func()) {
	b.obsMu.Lock()
	defer b.obsMu.Unlock()
	id := b.nextObs
	b.nextObs++
	b.observers[id] = fn
	return func() {
		b.obsMu.Lock()
		defer b.obsMu.Unlock()
		delete(b.observers, id)
	}
}

// outcome is what a command reports back to run.
type outcome struct {
	typ      string
	entityID string
	changed  bool
	payload  map[string]any
	// noEvent commits state without an event log entry (selection changes).
	noEvent bool
}

// run executes fn against the live graph. If fn or the flush fails the graph is restored to its
// pre-command state, so a failed command is never observable.
func (b *Board) run(ctx context.Context, fn func(db *store.DB, now time.Time) (outcome, error)) error {
	ev, changed, err := b.commit(ctx, fn)
	if err != nil {
		return err
	}
	if changed {
		b.notify(ev)
	}
	return nil
}

// commit holds the board lock for one command. The deferred restore also covers a panicking fn.
func (b *Board) commit(ctx context.Context, fn func(db *store.DB, now time.Time) (outcome, error)) (ev CommitEvent, changed bool, err error) {
	b.mu.Lock()
	before := b.db.Clone()
	committed := false
	defer func() {
		if !committed {
			b.db = before
		}
		b.mu.Unlock()
	}()
	now := b.now()

	out, err := fn(b.db, now)
	if err != nil {
		b.log.WithError(err).Debug("command rejected")
		return CommitEvent{}, false, err
	}
	entry := b.log.WithFields(log.Fields{"cmd": out.typ, "entity": out.entityID, "changed": out.changed})
	if !out.changed {
		committed = true
		entry.Debug("command committed")
		return CommitEvent{}, false, nil
	}

	if b.persister != nil {
		if err := b.persister.Save(ctx, b.db); err != nil {
			entry.WithError(err).Warn("flush failed; command rolled back")
			return CommitEvent{}, false, fmt.Errorf("save: %w", err)
		}
		if !out.noEvent {
			if err := b.persister.AppendEvent(ctx, out.typ, out.entityID, out.payload); err != nil {
				// State is already durable; the event log is an audit trail.
				entry.WithError(err).Warn("append event failed")
			}
		}
	}
	committed = true
	entry.Debug("command committed")
	return CommitEvent{Type: out.typ, EntityID: out.entityID, Payload: out.payload, At: now}, true, nil
}

func (b *Board) notify(ev CommitEvent) {
	b.obsMu.Lock()
	fns := make([]Observer, 0, len(b.observers))
	// Subscription order.
	for i := 0; i < b.nextObs; i++ {
		if fn, ok := b.observers[i]; ok {
			fns = append(fns, fn)
		}
	}
	b.obsMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Reload replaces the in-memory graph with the persister's current state. It is a no-op when the
// persister cannot load.
func (b *Board) Reload(ctx context.Context) error {
	l, ok := b.persister.(Loader)
	if !ok {
		return nil
	}
	db, err := l.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	b.mu.Lock()
	b.db = db
	b.mu.Unlock()
	return nil
}

// read runs fn under the board lock without committing anything.
func (b *Board) read(fn func(db *store.DB)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.db)
}
