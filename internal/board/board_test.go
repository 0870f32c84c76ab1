package board

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"

	"taskorium-cli/internal/model"
	"taskorium-cli/internal/mutate"
	"taskorium-cli/internal/store"
)

type fakePersister struct {
	saves   int
	saveErr error
	events  []string
	saved   *store.DB
}

func (f *fakePersister) Save(_ context.Context, db *store.DB) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.saved = db.Clone()
	return nil
}

func (f *fakePersister) AppendEvent(_ context.Context, typ, entityID string, _ any) error {
	f.events = append(f.events, typ+" "+entityID)
	return nil
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestBoard(t *testing.T, p Persister) *Board {
	t.Helper()
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return New(store.NewDB(), p,
		WithLogger(quietLogger()),
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
}

func cardIDs(t *testing.T, b *Board, columnID string) []string {
	t.Helper()
	cards, err := b.Cards(columnID)
	if err != nil {
		t.Fatalf("Cards: %v", err)
	}
	out := []string{}
	for _, c := range cards {
		out = append(out, c.Title)
	}
	return out
}

func TestBoard_CommandsFlushAndLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := &fakePersister{}
	b := newTestBoard(t, p)

	proj, err := b.CreateProject(ctx, "Launch", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if b.CurrentProjectID() != proj.Project.ID {
		t.Fatalf("first project should become current")
	}
	todo := proj.Columns[0].ID
	done := proj.Columns[2].ID

	for _, title := range []string{"X", "Y", "Z"} {
		if _, err := b.CreateCard(ctx, todo, title, ""); err != nil {
			t.Fatalf("CreateCard: %v", err)
		}
	}
	cards, _ := b.Cards(todo)
	if _, err := b.MoveCard(ctx, cards[1].ID, todo, 0); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if diff := cmp.Diff([]string{"Y", "X", "Z"}, cardIDs(t, b, todo)); diff != "" {
		t.Fatalf("todo (-want +got):\n%s", diff)
	}
	if _, err := b.MoveCard(ctx, cards[2].ID, done, 0); err != nil {
		t.Fatalf("MoveCard across: %v", err)
	}

	if p.saves != 6 {
		t.Fatalf("expected 6 flushes, got %d", p.saves)
	}
	if len(p.events) != 6 || p.events[0] != EventProjectCreate+" "+proj.Project.ID {
		t.Fatalf("unexpected events: %v", p.events)
	}
	if rep := store.Doctor(p.saved); len(rep.Issues) != 0 {
		t.Fatalf("flushed state violates invariants: %+v", rep.Issues)
	}
}

func TestBoard_NoopAndFailedCommandsDoNotFlush(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := &fakePersister{}
	b := newTestBoard(t, p)

	proj, err := b.CreateProject(ctx, "P", "", model.ThemeSaturn)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	col := proj.Columns[0].ID
	card, err := b.CreateCard(ctx, col, "only", "")
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	saves := p.saves

	res, err := b.MoveCard(ctx, card.Card.ID, col, 0)
	if err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if res.Changed {
		t.Fatalf("expected no-op")
	}
	if _, err := b.MoveCard(ctx, "crd-missing", col, 0); !mutate.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := b.RenameColumn(ctx, col, " "); !mutate.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if p.saves != saves {
		t.Fatalf("expected no flush, got %d more", p.saves-saves)
	}
}

func TestBoard_FlushFailureRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := &fakePersister{}
	b := newTestBoard(t, p)

	proj, err := b.CreateProject(ctx, "P", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	todo, doing := proj.Columns[0].ID, proj.Columns[1].ID
	for _, title := range []string{"A", "B"} {
		if _, err := b.CreateCard(ctx, todo, title, ""); err != nil {
			t.Fatalf("CreateCard: %v", err)
		}
	}
	before := b.Snapshot()

	p.saveErr = errors.New("disk full")
	if _, err := b.DeleteColumn(ctx, todo); err == nil {
		t.Fatalf("expected flush error")
	}
	cards, _ := b.Cards(todo)
	if _, err := b.MoveCard(ctx, cards[0].ID, doing, 0); err == nil {
		t.Fatalf("expected flush error")
	}

	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Fatalf("state changed after failed flush (-before +after):\n%s", diff)
	}
}

func TestBoard_ObserversReceiveCommits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newTestBoard(t, &fakePersister{})

	var got []string
	unsub := b.Subscribe(func(ev CommitEvent) {
		got = append(got, ev.Type)
		// Observers run outside the board lock and may query it.
		_ = b.Projects()
	})

	proj, err := b.CreateProject(ctx, "P", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := b.DeleteColumn(ctx, proj.Columns[1].ID); err != nil {
		t.Fatalf("DeleteColumn: %v", err)
	}
	if _, err := b.MoveColumn(ctx, proj.Columns[0].ID, 0); err != nil {
		t.Fatalf("MoveColumn: %v", err)
	}
	unsub()
	if _, err := b.CreateColumn(ctx, proj.Project.ID, "Later"); err != nil {
		t.Fatalf("CreateColumn: %v", err)
	}

	if diff := cmp.Diff([]string{EventProjectCreate, EventColumnDelete}, got); diff != "" {
		t.Fatalf("observed (-want +got):\n%s", diff)
	}
}

func TestBoard_ResolveDropDoesNotCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := &fakePersister{}
	b := newTestBoard(t, p)

	proj, _ := b.CreateProject(ctx, "P", "", "")
	col := proj.Columns[0].ID
	card, _ := b.CreateCard(ctx, col, "A", "")
	_, _ = b.CreateCard(ctx, col, "B", "")
	saves := p.saves

	for i := -2; i < 5; i++ {
		if _, err := b.ResolveCardDrop(card.Card.ID, proj.Columns[1].ID, i); err != nil {
			t.Fatalf("ResolveCardDrop: %v", err)
		}
		if _, err := b.ResolveColumnDrop(col, i); err != nil {
			t.Fatalf("ResolveColumnDrop: %v", err)
		}
	}
	if p.saves != saves {
		t.Fatalf("drop resolution must not flush")
	}
}

func TestBoard_PersistsToSQLite(t *testing.T) {
	ctx := context.Background()
	s := store.Store{Dir: t.TempDir()}

	b, err := Open(ctx, s, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	proj, err := b.CreateProject(ctx, "Durable", "desc", model.ThemeNeptune)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	card, err := b.CreateCard(ctx, proj.Columns[0].ID, "Persist me", "")
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if _, err := b.MoveCard(ctx, card.Card.ID, proj.Columns[2].ID, 0); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}

	reopened, err := Open(ctx, s, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	detail, err := reopened.Card(card.Card.ID)
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if detail.Column.ID != proj.Columns[2].ID || detail.Project.Name != "Durable" {
		t.Fatalf("unexpected detail after reopen: %+v", detail)
	}

	evs, err := s.ReadEvents(ctx, card.Card.ID, 0)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(evs) != 2 || evs[1].Type != EventCardMove {
		t.Fatalf("unexpected events: %+v", evs)
	}

	// Another process writes; Reload picks it up.
	if _, err := reopened.CreateColumn(ctx, proj.Project.ID, "Review"); err != nil {
		t.Fatalf("CreateColumn: %v", err)
	}
	if err := b.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	cols, _ := b.Columns(proj.Project.ID)
	if len(cols) != 4 {
		t.Fatalf("expected 4 columns after reload, got %d", len(cols))
	}
}

func TestBoard_PanickingCommandReleasesLockAndRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := &fakePersister{}
	b := newTestBoard(t, p)

	proj, err := b.CreateProject(ctx, "P", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	before := b.Snapshot()
	saves := p.saves

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = b.run(ctx, func(db *store.DB, _ time.Time) (outcome, error) {
			db.Columns = db.Columns[:0]
			panic("boom")
		})
	}()

	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Fatalf("state changed after panic (-before +after):\n%s", diff)
	}
	if p.saves != saves {
		t.Fatalf("panicking command flushed state")
	}
	// A held lock would deadlock here.
	if _, err := b.CreateColumn(ctx, proj.Project.ID, "Review"); err != nil {
		t.Fatalf("CreateColumn after panic: %v", err)
	}
	cols, _ := b.Columns(proj.Project.ID)
	if len(cols) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(cols))
	}
}
