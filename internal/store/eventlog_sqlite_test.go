package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteEventLog_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	require.NoError(t, s.AppendEvent(ctx, "card.create", "crd-1", map[string]any{"title": "A"}))
	require.NoError(t, s.AppendEvent(ctx, "card.move", "crd-1", map[string]any{"toIndex": 2}))
	require.NoError(t, s.AppendEvent(ctx, "column.create", "col-1", map[string]any{"name": "X"}))

	evs, err := s.ReadEvents(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	require.Equal(t, "card.create", evs[0].Type)
	require.Equal(t, "column.create", evs[2].Type)
	for _, ev := range evs {
		require.NotEmpty(t, ev.ID)
		require.False(t, ev.TS.IsZero())
	}

	forCard, err := s.ReadEvents(ctx, "crd-1", 0)
	require.NoError(t, err)
	require.Len(t, forCard, 2)
	payload, ok := forCard[1].Payload.(map[string]any)
	require.True(t, ok, "payload type %T", forCard[1].Payload)
	require.EqualValues(t, 2, payload["toIndex"])

	last, err := s.ReadEvents(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	require.Equal(t, "card.move", last[0].Type, "limit keeps the newest events, oldest-first")
}

func TestSQLiteEventLog_RejectsIncompleteEvents(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	err := s.AppendEvent(ctx, "", "crd-1", nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, errEventContract))

	err = s.AppendEvent(ctx, "card.create", " ", nil)
	require.True(t, errors.Is(err, errEventContract))

	evs, err := s.ReadEvents(ctx, "", 0)
	require.NoError(t, err)
	require.Empty(t, evs)
}
