package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskorium-cli/internal/model"

	"github.com/google/uuid"
)

var errEventContract = errors.New("event contract violation")

func (s Store) appendEventSQLite(ctx context.Context, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return errors.Join(errEventContract, errors.New("missing type"))
	}
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return errors.Join(errEventContract, errors.New("missing entity id"))
	}
	kind, _, _ := strings.Cut(typ, ".")

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM events`).Scan(&seq); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO events(event_id, type, entity_kind, entity_id, payload_json, created_at_unixms, seq)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), typ, kind, entityID, string(pb), time.Now().UTC().UnixMilli(), seq); err != nil {
		return err
	}
	return tx.Commit()
}

// ReadEvents returns the event log oldest-first. If limit > 0 only the last limit events are
// returned (still oldest-first). An empty entityID matches every entity.
func (s Store) ReadEvents(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, created_at_unixms, type, entity_id, payload_json FROM events`
	args := []any{}
	if id := strings.TrimSpace(entityID); id != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, id)
	}
	q += ` ORDER BY seq DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var id, typ, eid, payloadJSON string
		var tsMs int64
		if err := rows.Scan(&id, &tsMs, &typ, &eid, &payloadJSON); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(tsMs).UTC(),
			Type:     typ,
			EntityID: eid,
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
