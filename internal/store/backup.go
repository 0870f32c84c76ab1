package store

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskorium-cli/internal/model"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

const (
	backupBoardFile  = "board.json"
	backupEventsFile = "events.jsonl"
)

type BackupResult struct {
	Dir    string         `json:"dir"`
	Counts map[string]int `json:"counts"`
	Events int            `json:"events"`
}

// ExportBackup writes the workspace graph and event log into dir (created if needed).
func (s Store) ExportBackup(ctx context.Context, dir string) (BackupResult, error) {
	if strings.TrimSpace(dir) == "" {
		return BackupResult{}, errors.New("backup: missing directory")
	}
	dir = filepath.Clean(strings.TrimSpace(dir))
	db, err := s.Load(ctx)
	if err != nil {
		return BackupResult{}, err
	}
	evs, err := s.ReadEvents(ctx, "", 0)
	if err != nil {
		return BackupResult{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BackupResult{}, err
	}

	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return BackupResult{}, err
	}
	if err := atomic.WriteFile(filepath.Join(dir, backupBoardFile), bytes.NewReader(append(b, '\n'))); err != nil {
		return BackupResult{}, err
	}
	if err := WriteEventsJSONL(filepath.Join(dir, backupEventsFile), evs); err != nil {
		return BackupResult{}, err
	}
	return BackupResult{Dir: dir, Counts: db.Counts(), Events: len(evs)}, nil
}

// ImportBackup replaces the workspace state and event log with the contents of dir.
// A backup whose graph fails Doctor with errors is rejected before anything is written.
func (s Store) ImportBackup(ctx context.Context, dir string) (BackupResult, error) {
	dir = filepath.Clean(strings.TrimSpace(dir))
	b, err := os.ReadFile(filepath.Join(dir, backupBoardFile))
	if err != nil {
		return BackupResult{}, err
	}
	db := NewDB()
	if err := json.Unmarshal(b, db); err != nil {
		return BackupResult{}, fmt.Errorf("backup: parse %s: %w", backupBoardFile, err)
	}
	if rep := Doctor(db); rep.HasErrors() {
		return BackupResult{}, fmt.Errorf("backup: %s is inconsistent (%d issues); run doctor on the source workspace", backupBoardFile, len(rep.Issues))
	}

	evs := []model.Event{}
	if _, err := os.Stat(filepath.Join(dir, backupEventsFile)); err == nil {
		evs, err = ReadEventsJSONL(filepath.Join(dir, backupEventsFile))
		if err != nil {
			return BackupResult{}, err
		}
	}

	if err := s.Save(ctx, db); err != nil {
		return BackupResult{}, err
	}
	if err := s.ReplaceEvents(ctx, evs); err != nil {
		return BackupResult{}, err
	}
	return BackupResult{Dir: dir, Counts: db.Counts(), Events: len(evs)}, nil
}

// ReplaceEvents replaces the event log with evs, keeping their order.
func (s Store) ReplaceEvents(ctx context.Context, evs []model.Event) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM events;`); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for i, ev := range evs {
		typ := strings.TrimSpace(ev.Type)
		entityID := strings.TrimSpace(ev.EntityID)
		if typ == "" || entityID == "" {
			return errors.Join(errEventContract, fmt.Errorf("backup: event %d has empty type/entityId", i))
		}
		id := strings.TrimSpace(ev.ID)
		if id == "" {
			id = uuid.NewString()
		}
		ts := ev.TS.UTC().UnixMilli()
		if ev.TS.IsZero() {
			ts = nowMs
		}
		pb, err := json.Marshal(ev.Payload)
		if err != nil {
			return err
		}
		kind, _, _ := strings.Cut(typ, ".")
		if _, err := tx.ExecContext(ctx, `INSERT INTO events(event_id, type, entity_kind, entity_id, payload_json, created_at_unixms, seq)
			VALUES(?, ?, ?, ?, ?, ?, ?)`,
			id, typ, kind, entityID, string(pb), ts, i+1); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// WriteEventsJSONL writes one event per line.
func WriteEventsJSONL(path string, evs []model.Event) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range evs {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return atomic.WriteFile(path, &buf)
}

func ReadEventsJSONL(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []model.Event{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("parse events jsonl: %w", err)
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
