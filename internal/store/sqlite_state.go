package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskorium-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI keep reading while a CLI invocation writes; busy_timeout avoids
	// "database is locked" when they overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS board_columns (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			project_id TEXT NOT NULL,
			ord INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_columns_project ON board_columns(project_id, ord);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			column_id TEXT NOT NULL,
			ord INTEGER NOT NULL,
			title TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_column ON cards(column_id, ord);`,
		`CREATE TABLE IF NOT EXISTS subtasks (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			card_id TEXT NOT NULL,
			completed INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_subtasks_card ON subtasks(card_id, seq);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			entity_kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			seq INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite reads the whole graph. Rows are returned in their stored sequence so subtasks keep
// their insertion order.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := NewDB()

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentProjectID = readMeta("current_project_id")

	if out.Projects, err = readJSONRows[model.Project](ctx, db, `SELECT json FROM projects ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	if out.Columns, err = readJSONRows[model.Column](ctx, db, `SELECT json FROM board_columns ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}
	if out.Cards, err = readJSONRows[model.Card](ctx, db, `SELECT json FROM cards ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	if out.Subtasks, err = readJSONRows[model.Subtask](ctx, db, `SELECT json FROM subtasks ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load subtasks: %w", err)
	}
	return out, nil
}

// SaveSQLite replaces the stored graph with st in one transaction. A crash mid-save leaves the
// previous state intact.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
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

	meta := map[string]string{
		"version":            strconv.Itoa(st.Version),
		"current_project_id": strings.TrimSpace(st.CurrentProjectID),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	for _, t := range []string{"projects", "board_columns", "cards", "subtasks"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for i, p := range st.Projects {
		raw, _ := json.Marshal(p)
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, seq, ord, name, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			p.ID, i, p.Order, p.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, c := range st.Columns {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO board_columns(id, seq, project_id, ord, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.ProjectID, c.Order, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, c := range st.Cards {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO cards(id, seq, column_id, ord, title, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.ColumnID, c.Order, c.Title, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, sub := range st.Subtasks {
		raw, _ := json.Marshal(sub)
		if _, err := tx.ExecContext(ctx, `INSERT INTO subtasks(id, seq, card_id, completed, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			sub.ID, i, sub.CardID, boolToInt(sub.Completed), string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
