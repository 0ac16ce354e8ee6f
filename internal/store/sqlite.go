package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"deskplan/internal/model"

	_ "modernc.org/sqlite"
)

const dbFileName = "deskplan.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), dbFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL allows the TUI and scripted CLI calls to share the workspace;
	// busy_timeout avoids "database is locked" flakiness between them.
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
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			completed INTEGER NOT NULL,
			assignee_id TEXT NOT NULL,
			crew_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date);`,
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS crews (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS client_locations (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_client_locations_client ON client_locations(client_id);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, ts_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := &DB{Version: 1, NextIDs: map[string]int{}}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentDate = readMeta("current_date")

	if xs, err := readJSONRows[model.Task](ctx, db, `SELECT json FROM tasks ORDER BY rowid`); err == nil {
		out.Tasks = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Employee](ctx, db, `SELECT json FROM employees ORDER BY rowid`); err == nil {
		out.Employees = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Crew](ctx, db, `SELECT json FROM crews ORDER BY rowid`); err == nil {
		out.Crews = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.Client](ctx, db, `SELECT json FROM clients ORDER BY rowid`); err == nil {
		out.Clients = xs
	} else {
		return nil, err
	}
	if xs, err := readJSONRows[model.ClientLocation](ctx, db, `SELECT json FROM client_locations ORDER BY rowid`); err == nil {
		out.ClientLocations = xs
	} else {
		return nil, err
	}

	// Keep nil slices empty for stable callers.
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	if out.Employees == nil {
		out.Employees = []model.Employee{}
	}
	if out.Crews == nil {
		out.Crews = []model.Crew{}
	}
	if out.Clients == nil {
		out.Clients = []model.Client{}
	}
	if out.ClientLocations == nil {
		out.ClientLocations = []model.ClientLocation{}
	}

	return out, nil
}

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

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, "version", fmt.Sprintf("%d", st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, "current_date", strings.TrimSpace(st.CurrentDate)); err != nil {
		return err
	}

	// Replace-all inside the transaction; the events table is append-only and
	// deliberately not part of the wipe.
	for _, t := range []string{"tasks", "employees", "crews", "clients", "client_locations"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, t := range st.Tasks {
		raw, _ := json.Marshal(t)
		assignee := ""
		if t.AssigneeID != nil {
			assignee = strings.TrimSpace(*t.AssigneeID)
		}
		crew := ""
		if t.CrewID != nil {
			crew = strings.TrimSpace(*t.CrewID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(id, date, completed, assignee_id, crew_id, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			t.ID, model.NormalizeDate(t.Date), boolToInt(t.Completed), assignee, crew, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, e := range st.Employees {
		raw, _ := json.Marshal(e)
		if _, err := tx.ExecContext(ctx, `INSERT INTO employees(id, name, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			e.ID, e.Name, boolToInt(e.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, c := range st.Crews {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO crews(id, name, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			c.ID, c.Name, boolToInt(c.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, c := range st.Clients {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO clients(id, name, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			c.ID, c.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, l := range st.ClientLocations {
		raw, _ := json.Marshal(l)
		if _, err := tx.ExecContext(ctx, `INSERT INTO client_locations(id, client_id, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			l.ID, l.ClientID, string(raw), nowMs); err != nil {
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

	var out []T
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
