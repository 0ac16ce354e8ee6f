package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"deskplan/internal/model"
)

// AppendEvent writes one entry to the append-only events table. Events are
// the workspace's audit trail (schedule.move, task.toggle, ...); they are
// never rewritten by saves.
func (s Store) AppendEvent(typ, entityID string, payload any) error {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := newRandomID("ev")
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		id, time.Now().UTC().UnixMilli(), strings.TrimSpace(typ), strings.TrimSpace(entityID), string(raw))
	return err
}

// ReadEvents returns events in chronological order. limit <= 0 returns all;
// entityID == "" matches every entity.
func (s Store) ReadEvents(entityID string, limit int) ([]model.Event, error) {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events`
	args := []any{}
	if entityID = strings.TrimSpace(entityID); entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY ts_unixms ASC, id ASC`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		var ms int64
		var payload string
		if err := rows.Scan(&ev.ID, &ms, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ms).UTC()
		var v any
		if err := json.Unmarshal([]byte(payload), &v); err == nil {
			ev.Payload = v
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
