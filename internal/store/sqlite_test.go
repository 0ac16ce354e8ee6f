package store

import (
	"context"
	"testing"

	"deskplan/internal/model"
)

func strPtr(s string) *string { return &s }

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	in := &DB{
		Version:     1,
		CurrentDate: "2025-06-01",
		Tasks: []model.Task{
			{
				ID:         "task-1",
				Text:       "Install shelving",
				Date:       "2025-06-01",
				StartTime:  strPtr("09:00"),
				EndTime:    strPtr("10:00"),
				AssigneeID: strPtr("emp-1"),
			},
			{ID: "task-2", Text: "Inventory", Date: "2025-06-02", Completed: true, CrewID: strPtr("crew-1")},
		},
		Employees: []model.Employee{{ID: "emp-1", Name: "Dana", Role: "tech"}},
		Crews:     []model.Crew{{ID: "crew-1", Name: "Install crew", MemberIDs: []string{"emp-1"}}},
		Clients:   []model.Client{{ID: "cli-1", Name: "Acme"}},
		ClientLocations: []model.ClientLocation{
			{ID: "cloc-1", ClientID: "cli-1", Label: "HQ", Address: "1 Main St"},
		},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.CurrentDate != "2025-06-01" {
		t.Fatalf("current date lost: %q", out.CurrentDate)
	}
	if len(out.Tasks) != 2 || out.Tasks[0].ID != "task-1" || out.Tasks[1].ID != "task-2" {
		t.Fatalf("task order/content lost: %+v", out.Tasks)
	}
	got := out.Tasks[0]
	if got.StartTime == nil || *got.StartTime != "09:00" || got.AssigneeID == nil || *got.AssigneeID != "emp-1" {
		t.Fatalf("optional fields lost: %+v", got)
	}
	if len(out.Employees) != 1 || len(out.Crews) != 1 || len(out.Clients) != 1 || len(out.ClientLocations) != 1 {
		t.Fatalf("reference entities lost: %+v", out)
	}
	if len(out.Crews[0].MemberIDs) != 1 || out.Crews[0].MemberIDs[0] != "emp-1" {
		t.Fatalf("crew member order lost: %+v", out.Crews[0])
	}
}

func TestLoadEmptyWorkspace(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if db.Tasks == nil || db.Employees == nil || db.Crews == nil {
		t.Fatalf("empty workspace must yield empty (non-nil) slices")
	}
}

func TestEventsAppendOnlyAcrossSaves(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := &DB{Version: 1}
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.AppendEvent("schedule.move", "task-1", map[string]any{"to": "2025-06-03"}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent("task.toggle", "task-1", nil); err != nil {
		t.Fatalf("AppendEvent 2: %v", err)
	}

	// A later full save must not wipe the event log.
	if err := s.Save(db); err != nil {
		t.Fatalf("re-Save: %v", err)
	}

	evs, err := s.ReadEvents("", 0)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(evs) != 2 || evs[0].Type != "schedule.move" || evs[1].Type != "task.toggle" {
		t.Fatalf("events lost or reordered: %+v", evs)
	}

	byEntity, err := s.ReadEvents("task-1", 1)
	if err != nil {
		t.Fatalf("ReadEvents filtered: %v", err)
	}
	if len(byEntity) != 1 || byEntity[0].Type != "task.toggle" {
		t.Fatalf("entity filter/limit wrong: %+v", byEntity)
	}
}

func TestNextIDUniqueAndPrefixed(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := &DB{}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := s.NextID(db, "task")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		db.Tasks = append(db.Tasks, model.Task{ID: id})
	}
	for id := range seen {
		if len(id) < len("task-")+1 || id[:5] != "task-" {
			t.Fatalf("bad id shape: %q", id)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		db, err := s.openSQLite(ctx)
		if err != nil {
			t.Fatalf("openSQLite #%d: %v", i, err)
		}
		db.Close()
	}
}
