package store

import (
	"testing"

	"deskplan/internal/model"
)

func TestNormalizeWorkspaceName(t *testing.T) {
	if got, err := NormalizeWorkspaceName("  Office "); err != nil || got != "office" {
		t.Fatalf("NormalizeWorkspaceName: %q %v", got, err)
	}
	for _, bad := range []string{"", "a b", "Ö", "x/y"} {
		if _, err := NormalizeWorkspaceName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestCollectionAdapter(t *testing.T) {
	db := &DB{Tasks: []model.Task{{ID: "task-1", Text: "a"}}}
	c := Collection{DB: db}
	if got := c.Tasks(); len(got) != 1 || got[0].ID != "task-1" {
		t.Fatalf("Tasks: %+v", got)
	}
	c.SetTasks([]model.Task{{ID: "task-2"}})
	if len(db.Tasks) != 1 || db.Tasks[0].ID != "task-2" {
		t.Fatalf("SetTasks did not write through: %+v", db.Tasks)
	}
}

func TestAssigneeLabel(t *testing.T) {
	db := &DB{
		Employees: []model.Employee{{ID: "emp-1", Name: "Dana"}},
		Crews:     []model.Crew{{ID: "crew-1", Name: "Install crew"}},
	}
	emp, crew := "emp-1", "crew-1"
	if got := db.AssigneeLabel(&emp, nil); got != "Dana" {
		t.Fatalf("employee label: %q", got)
	}
	if got := db.AssigneeLabel(nil, &crew); got != "Install crew" {
		t.Fatalf("crew label: %q", got)
	}
	unknown := "emp-404"
	if got := db.AssigneeLabel(&unknown, nil); got != "emp-404" {
		t.Fatalf("unknown falls back to id: %q", got)
	}
	if got := db.AssigneeLabel(nil, nil); got != "" {
		t.Fatalf("unassigned label: %q", got)
	}
}
