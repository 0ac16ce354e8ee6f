package schedule

import (
	"testing"

	"deskplan/internal/model"
)

func strPtr(s string) *string { return &s }

func TestAddNormalizesAndEnforcesSingleAssignee(t *testing.T) {
	st := NewStore()
	a := st.Add(model.Assignment{
		ID:         "asg-1",
		Title:      "Site visit",
		Date:       "2025-06-01T09:30:00Z",
		AssigneeID: strPtr("emp-1"),
		CrewID:     strPtr("crew-1"),
	})
	if a.Date != "2025-06-01" {
		t.Fatalf("date not normalized: %q", a.Date)
	}
	if a.CrewID != nil {
		t.Fatalf("at most one assignee: crew must be dropped when an individual is set")
	}
	if a.AssigneeID == nil || *a.AssigneeID != "emp-1" {
		t.Fatalf("individual assignee lost: %+v", a)
	}
}

func TestToggleCompletionInvolution(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "asg-1", Title: "Inventory", Date: "2025-06-01"})

	before, _ := st.Find("asg-1")
	if _, ok := st.ToggleCompletion("asg-1"); !ok {
		t.Fatalf("toggle failed")
	}
	mid, _ := st.Find("asg-1")
	if mid.Completed == before.Completed {
		t.Fatalf("toggle did not flip completed")
	}
	if _, ok := st.ToggleCompletion("asg-1"); !ok {
		t.Fatalf("second toggle failed")
	}
	after, _ := st.Find("asg-1")
	if after.Completed != before.Completed {
		t.Fatalf("toggling twice must restore the original value")
	}
}

func TestMoveToSameDateIsPureNoOp(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "asg-1", Title: "Install", Date: "2025-06-01"})

	var notifications int
	st.Subscribe(func(Change) { notifications++ })

	before, _ := st.Find("asg-1")
	_, changed := st.Move("asg-1", "2025-06-01")
	if changed {
		t.Fatalf("same-date move must report no change")
	}
	if notifications != 0 {
		t.Fatalf("same-date move must not notify; got %d notifications", notifications)
	}
	after, _ := st.Find("asg-1")
	if after != before {
		t.Fatalf("same-date move mutated the assignment: %+v vs %+v", after, before)
	}

	// The same day expressed with a timestamp is still the same day.
	if _, changed := st.Move("asg-1", "2025-06-01T23:00:00Z"); changed {
		t.Fatalf("sub-day precision must not defeat the no-op")
	}
}

func TestMoveChangesDateAndNotifies(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "asg-1", Title: "Install", Date: "2025-06-01"})

	var moves int
	st.Subscribe(func(c Change) {
		if c.Kind == ChangeMove {
			moves++
		}
	})

	a, changed := st.Move("asg-1", "2025-06-03")
	if !changed || a.Date != "2025-06-03" {
		t.Fatalf("move failed: changed=%v date=%q", changed, a.Date)
	}
	if moves != 1 {
		t.Fatalf("expected one move notification; got %d", moves)
	}
}

func TestMutatingMissingIDIsNoOp(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "asg-1", Title: "Install", Date: "2025-06-01"})

	var notifications int
	st.Subscribe(func(Change) { notifications++ })

	if _, ok := st.ToggleCompletion("asg-404"); ok {
		t.Fatalf("toggle on missing id must be a no-op")
	}
	if _, ok := st.Move("asg-404", "2025-06-02"); ok {
		t.Fatalf("move on missing id must be a no-op")
	}
	if _, ok := st.Edit("asg-404", Patch{Title: strPtr("x")}); ok {
		t.Fatalf("edit on missing id must be a no-op")
	}
	if st.Remove("asg-404") {
		t.Fatalf("remove on missing id must be a no-op")
	}
	if notifications != 0 {
		t.Fatalf("no-ops must not notify; got %d", notifications)
	}
	if st.Len() != 1 {
		t.Fatalf("store size changed: %d", st.Len())
	}
}

func TestEditAssigneeExclusivity(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "asg-1", Title: "Install", Date: "2025-06-01", AssigneeID: strPtr("emp-1")})

	a, ok := st.Edit("asg-1", Patch{CrewID: strPtr("crew-2")})
	if !ok {
		t.Fatalf("edit failed")
	}
	if a.AssigneeID != nil {
		t.Fatalf("setting a crew must clear the individual assignee")
	}
	if a.CrewID == nil || *a.CrewID != "crew-2" {
		t.Fatalf("crew not set: %+v", a)
	}

	a, _ = st.Edit("asg-1", Patch{AssigneeID: strPtr("emp-9")})
	if a.CrewID != nil {
		t.Fatalf("setting an individual must clear the crew")
	}

	a, _ = st.Edit("asg-1", Patch{ClearAssignee: true})
	if a.AssigneeID != nil || a.CrewID != nil {
		t.Fatalf("clear must drop both assignee forms: %+v", a)
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "a", Title: "1", Date: "2025-06-01"})
	st.Add(model.Assignment{ID: "b", Title: "2", Date: "2025-06-01"})
	st.Add(model.Assignment{ID: "c", Title: "3", Date: "2025-06-01"})

	if !st.Remove("b") {
		t.Fatalf("remove failed")
	}
	got := st.Assignments()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("order not preserved after remove: %+v", got)
	}
}

func TestProjectionIsACopy(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "a", Title: "Original", Date: "2025-06-01"})

	view := st.Assignments()
	view[0].Title = "Forked"

	canonical, _ := st.Find("a")
	if canonical.Title != "Original" {
		t.Fatalf("a view mutation leaked into the canonical store")
	}
}

func TestOnProjection(t *testing.T) {
	st := NewStore()
	st.Add(model.Assignment{ID: "a", Title: "1", Date: "2025-06-01"})
	st.Add(model.Assignment{ID: "b", Title: "2", Date: "2025-06-02"})
	st.Add(model.Assignment{ID: "c", Title: "3", Date: "2025-06-01"})

	day := st.On("2025-06-01")
	if len(day) != 2 || day[0].ID != "a" || day[1].ID != "c" {
		t.Fatalf("day projection wrong: %+v", day)
	}
}
