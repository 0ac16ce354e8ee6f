package schedule

import (
	"testing"

	"deskplan/internal/model"
)

func timed(id, date, start, end string, assignee, crew string) model.Assignment {
	a := model.Assignment{ID: id, Title: id, Date: date}
	if start != "" {
		a.StartTime = strPtr(start)
	}
	if end != "" {
		a.EndTime = strPtr(end)
	}
	if assignee != "" {
		a.AssigneeID = strPtr(assignee)
	}
	if crew != "" {
		a.CrewID = strPtr(crew)
	}
	return a
}

func TestConflictsOverlapSameAssignee(t *testing.T) {
	a := timed("a", "2025-06-01", "09:00", "10:00", "emp-1", "")
	b := timed("b", "2025-06-01", "09:30", "10:30", "emp-1", "")
	if !Conflicts(a, b) {
		t.Fatalf("overlapping intervals with the same assignee must conflict")
	}
}

func TestNoConflictDifferentAssignee(t *testing.T) {
	a := timed("a", "2025-06-01", "09:00", "10:00", "emp-1", "")
	b := timed("b", "2025-06-01", "09:30", "10:30", "emp-2", "")
	if Conflicts(a, b) {
		t.Fatalf("different assignees never conflict")
	}
}

func TestConflictSymmetry(t *testing.T) {
	cases := [][2]model.Assignment{
		{timed("a", "2025-06-01", "09:00", "10:00", "emp-1", ""), timed("b", "2025-06-01", "09:30", "10:30", "emp-1", "")},
		{timed("a", "2025-06-01", "09:00", "10:00", "", "crew-1"), timed("b", "2025-06-01", "09:59", "11:00", "", "crew-1")},
		{timed("a", "2025-06-01", "09:00", "10:00", "emp-1", ""), timed("b", "2025-06-02", "09:00", "10:00", "emp-1", "")},
		{timed("a", "2025-06-01", "09:00", "10:00", "emp-1", ""), timed("b", "2025-06-01", "", "", "emp-1", "")},
	}
	for i, c := range cases {
		if Conflicts(c[0], c[1]) != Conflicts(c[1], c[0]) {
			t.Fatalf("case %d: Conflicts is not symmetric", i)
		}
	}
}

func TestDayIsolation(t *testing.T) {
	a := timed("a", "2025-06-01", "09:00", "10:00", "emp-1", "")
	b := timed("b", "2025-06-02", "09:00", "10:00", "emp-1", "")
	if Conflicts(a, b) {
		t.Fatalf("assignments on different days never conflict")
	}
	// Same day written with a timestamp still counts as the same day.
	b.Date = "2025-06-01T18:00:00Z"
	if !Conflicts(a, b) {
		t.Fatalf("day comparison must normalize away time-of-day")
	}
}

func TestMissingTimesNeverConflict(t *testing.T) {
	a := timed("a", "2025-06-01", "09:00", "10:00", "emp-1", "")
	b := timed("b", "2025-06-01", "", "", "emp-1", "")
	if Conflicts(a, b) || Conflicts(b, a) {
		t.Fatalf("an assignment without times cannot establish overlap")
	}
	c := timed("c", "2025-06-01", "09:00", "", "emp-1", "")
	if Conflicts(a, c) {
		t.Fatalf("start without end cannot establish overlap")
	}
}

func TestHalfOpenIntervals(t *testing.T) {
	a := timed("a", "2025-06-01", "09:00", "10:00", "emp-1", "")
	b := timed("b", "2025-06-01", "10:00", "11:00", "emp-1", "")
	if Conflicts(a, b) {
		t.Fatalf("[start,end) intervals: touching endpoints do not overlap")
	}
}

func TestCrewConflicts(t *testing.T) {
	a := timed("a", "2025-06-01", "09:00", "12:00", "", "crew-1")
	b := timed("b", "2025-06-01", "11:00", "13:00", "", "crew-1")
	if !Conflicts(a, b) {
		t.Fatalf("same crew with overlapping intervals must conflict")
	}
	b.CrewID = strPtr("crew-2")
	if Conflicts(a, b) {
		t.Fatalf("different crews never conflict")
	}
	// An individual and a crew are distinct assignee identities.
	c := timed("c", "2025-06-01", "09:00", "12:00", "crew-1", "")
	if Conflicts(a, c) {
		t.Fatalf("individual id matching a crew id is not a shared assignee")
	}
}

func TestDetectConflicts(t *testing.T) {
	a := timed("a", "2025-06-01", "09:00", "10:00", "emp-1", "")
	all := []model.Assignment{
		a,
		timed("b", "2025-06-01", "09:30", "10:30", "emp-1", ""),
		timed("c", "2025-06-01", "09:30", "10:30", "emp-2", ""),
		timed("d", "2025-06-02", "09:30", "10:30", "emp-1", ""),
		timed("e", "2025-06-01", "09:45", "09:50", "emp-1", ""),
	}
	got := DetectConflicts(a, all)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "e" {
		t.Fatalf("expected conflicts [b e]; got %+v", got)
	}
}
