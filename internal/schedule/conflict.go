package schedule

import "deskplan/internal/model"

// Conflicts reports whether two assignments collide: same calendar day,
// overlapping [start,end) minute-of-day intervals, and a shared assignee
// (same individual or same crew). An assignment without both a start and an
// end time never conflicts; overlap cannot be established.
func Conflicts(a, b model.Assignment) bool {
	if a.ID != "" && a.ID == b.ID {
		return false
	}
	if !model.SameDay(a.Date, b.Date) {
		return false
	}
	if !sameAssignee(a, b) {
		return false
	}

	aStart, aEnd, ok := interval(a)
	if !ok {
		return false
	}
	bStart, bEnd, ok := interval(b)
	if !ok {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// DetectConflicts returns every assignment in all (other than a itself) that
// conflicts with a. Linear scan; fine at dashboard scale. If assignment
// volume ever grows past a few thousand per day this is the place to add a
// per-day index.
func DetectConflicts(a model.Assignment, all []model.Assignment) []model.Assignment {
	var out []model.Assignment
	for _, b := range all {
		if b.ID == a.ID {
			continue
		}
		if Conflicts(a, b) {
			out = append(out, b)
		}
	}
	return out
}

func sameAssignee(a, b model.Assignment) bool {
	if a.AssigneeID != nil && b.AssigneeID != nil && *a.AssigneeID == *b.AssigneeID {
		return *a.AssigneeID != ""
	}
	if a.CrewID != nil && b.CrewID != nil && *a.CrewID == *b.CrewID {
		return *a.CrewID != ""
	}
	return false
}

func interval(a model.Assignment) (start, end int, ok bool) {
	if a.StartTime == nil || a.EndTime == nil {
		return 0, 0, false
	}
	start, ok = model.MinuteOfDay(*a.StartTime)
	if !ok {
		return 0, 0, false
	}
	end, ok = model.MinuteOfDay(*a.EndTime)
	if !ok {
		return 0, 0, false
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}
