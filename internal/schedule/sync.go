package schedule

import (
	"deskplan/internal/model"
)

// Collection is the surrounding application's external task collection at its
// boundary: an ordered list of task records the dashboard owns. The TUI and
// CLI back this with the workspace store's DB snapshot.
type Collection interface {
	Tasks() []model.Task
	SetTasks([]model.Task)
}

// Syncer keeps the canonical schedule store and the external task collection
// bidirectionally consistent.
//
// Both directions are gated on structural difference: inbound external
// changes are applied only when the mapped assignments differ from the
// current local snapshot, and outbound store changes are written only when
// the mapped tasks differ from the current external snapshot. The gate is the
// cycle-safety mechanism; without it an outbound write would retrigger an
// inbound apply indefinitely. True simultaneous conflicting edits from both
// sides are out of scope: the last write observed wins.
type Syncer struct {
	store    *Store
	external Collection

	// applyingInbound suppresses the outbound listener while Replace runs.
	applyingInbound bool
}

func NewSyncer(store *Store, external Collection) *Syncer {
	y := &Syncer{store: store, external: external}
	store.Subscribe(func(c Change) {
		if y.applyingInbound {
			return
		}
		y.SyncOut()
	})
	return y
}

// SyncIn maps the external collection to the internal assignment shape and
// replaces the local snapshot if (and only if) it is structurally different.
// Reports whether an apply happened.
func (y *Syncer) SyncIn() bool {
	mapped := make([]model.Assignment, 0, len(y.external.Tasks()))
	for _, t := range y.external.Tasks() {
		mapped = append(mapped, TaskToAssignment(t))
	}
	if assignmentsEqual(mapped, y.store.Assignments()) {
		return false
	}
	y.applyingInbound = true
	y.store.Replace(mapped)
	y.applyingInbound = false
	return true
}

// SyncOut maps the local assignments back to the external task shape and
// writes them if structurally different. Reports whether a write happened.
func (y *Syncer) SyncOut() bool {
	mapped := make([]model.Task, 0, y.store.Len())
	for _, a := range y.store.Assignments() {
		mapped = append(mapped, AssignmentToTask(a))
	}
	if tasksEqual(mapped, y.external.Tasks()) {
		return false
	}
	y.external.SetTasks(mapped)
	return true
}

// TaskToAssignment maps one external task record to the internal shape.
// Dates are normalized to date-only so round trips never drift.
func TaskToAssignment(t model.Task) model.Assignment {
	return model.Assignment{
		ID:               t.ID,
		Title:            t.Text,
		Notes:            t.Notes,
		Date:             model.NormalizeDate(t.Date),
		StartTime:        copyStrPtr(t.StartTime),
		EndTime:          copyStrPtr(t.EndTime),
		Completed:        t.Completed,
		AssigneeID:       copyStrPtr(t.AssigneeID),
		CrewID:           copyStrPtr(t.CrewID),
		LocationID:       copyStrPtr(t.LocationID),
		ClientID:         copyStrPtr(t.ClientID),
		ClientLocationID: copyStrPtr(t.ClientLocationID),
	}
}

// AssignmentToTask maps one internal assignment to the external shape.
func AssignmentToTask(a model.Assignment) model.Task {
	return model.Task{
		ID:               a.ID,
		Text:             a.Title,
		Notes:            a.Notes,
		Date:             model.NormalizeDate(a.Date),
		StartTime:        copyStrPtr(a.StartTime),
		EndTime:          copyStrPtr(a.EndTime),
		Completed:        a.Completed,
		AssigneeID:       copyStrPtr(a.AssigneeID),
		CrewID:           copyStrPtr(a.CrewID),
		LocationID:       copyStrPtr(a.LocationID),
		ClientID:         copyStrPtr(a.ClientID),
		ClientLocationID: copyStrPtr(a.ClientLocationID),
	}
}

// assignmentsEqual compares the sync-relevant fields only. CreatedAt and
// UpdatedAt are local bookkeeping and deliberately excluded: a timestamp-only
// difference must not count as "structurally different" or every inbound
// apply would immediately trigger an outbound write.
func assignmentsEqual(a, b []model.Assignment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !assignmentEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func assignmentEqual(a, b model.Assignment) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Notes == b.Notes &&
		model.NormalizeDate(a.Date) == model.NormalizeDate(b.Date) &&
		strPtrEqual(a.StartTime, b.StartTime) &&
		strPtrEqual(a.EndTime, b.EndTime) &&
		a.Completed == b.Completed &&
		strPtrEqual(a.AssigneeID, b.AssigneeID) &&
		strPtrEqual(a.CrewID, b.CrewID) &&
		strPtrEqual(a.LocationID, b.LocationID) &&
		strPtrEqual(a.ClientID, b.ClientID) &&
		strPtrEqual(a.ClientLocationID, b.ClientLocationID)
}

func tasksEqual(a, b []model.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !taskEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func taskEqual(a, b model.Task) bool {
	return a.ID == b.ID &&
		a.Text == b.Text &&
		a.Notes == b.Notes &&
		model.NormalizeDate(a.Date) == model.NormalizeDate(b.Date) &&
		strPtrEqual(a.StartTime, b.StartTime) &&
		strPtrEqual(a.EndTime, b.EndTime) &&
		a.Completed == b.Completed &&
		strPtrEqual(a.AssigneeID, b.AssigneeID) &&
		strPtrEqual(a.CrewID, b.CrewID) &&
		strPtrEqual(a.LocationID, b.LocationID) &&
		strPtrEqual(a.ClientID, b.ClientID) &&
		strPtrEqual(a.ClientLocationID, b.ClientLocationID)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
