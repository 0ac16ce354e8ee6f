package schedule

import (
	"strings"
	"time"

	"deskplan/internal/model"
)

// ChangeKind identifies which store operation produced a change notification.
type ChangeKind string

const (
	ChangeAdd     ChangeKind = "add"
	ChangeRemove  ChangeKind = "remove"
	ChangeMove    ChangeKind = "move"
	ChangeToggle  ChangeKind = "toggle"
	ChangeEdit    ChangeKind = "edit"
	ChangeReplace ChangeKind = "replace"
)

// Change describes one applied mutation. For ChangeReplace (inbound sync)
// Assignment is zero; listeners should re-derive from the store.
type Change struct {
	Kind       ChangeKind
	Assignment model.Assignment
}

// Store is the canonical schedule store: the single writable copy of all
// assignments. Every view is a read-only projection derived from
// Assignments(); the five designated operations below are the only legal
// mutation path. All operations are synchronous and applied in call order.
type Store struct {
	assignments []model.Assignment
	listeners   []func(Change)

	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Subscribe registers a change listener and returns an unsubscribe func.
// Listeners run synchronously, in registration order, after the mutation has
// been applied.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() { s.listeners[idx] = nil }
}

func (s *Store) notify(c Change) {
	for _, fn := range s.listeners {
		if fn != nil {
			fn(c)
		}
	}
}

// Assignments returns a copy of the canonical collection in store order.
// Callers must treat the result as a read-only projection.
func (s *Store) Assignments() []model.Assignment {
	out := make([]model.Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

func (s *Store) Len() int { return len(s.assignments) }

func (s *Store) Find(id string) (model.Assignment, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.assignments[i], true
	}
	return model.Assignment{}, false
}

func (s *Store) indexOf(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range s.assignments {
		if s.assignments[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends an assignment. The date is normalized to date-only and the
// single-assignee invariant is enforced (an assignment carrying both an
// individual and a crew keeps the individual).
func (s *Store) Add(a model.Assignment) model.Assignment {
	a.Date = model.NormalizeDate(a.Date)
	enforceSingleAssignee(&a)
	ts := s.now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = ts
	}
	a.UpdatedAt = ts
	s.assignments = append(s.assignments, a)
	s.notify(Change{Kind: ChangeAdd, Assignment: a})
	return a
}

// Remove deletes the assignment with the given id. A missing id is a no-op,
// not an error.
func (s *Store) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	removed := s.assignments[i]
	s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
	s.notify(Change{Kind: ChangeRemove, Assignment: removed})
	return true
}

// Move reschedules an assignment to a new calendar day. Moving to the
// assignment's current day is a pure no-op: no mutation, no notification.
// A missing id is also a no-op.
func (s *Store) Move(id, newDate string) (model.Assignment, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Assignment{}, false
	}
	newDate = model.NormalizeDate(newDate)
	if newDate == "" || newDate == model.NormalizeDate(s.assignments[i].Date) {
		return s.assignments[i], false
	}
	s.assignments[i].Date = newDate
	s.assignments[i].UpdatedAt = s.now().UTC()
	s.notify(Change{Kind: ChangeMove, Assignment: s.assignments[i]})
	return s.assignments[i], true
}

// ToggleCompletion flips the completed flag. Toggling twice restores the
// original value. A missing id is a no-op.
func (s *Store) ToggleCompletion(id string) (model.Assignment, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Assignment{}, false
	}
	s.assignments[i].Completed = !s.assignments[i].Completed
	s.assignments[i].UpdatedAt = s.now().UTC()
	s.notify(Change{Kind: ChangeToggle, Assignment: s.assignments[i]})
	return s.assignments[i], true
}

// Patch is a partial assignment update for Edit. Nil fields are left
// untouched; Clear* flags reset the corresponding optional field.
type Patch struct {
	Title *string
	Notes *string
	Date  *string

	StartTime      *string
	EndTime        *string
	ClearStartTime bool
	ClearEndTime   bool

	AssigneeID    *string
	CrewID        *string
	ClearAssignee bool

	LocationID       *string
	ClientID         *string
	ClientLocationID *string
	ClearLocation    bool
	ClearClient      bool
}

// Edit applies a partial update. Setting an individual assignee clears any
// crew and vice versa (at most one may be set). A missing id is a no-op.
func (s *Store) Edit(id string, p Patch) (model.Assignment, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Assignment{}, false
	}
	a := &s.assignments[i]

	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Date != nil {
		if d := model.NormalizeDate(*p.Date); d != "" {
			a.Date = d
		}
	}
	if p.ClearStartTime {
		a.StartTime = nil
	} else if p.StartTime != nil {
		v := strings.TrimSpace(*p.StartTime)
		a.StartTime = &v
	}
	if p.ClearEndTime {
		a.EndTime = nil
	} else if p.EndTime != nil {
		v := strings.TrimSpace(*p.EndTime)
		a.EndTime = &v
	}
	if p.ClearAssignee {
		a.AssigneeID = nil
		a.CrewID = nil
	} else if p.AssigneeID != nil {
		v := strings.TrimSpace(*p.AssigneeID)
		a.AssigneeID = &v
		a.CrewID = nil
	} else if p.CrewID != nil {
		v := strings.TrimSpace(*p.CrewID)
		a.CrewID = &v
		a.AssigneeID = nil
	}
	if p.ClearLocation {
		a.LocationID = nil
	} else if p.LocationID != nil {
		v := strings.TrimSpace(*p.LocationID)
		a.LocationID = &v
	}
	if p.ClearClient {
		a.ClientID = nil
		a.ClientLocationID = nil
	} else {
		if p.ClientID != nil {
			v := strings.TrimSpace(*p.ClientID)
			a.ClientID = &v
		}
		if p.ClientLocationID != nil {
			v := strings.TrimSpace(*p.ClientLocationID)
			a.ClientLocationID = &v
		}
	}

	a.UpdatedAt = s.now().UTC()
	s.notify(Change{Kind: ChangeEdit, Assignment: *a})
	return *a, true
}

// Replace swaps the whole collection. This is the inbound-sync path only;
// callers must gate it on structural difference (see Syncer). A single
// ChangeReplace notification is emitted so projections re-derive.
func (s *Store) Replace(all []model.Assignment) {
	next := make([]model.Assignment, len(all))
	copy(next, all)
	for i := range next {
		next[i].Date = model.NormalizeDate(next[i].Date)
		enforceSingleAssignee(&next[i])
	}
	s.assignments = next
	s.notify(Change{Kind: ChangeReplace})
}

// On returns the assignments scheduled for the given calendar day, in store
// order. It is a projection helper; the returned slice is a copy.
func (s *Store) On(date string) []model.Assignment {
	date = model.NormalizeDate(date)
	var out []model.Assignment
	for _, a := range s.assignments {
		if model.NormalizeDate(a.Date) == date {
			out = append(out, a)
		}
	}
	return out
}

func enforceSingleAssignee(a *model.Assignment) {
	if a.AssigneeID != nil && strings.TrimSpace(*a.AssigneeID) == "" {
		a.AssigneeID = nil
	}
	if a.CrewID != nil && strings.TrimSpace(*a.CrewID) == "" {
		a.CrewID = nil
	}
	if a.AssigneeID != nil && a.CrewID != nil {
		a.CrewID = nil
	}
}
