package dnd

import (
	"strings"
	"time"
)

// Source is the draggable entity adapter: it wraps an entity so a user
// gesture produces a typed payload and begins a session on the coordinator.
type Source struct {
	ID string

	// Disabled, when set, vetoes new sessions (e.g. a completed task row).
	Disabled func() bool
	// DirectDrop is stamped onto every item this source produces.
	DirectDrop bool
	// OnDropped is invoked after a successful drop of this source's item so
	// the source can restore any suppressed visual state.
	OnDropped func(Item)

	coord     *Coordinator
	lastBegin time.Time
	now       func() time.Time
}

// NewSource registers a draggable source with the coordinator.
func NewSource(c *Coordinator, id string) *Source {
	s := &Source{ID: strings.TrimSpace(id), coord: c, now: c.now}
	c.registerSource(s)
	return s
}

// Close unregisters the source (call on unmount).
func (s *Source) Close() {
	if s.coord != nil {
		s.coord.unregisterSource(s.ID)
	}
}

// Begin starts a drag session for the given item from this source.
//
// It refuses when the source is disabled, and suppresses begins that land
// within the guard window of the previous one from this source: a single
// gesture can fire redundant start events, and only the first may win.
func (s *Source) Begin(item Item, origin Position) error {
	if s.Disabled != nil && s.Disabled() {
		return ErrSourceDisabled
	}
	now := s.now()
	if !s.lastBegin.IsZero() && now.Sub(s.lastBegin) < guardWindow {
		return ErrBeginSuppressed
	}

	item.Source = s.ID
	item.DirectDrop = s.DirectDrop
	if err := s.coord.Begin(item, origin); err != nil {
		return err
	}
	s.lastBegin = now
	return nil
}
