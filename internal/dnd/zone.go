package dnd

import (
	"strings"
	"time"

	"deskplan/internal/model"
)

// flashDuration is how long a zone's success highlight stays lit after a
// received drop.
const flashDuration = 800 * time.Millisecond

// Zone is the drop-zone adapter: it registers a region's accepted kinds with
// the coordinator, filters incoming drops, and tracks the transient highlight
// state the presentation layer renders.
type Zone struct {
	ID string

	// OnDrop receives accepted items. Mutations belong in the callback (it
	// typically calls into the schedule store); the zone itself never touches
	// the stores.
	OnDrop func(Item)

	coord   *Coordinator
	accepts map[model.EntityKind]bool

	// depth counts nested enter/leave pairs so the hover highlight toggles
	// only at the zone's outer boundary, not on every child crossing.
	depth int

	lastDrop   time.Time
	flashUntil time.Time
	now        func() time.Time
}

// NewZone registers a drop zone with the coordinator (call on mount).
func NewZone(c *Coordinator, id string, accepts []model.EntityKind, order int, onDrop func(Item)) *Zone {
	id = strings.TrimSpace(id)
	c.RegisterZone(id, accepts, order)
	set := make(map[model.EntityKind]bool, len(accepts))
	for _, k := range accepts {
		set[k] = true
	}
	return &Zone{ID: id, OnDrop: onDrop, coord: c, accepts: set, now: c.now}
}

// Close unregisters the zone (call on unmount).
func (z *Zone) Close() {
	z.depth = 0
	z.coord.UnregisterZone(z.ID)
}

// Enter records the drag entering the zone or one of its children. Reports
// whether the zone is now hovered by an acceptable item.
func (z *Zone) Enter() bool {
	z.depth++
	return z.Hovered()
}

// Leave records the drag leaving the zone or one of its children. The hover
// state drops only when the outermost boundary is crossed.
func (z *Zone) Leave() {
	if z.depth > 0 {
		z.depth--
	}
}

// Hovered reports whether the active drag item is over this zone and would
// be accepted on drop.
func (z *Zone) Hovered() bool {
	if z.depth <= 0 {
		return false
	}
	it, ok := z.coord.Active()
	return ok && z.accepts[it.Kind]
}

// Flashing reports whether the success highlight is currently active.
func (z *Zone) Flashing() bool {
	return z.now().Before(z.flashUntil)
}

// Drop handles a drop event on this zone.
//
// The payload is recovered from the structured transfer channel, falling
// back to the coordinator's live item when the channel is empty. An
// unaccepted kind is silently ignored (the session still resolves to idle,
// with no callback and no highlight). A malformed payload resets the session
// and returns ErrMalformedPayload for the caller to surface as a soft
// notification. Duplicate drop events inside the guard window are absorbed.
//
// Reports whether OnDrop was invoked.
func (z *Zone) Drop(tr Transfer) (bool, error) {
	z.depth = 0

	item, ok, err := DecodeTransfer(tr)
	if err != nil {
		// Recover locally: the session never survives a bad payload.
		z.coord.Cancel()
		return false, err
	}
	if !ok {
		item, ok = z.coord.Active()
		if !ok || (strings.TrimSpace(tr.Text) != "" && tr.Text != item.ID) {
			z.coord.Cancel()
			return false, ErrMalformedPayload
		}
	}

	if !z.accepts[item.Kind] {
		// Not an error: the zone simply does not take this kind.
		z.coord.Cancel()
		return false, nil
	}

	now := z.now()
	if !z.lastDrop.IsZero() && now.Sub(z.lastDrop) < guardWindow {
		z.coord.Cancel()
		return false, nil
	}
	z.lastDrop = now

	if z.OnDrop != nil {
		z.OnDrop(item)
	}
	_, _ = z.coord.End(true, z.ID)
	z.flashUntil = now.Add(flashDuration)
	return true, nil
}
