// Package dnd implements the drag-and-drop coordination engine: one global
// drag session, a drop-zone registry, and the source/zone adapters that wrap
// entities and views. The coordinator owns session state only; the transient
// cursor-following affordance is rendered by the presentation layer from the
// events emitted here.
package dnd

import (
	"errors"
	"sort"
	"strings"
	"time"

	"deskplan/internal/model"
)

type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
)

// Sessions and drops triggered by one user action can arrive as duplicated
// events; anything from the same source/zone within this window is absorbed.
const guardWindow = 500 * time.Millisecond

var (
	ErrBeginSuppressed = errors.New("drag begin suppressed: prior session from the same source within the guard window")
	ErrSourceDisabled  = errors.New("drag source is disabled")
	ErrNoSession       = errors.New("no active drag session")
)

type Position struct {
	X int
	Y int
}

// AffordanceSink receives session lifecycle events so the presentation layer
// can show, move and tear down the drag ghost. The coordinator never renders.
type AffordanceSink interface {
	DragStarted(item Item, at Position)
	DragMoved(item Item, at Position)
	DragEnded(item Item, dropped bool, targetID string)
}

// ZoneRegistration is a registered drop region: an id, the set of entity
// kinds it accepts, and a sort order for deterministic iteration.
type ZoneRegistration struct {
	ID      string
	Accepts map[model.EntityKind]bool
	Order   int
}

// Coordinator owns the single global drag session. All methods are
// synchronous and must be called from the event loop; the session is a
// mutually exclusive resource, never shared across goroutines.
//
// Invariant: state == StateDragging exactly when an active item is recorded.
// Every path out of a session clears both together.
type Coordinator struct {
	state  State
	active Item
	pos    Position

	zones   map[string]ZoneRegistration
	sources map[string]*Source
	sink    AffordanceSink

	lastBeginSource string
	lastBeginAt     time.Time

	now func() time.Time
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		state:   StateIdle,
		zones:   map[string]ZoneRegistration{},
		sources: map[string]*Source{},
		now:     time.Now,
	}
}

// SetSink installs the presentation-layer affordance sink. Optional; a nil
// sink means session events are tracked but not surfaced.
func (c *Coordinator) SetSink(sink AffordanceSink) { c.sink = sink }

func (c *Coordinator) State() State     { return c.state }
func (c *Coordinator) IsDragging() bool { return c.state == StateDragging }

// Active returns the live drag item, if any.
func (c *Coordinator) Active() (Item, bool) {
	if c.state != StateDragging {
		return Item{}, false
	}
	return c.active, true
}

func (c *Coordinator) Position() Position { return c.pos }

// Begin starts a drag session for item at the given origin.
//
// If a session from the same source started within the guard window, the new
// one is rejected (duplicate gesture events). Outside the window a new Begin
// replaces the active session: the old one is torn down as cancelled first,
// so the one-live-item invariant holds throughout.
func (c *Coordinator) Begin(item Item, origin Position) error {
	src := strings.TrimSpace(item.Source)
	now := c.now()
	if c.state == StateDragging && src != "" && src == c.lastBeginSource && now.Sub(c.lastBeginAt) < guardWindow {
		return ErrBeginSuppressed
	}
	if c.state == StateDragging {
		c.teardown(false, "")
	}

	c.state = StateDragging
	c.active = item
	c.pos = origin
	c.lastBeginSource = src
	c.lastBeginAt = now
	if c.sink != nil {
		c.sink.DragStarted(item, origin)
	}
	return nil
}

// UpdatePosition repositions the affordance. Valid only while dragging;
// outside a session it is a no-op.
func (c *Coordinator) UpdatePosition(x, y int) bool {
	if c.state != StateDragging {
		return false
	}
	c.pos = Position{X: x, Y: y}
	if c.sink != nil {
		c.sink.DragMoved(c.active, c.pos)
	}
	return true
}

// End terminates the session. It always clears session state and removes the
// affordance, dropped or not. On a successful drop the originating source is
// notified so it can restore any suppressed visual state. Returns the item
// that was live, or ErrNoSession when called without one.
func (c *Coordinator) End(dropped bool, targetID string) (Item, error) {
	if c.state != StateDragging {
		return Item{}, ErrNoSession
	}
	item := c.active
	c.teardown(dropped, targetID)
	if dropped {
		if s := c.sources[strings.TrimSpace(item.Source)]; s != nil && s.OnDropped != nil {
			s.OnDropped(item)
		}
	}
	return item, nil
}

// Cancel forces the session back to idle. Idempotent: with no active session
// it is a no-op.
func (c *Coordinator) Cancel() {
	if c.state != StateDragging {
		return
	}
	c.teardown(false, "")
}

func (c *Coordinator) teardown(dropped bool, targetID string) {
	item := c.active
	c.state = StateIdle
	c.active = Item{}
	c.pos = Position{}
	if c.sink != nil {
		c.sink.DragEnded(item, dropped, targetID)
	}
}

// RegisterZone adds (or updates) a drop zone. The registry lives independent
// of session lifecycle: zones register on mount and unregister on unmount.
func (c *Coordinator) RegisterZone(id string, accepts []model.EntityKind, order int) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	set := make(map[model.EntityKind]bool, len(accepts))
	for _, k := range accepts {
		set[k] = true
	}
	c.zones[id] = ZoneRegistration{ID: id, Accepts: set, Order: order}
}

func (c *Coordinator) UnregisterZone(id string) {
	delete(c.zones, strings.TrimSpace(id))
}

// CanAccept reports whether the zone accepts the given entity kind.
// Unknown zones accept nothing.
func (c *Coordinator) CanAccept(zoneID string, kind model.EntityKind) bool {
	z, ok := c.zones[strings.TrimSpace(zoneID)]
	return ok && z.Accepts[kind]
}

// Zones returns the current registrations sorted by order, then id.
func (c *Coordinator) Zones() []ZoneRegistration {
	out := make([]ZoneRegistration, 0, len(c.zones))
	for _, z := range c.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Coordinator) registerSource(s *Source) {
	if s != nil && strings.TrimSpace(s.ID) != "" {
		c.sources[strings.TrimSpace(s.ID)] = s
	}
}

func (c *Coordinator) unregisterSource(id string) {
	delete(c.sources, strings.TrimSpace(id))
}
