package dnd

import (
	"encoding/json"
	"testing"
	"time"

	"deskplan/internal/model"
	"deskplan/internal/schedule"
)

func beginDrag(t *testing.T, c *Coordinator, id string, kind model.EntityKind) Item {
	t.Helper()
	it := testItem(id, kind)
	if err := c.Begin(it, Position{}); err != nil {
		t.Fatalf("Begin %s: %v", id, err)
	}
	active, _ := c.Active()
	return active
}

func TestZoneAcceptsAndFlashes(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now := base
	c := NewCoordinator()
	c.now = func() time.Time { return now }

	var dropped []string
	z := NewZone(c, "cal-2025-06-01", []model.EntityKind{model.KindTask}, 0, func(it Item) {
		dropped = append(dropped, it.ID)
	})
	z.now = c.now

	it := beginDrag(t, c, "task-1", model.KindTask)
	tr, err := EncodeTransfer(it)
	if err != nil {
		t.Fatalf("EncodeTransfer: %v", err)
	}

	ok, err := z.Drop(tr)
	if err != nil || !ok {
		t.Fatalf("Drop: ok=%v err=%v", ok, err)
	}
	if len(dropped) != 1 || dropped[0] != "task-1" {
		t.Fatalf("OnDrop not invoked: %v", dropped)
	}
	if c.IsDragging() {
		t.Fatalf("session must resolve after a drop")
	}
	if !z.Flashing() {
		t.Fatalf("success highlight should be lit")
	}
	now = base.Add(flashDuration + time.Millisecond)
	if z.Flashing() {
		t.Fatalf("highlight must clear after the fixed duration")
	}
}

func TestZoneSilentlyIgnoresUnacceptedKind(t *testing.T) {
	c := NewCoordinator()
	z := NewZone(c, "cal-2025-06-01", []model.EntityKind{model.KindTask, model.KindEmployee}, 0, func(Item) {
		t.Fatalf("OnDrop must never fire for an unaccepted kind")
	})

	// The schedule store must be byte-for-byte unchanged by a rejected drop.
	st := schedule.NewStore()
	st.Add(model.Assignment{ID: "asg-1", Title: "Install", Date: "2025-06-01"})
	before, _ := json.Marshal(st.Assignments())

	it := beginDrag(t, c, "crew-9", model.KindCrew)
	z.Enter()
	if z.Hovered() {
		t.Fatalf("no highlight for a kind the zone rejects")
	}
	tr, _ := EncodeTransfer(it)
	ok, err := z.Drop(tr)
	if err != nil {
		t.Fatalf("rejection must be silent; got error %v", err)
	}
	if ok {
		t.Fatalf("rejection must not invoke OnDrop")
	}
	if z.Flashing() {
		t.Fatalf("rejection must not flash")
	}
	if c.IsDragging() {
		t.Fatalf("an unaccepted drop still resolves the session to idle")
	}

	after, _ := json.Marshal(st.Assignments())
	if string(before) != string(after) {
		t.Fatalf("store changed across a rejected drop:\nbefore %s\nafter  %s", before, after)
	}
}

func TestZoneEnterLeaveDepth(t *testing.T) {
	c := NewCoordinator()
	z := NewZone(c, "list", []model.EntityKind{model.KindTask}, 0, nil)

	beginDrag(t, c, "task-1", model.KindTask)

	z.Enter()
	z.Enter() // nested child
	z.Leave() // leaving the child
	if !z.Hovered() {
		t.Fatalf("leaving a nested child must not clear the hover state")
	}
	z.Leave() // outer boundary
	if z.Hovered() {
		t.Fatalf("hover must clear at the outer boundary")
	}
	z.Leave() // stray leave: depth never goes negative
	z.Enter()
	if !z.Hovered() {
		t.Fatalf("depth underflow broke the counter")
	}
}

func TestZoneDuplicateDropGuard(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now := base
	c := NewCoordinator()
	c.now = func() time.Time { return now }

	var drops int
	z := NewZone(c, "cal", []model.EntityKind{model.KindTask}, 0, func(Item) { drops++ })
	z.now = c.now

	it := beginDrag(t, c, "task-1", model.KindTask)
	tr, _ := EncodeTransfer(it)
	if ok, err := z.Drop(tr); err != nil || !ok {
		t.Fatalf("first Drop: ok=%v err=%v", ok, err)
	}

	// The same user action delivers a duplicate drop event 50ms later.
	now = base.Add(50 * time.Millisecond)
	beginDrag(t, c, "task-1", model.KindTask)
	if ok, err := z.Drop(tr); err != nil || ok {
		t.Fatalf("duplicate Drop must be absorbed: ok=%v err=%v", ok, err)
	}
	if drops != 1 {
		t.Fatalf("expected exactly one OnDrop; got %d", drops)
	}

	// A later, genuine drop on the same zone goes through.
	now = base.Add(time.Second)
	beginDrag(t, c, "task-2", model.KindTask)
	tr2, _ := EncodeTransfer(mustActive(t, c))
	if ok, err := z.Drop(tr2); err != nil || !ok {
		t.Fatalf("later Drop: ok=%v err=%v", ok, err)
	}
	if drops != 2 {
		t.Fatalf("expected two OnDrop calls; got %d", drops)
	}
}

func mustActive(t *testing.T, c *Coordinator) Item {
	t.Helper()
	it, ok := c.Active()
	if !ok {
		t.Fatalf("expected an active item")
	}
	return it
}

func TestZoneMalformedPayloadResetsSession(t *testing.T) {
	c := NewCoordinator()
	z := NewZone(c, "cal", []model.EntityKind{model.KindTask}, 0, func(Item) {
		t.Fatalf("OnDrop must not fire for a malformed payload")
	})

	beginDrag(t, c, "task-1", model.KindTask)
	ok, err := z.Drop(Transfer{JSON: "{broken"})
	if err != ErrMalformedPayload {
		t.Fatalf("expected ErrMalformedPayload; got %v", err)
	}
	if ok {
		t.Fatalf("malformed payload must not count as a drop")
	}
	if c.IsDragging() {
		t.Fatalf("session must still reset to idle")
	}
}

func TestZoneFallsBackToCoordinatorItem(t *testing.T) {
	c := NewCoordinator()
	var got Item
	z := NewZone(c, "cal", []model.EntityKind{model.KindEmployee}, 0, func(it Item) { got = it })

	beginDrag(t, c, "emp-3", model.KindEmployee)

	// Transfer channel empty: the zone recovers the coordinator's live item.
	if ok, err := z.Drop(Transfer{Text: "emp-3"}); err != nil || !ok {
		t.Fatalf("fallback Drop: ok=%v err=%v", ok, err)
	}
	if got.ID != "emp-3" {
		t.Fatalf("fallback recovered wrong item: %+v", got)
	}

	// A fallback id that contradicts the live item is treated as malformed.
	beginDrag(t, c, "emp-4", model.KindEmployee)
	if _, err := z.Drop(Transfer{Text: "emp-999"}); err != ErrMalformedPayload {
		t.Fatalf("expected ErrMalformedPayload on id mismatch; got %v", err)
	}
}
