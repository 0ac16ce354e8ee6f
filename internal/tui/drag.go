package tui

import (
	"encoding/json"
	"fmt"
	"time"

	"deskplan/internal/dnd"
	"deskplan/internal/model"
	"deskplan/internal/schedule"
	"deskplan/internal/store"
)

// dragGhost is the cursor-following affordance. The coordinator reports
// session events here; the view renders the ghost while visible is set.
type dragGhost struct {
	visible bool
	label   string
	pos     dnd.Position
}

func (g *dragGhost) DragStarted(it dnd.Item, at dnd.Position) {
	g.visible = true
	g.label = ghostLabel(it)
	g.pos = at
}

func (g *dragGhost) DragMoved(_ dnd.Item, at dnd.Position) {
	g.pos = at
}

func (g *dragGhost) DragEnded(dnd.Item, bool, string) {
	g.visible = false
	g.label = ""
}

func ghostLabel(it dnd.Item) string {
	var snap struct {
		Title string `json:"title"`
		Name  string `json:"name"`
	}
	if len(it.Payload) > 0 {
		_ = json.Unmarshal(it.Payload, &snap)
	}
	switch {
	case snap.Title != "":
		return snap.Title
	case snap.Name != "":
		return snap.Name
	default:
		return it.ID
	}
}

// engine bundles the shared mutable state behind the bubbletea model: the
// workspace store, the canonical schedule store and its syncer, the shared
// date cursor and the drag coordination layer. The appModel value is copied
// on every Update; everything here is reached through one pointer so drop
// callbacks and the model always see the same state.
type engine struct {
	store  store.Store
	db     *store.DB
	sched  *schedule.Store
	syncer *schedule.Syncer
	cursor *schedule.DateCursor

	coord *dnd.Coordinator
	ghost *dragGhost

	taskSource   *dnd.Source
	peopleSource *dnd.Source

	dayZones  map[string]*dnd.Zone
	zoneMonth string // "YYYY-MM" the day zones are built for

	// assignZone is the day-list pane: dropping an employee or crew on it
	// assigns the selected task.
	assignZone *dnd.Zone

	// grabID is the id of the task a grab gesture is about to drag; the task
	// source's disabled check reads it.
	grabID string
	// dropTaskID is the assignment an employee/crew drop applies to, set
	// from the day list's selection just before the drop is dispatched.
	dropTaskID string
	// hoverDate is the calendar day the drag currently hovers, "" when idle
	// or when the drag is over the day-list pane.
	hoverDate string

	status    string
	statusErr bool
	statusAt  time.Time
}

func newEngine(s store.Store, db *store.DB) *engine {
	eng := &engine{
		store:    s,
		db:       db,
		sched:    schedule.NewStore(),
		ghost:    &dragGhost{},
		coord:    dnd.NewCoordinator(),
		dayZones: map[string]*dnd.Zone{},
	}
	eng.syncer = schedule.NewSyncer(eng.sched, store.Collection{DB: db})
	eng.syncer.SyncIn()

	eng.cursor = schedule.NewDateCursor(db.CurrentDate)
	eng.cursor.SetMirror(func(d string) { eng.db.CurrentDate = d })

	eng.coord.SetSink(eng.ghost)

	eng.taskSource = dnd.NewSource(eng.coord, "day-list")
	eng.taskSource.DirectDrop = true
	eng.taskSource.Disabled = func() bool {
		a, ok := eng.sched.Find(eng.grabID)
		return ok && a.Completed
	}

	eng.peopleSource = dnd.NewSource(eng.coord, "people-list")

	eng.assignZone = dnd.NewZone(eng.coord, "day-list",
		[]model.EntityKind{model.KindEmployee, model.KindCrew}, 1000,
		func(it dnd.Item) { eng.assignDropped(it) })

	eng.rebuildZones(monthOf(eng.cursor.Current()))
	return eng
}

// rebuildZones mounts one drop zone per day of the visible month. Zones from
// a previously shown month are closed first.
func (eng *engine) rebuildZones(month string) {
	if eng.zoneMonth == month {
		return
	}
	for _, z := range eng.dayZones {
		z.Close()
	}
	eng.dayZones = map[string]*dnd.Zone{}
	eng.zoneMonth = month

	for i, date := range monthDates(month) {
		d := date
		eng.dayZones[d] = dnd.NewZone(eng.coord, "day:"+d,
			[]model.EntityKind{model.KindTask}, i,
			func(it dnd.Item) { eng.taskDropped(it, d) })
	}
}

func (eng *engine) taskDropped(it dnd.Item, date string) {
	a, moved := eng.sched.Move(it.ID, date)
	if !moved {
		return
	}
	eng.persist("task.move", a.ID, a)
	eng.setStatus(fmt.Sprintf("moved %q to %s", a.Title, date), false)
}

func (eng *engine) assignDropped(it dnd.Item) {
	id := eng.dropTaskID
	if id == "" {
		return
	}
	var p schedule.Patch
	v := it.ID
	switch it.Kind {
	case model.KindEmployee:
		p.AssigneeID = &v
	case model.KindCrew:
		p.CrewID = &v
	default:
		return
	}
	a, ok := eng.sched.Edit(id, p)
	if !ok {
		return
	}
	eng.persist("task.edit", a.ID, a)
	eng.setStatus(fmt.Sprintf("assigned %s to %q", eng.db.AssigneeLabel(a.AssigneeID, a.CrewID), a.Title), false)
}

// persist saves the workspace after a schedule mutation. The syncer has
// already mirrored the change into db.Tasks by the time this runs.
func (eng *engine) persist(eventType, entityID string, payload any) {
	if err := eng.store.Save(eng.db); err != nil {
		eng.setStatus(err.Error(), true)
		return
	}
	_ = eng.store.AppendEvent(eventType, entityID, payload)
}

func (eng *engine) setStatus(s string, isErr bool) {
	eng.status = s
	eng.statusErr = isErr
	eng.statusAt = time.Now()
}

// beginTaskDrag starts a drag session for the given assignment.
func (eng *engine) beginTaskDrag(a model.Assignment, origin dnd.Position) error {
	eng.grabID = a.ID
	item, err := dnd.NewItem(a.ID, model.KindTask, a)
	if err != nil {
		return err
	}
	if err := eng.taskSource.Begin(item, origin); err != nil {
		return err
	}
	eng.hoverDate = model.NormalizeDate(a.Date)
	if z := eng.dayZones[eng.hoverDate]; z != nil {
		z.Enter()
	}
	return nil
}

// beginPersonDrag starts a drag session for an employee or crew row and
// hovers the day-list pane, the only zone that takes people.
func (eng *engine) beginPersonDrag(kind model.EntityKind, id string, snapshot any, origin dnd.Position) error {
	item, err := dnd.NewItem(id, kind, snapshot)
	if err != nil {
		return err
	}
	if err := eng.peopleSource.Begin(item, origin); err != nil {
		return err
	}
	eng.hoverDate = ""
	eng.assignZone.Enter()
	return nil
}

// moveHover shifts a task drag's hovered day. Crossing a month boundary
// rebuilds the zone set for the new month and moves the shared date cursor
// with it.
func (eng *engine) moveHover(days int) {
	if eng.hoverDate == "" {
		return
	}
	next := shiftDate(eng.hoverDate, days)
	if next == eng.hoverDate {
		return
	}
	if z := eng.dayZones[eng.hoverDate]; z != nil {
		z.Leave()
	}
	if m := monthOf(next); m != eng.zoneMonth {
		eng.rebuildZones(m)
		eng.cursor.Set(next)
	}
	eng.hoverDate = next
	if z := eng.dayZones[next]; z != nil {
		z.Enter()
	}
	col, row := monthCell(next)
	eng.coord.UpdatePosition(col, row)
}

// dropOnHover dispatches the drop for the active session: task drags land on
// the hovered day zone, people drags on the day-list pane. The selected task
// id must already be staged in dropTaskID.
func (eng *engine) dropOnHover() {
	item, ok := eng.coord.Active()
	if !ok {
		return
	}
	tr, err := dnd.EncodeTransfer(item)
	if err != nil {
		eng.coord.Cancel()
		eng.setStatus(dnd.ErrMalformedPayload.Error(), true)
		return
	}

	var zone *dnd.Zone
	if item.Kind == model.KindTask {
		zone = eng.dayZones[eng.hoverDate]
	} else {
		zone = eng.assignZone
	}
	if zone == nil {
		eng.coord.Cancel()
		return
	}
	if _, err := zone.Drop(tr); err != nil {
		eng.setStatus(err.Error(), true)
	}
	eng.hoverDate = ""
}

func (eng *engine) cancelDrag() {
	if z := eng.dayZones[eng.hoverDate]; z != nil {
		z.Leave()
	}
	eng.hoverDate = ""
	eng.coord.Cancel()
}
