package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"deskplan/internal/dnd"
	"deskplan/internal/model"
	"deskplan/internal/schedule"
	"deskplan/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pane int

const (
	paneCalendar pane = iota
	paneDay
	panePeople
)

type reloadTickMsg struct{}

type appModel struct {
	eng *engine

	width  int
	height int

	pane   pane
	dialog *taskDialog

	dayList    list.Model
	peopleList list.Model

	lastDBModTime time.Time
}

func newAppModel(s store.Store, db *store.DB) appModel {
	m := appModel{eng: newEngine(s, db), pane: paneDay}
	m.dayList = newList(nil)
	m.peopleList = newList(nil)
	m.refreshDayList()
	m.refreshPeopleList()
	m.captureStoreModTime()
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	eng := m.eng

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case reloadTickMsg:
		if m.storeChanged() {
			m.reloadFromDisk()
		}
		return m, tickReload()

	case tea.KeyMsg:
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		if eng.coord.IsDragging() {
			return m.updateDrag(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			// Persist the mirrored selected date on the way out.
			_ = eng.store.Save(eng.db)
			return m, tea.Quit

		case "tab":
			m.pane = (m.pane + 1) % 3
			return m, nil

		case "r":
			m.reloadFromDisk()
			return m, nil

		case "left", "h":
			if m.pane == paneCalendar {
				m.shiftCursor(-1)
				return m, nil
			}
		case "right", "l":
			if m.pane == paneCalendar {
				m.shiftCursor(1)
				return m, nil
			}
		case "up", "k":
			if m.pane == paneCalendar {
				m.shiftCursor(-7)
				return m, nil
			}
		case "down", "j":
			if m.pane == paneCalendar {
				m.shiftCursor(7)
				return m, nil
			}
		case "[":
			m.shiftCursor(-monthLen(eng.cursor.Current()))
			return m, nil
		case "]":
			m.shiftCursor(monthLen(eng.cursor.Current()))
			return m, nil
		case "t":
			if eng.cursor.Set(time.Now().Format("2006-01-02")) {
				eng.rebuildZones(monthOf(eng.cursor.Current()))
				m.refreshDayList()
			}
			return m, nil

		case "g":
			m.grab()
			return m, nil

		case "x", " ":
			if m.pane == paneDay {
				if it, ok := m.dayList.SelectedItem().(assignmentItem); ok {
					if a, ok := eng.sched.ToggleCompletion(it.a.ID); ok {
						eng.persist("task.toggle", a.ID, a)
						m.refreshDayList()
					}
				}
				return m, nil
			}

		case "a":
			m.dialog = newTaskDialog(dialogAdd, "", "")
			return m, nil

		case "e":
			if it, ok := m.dayList.SelectedItem().(assignmentItem); ok {
				m.dialog = newTaskDialog(dialogEditTitle, it.a.ID, it.a.Title)
			}
			return m, nil

		case "d":
			if m.pane == paneDay {
				if it, ok := m.dayList.SelectedItem().(assignmentItem); ok {
					if eng.sched.Remove(it.a.ID) {
						eng.persist("task.rm", it.a.ID, nil)
						m.refreshDayList()
					}
				}
				return m, nil
			}
		}
	}

	switch m.pane {
	case paneDay:
		var cmd tea.Cmd
		m.dayList, cmd = m.dayList.Update(msg)
		return m, cmd
	case panePeople:
		var cmd tea.Cmd
		m.peopleList, cmd = m.peopleList.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// grab begins a drag session from the focused pane's selection.
func (m *appModel) grab() {
	eng := m.eng
	switch m.pane {
	case paneDay:
		it, ok := m.dayList.SelectedItem().(assignmentItem)
		if !ok {
			return
		}
		col, row := monthCell(model.NormalizeDate(it.a.Date))
		if err := eng.beginTaskDrag(it.a, dnd.Position{X: col, Y: row}); err != nil {
			eng.setStatus(err.Error(), true)
		}
	case panePeople:
		it, ok := m.peopleList.SelectedItem().(personItem)
		if !ok {
			return
		}
		var snap any
		switch it.kind {
		case model.KindEmployee:
			if e, ok := eng.db.FindEmployee(it.id); ok {
				snap = e
			}
		case model.KindCrew:
			if c, ok := eng.db.FindCrew(it.id); ok {
				snap = c
			}
		}
		if err := eng.beginPersonDrag(it.kind, it.id, snap, dnd.Position{}); err != nil {
			eng.setStatus(err.Error(), true)
		}
	}
}

func (m appModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := m.eng
	switch msg.String() {
	case "left", "h":
		eng.moveHover(-1)
	case "right", "l":
		eng.moveHover(1)
	case "up", "k":
		eng.moveHover(-7)
	case "down", "j":
		eng.moveHover(7)
	case "enter":
		if it, ok := m.dayList.SelectedItem().(assignmentItem); ok {
			eng.dropTaskID = it.a.ID
		} else {
			eng.dropTaskID = ""
		}
		eng.dropOnHover()
		m.refreshDayList()
	case "esc":
		eng.cancelDrag()
	case "ctrl+c":
		eng.cancelDrag()
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := m.eng
	switch msg.String() {
	case "esc":
		m.dialog = nil
		return m, nil
	case "enter":
		title, start, end := parseQuickEntry(m.dialog.input.Value())
		if title == "" {
			m.dialog = nil
			return m, nil
		}
		switch m.dialog.mode {
		case dialogAdd:
			a := model.Assignment{
				ID:    eng.store.NextID(eng.db, "task"),
				Title: title,
				Date:  eng.cursor.Current(),
			}
			if start != "" {
				a.StartTime = &start
			}
			if end != "" {
				a.EndTime = &end
			}
			a = eng.sched.Add(a)
			eng.persist("task.add", a.ID, a)
		case dialogEditTitle:
			if a, ok := eng.sched.Edit(m.dialog.taskID, schedule.Patch{Title: &title}); ok {
				eng.persist("task.edit", a.ID, a)
			}
		}
		m.dialog = nil
		m.refreshDayList()
		return m, nil
	}

	var cmd tea.Cmd
	m.dialog.input, cmd = m.dialog.input.Update(msg)
	return m, cmd
}

func (m *appModel) shiftCursor(days int) {
	eng := m.eng
	if eng.cursor.Shift(days) {
		eng.rebuildZones(monthOf(eng.cursor.Current()))
		m.refreshDayList()
	}
}

func (m *appModel) refreshDayList() {
	eng := m.eng
	curID := ""
	if it, ok := m.dayList.SelectedItem().(assignmentItem); ok {
		curID = it.a.ID
	}

	day := eng.sched.On(eng.cursor.Current())
	var items []list.Item
	for _, a := range day {
		items = append(items, assignmentItem{
			a:        a,
			assignee: eng.db.AssigneeLabel(a.AssigneeID, a.CrewID),
			conflict: len(schedule.DetectConflicts(a, day)) > 0,
		})
	}
	m.dayList.SetItems(items)
	if curID != "" {
		selectListItemByID(&m.dayList, curID)
	}
}

func (m *appModel) refreshPeopleList() {
	eng := m.eng
	curID := ""
	if it, ok := m.peopleList.SelectedItem().(personItem); ok {
		curID = it.id
	}

	var items []list.Item
	for _, e := range eng.db.Employees {
		if e.Archived {
			continue
		}
		items = append(items, personItem{kind: model.KindEmployee, id: e.ID, name: e.Name, meta: e.Role})
	}
	for _, c := range eng.db.Crews {
		if c.Archived {
			continue
		}
		items = append(items, personItem{kind: model.KindCrew, id: c.ID, name: c.Name, meta: fmt.Sprintf("%d members", len(c.MemberIDs))})
	}
	m.peopleList.SetItems(items)
	if curID != "" {
		selectListItemByID(&m.peopleList, curID)
	}
}

func (m *appModel) resizeLists() {
	h := m.height - 14
	if h < 6 {
		h = 6
	}
	w := m.width/2 - 2
	if w < 30 {
		w = 30
	}
	m.dayList.SetSize(w, h)
	m.peopleList.SetSize(w, 8)
}

func (m *appModel) captureStoreModTime() {
	m.lastDBModTime = fileModTime(filepath.Join(m.eng.store.Dir, "deskplan.sqlite"))
}

func (m *appModel) storeChanged() bool {
	return fileModTime(filepath.Join(m.eng.store.Dir, "deskplan.sqlite")).After(m.lastDBModTime)
}

func fileModTime(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

// reloadFromDisk picks up writes made by CLI commands in another terminal.
// The DB snapshot is replaced in place so the syncer's collection keeps
// pointing at it, then the inbound sync path reconciles the schedule store.
func (m *appModel) reloadFromDisk() {
	eng := m.eng
	db, err := eng.store.Load()
	if err != nil {
		eng.setStatus(err.Error(), true)
		return
	}
	*eng.db = *db
	eng.syncer.SyncIn()
	if eng.db.CurrentDate != "" {
		if eng.cursor.Set(eng.db.CurrentDate) {
			eng.rebuildZones(monthOf(eng.cursor.Current()))
		}
	}
	m.refreshDayList()
	m.refreshPeopleList()
	m.captureStoreModTime()
}

func monthLen(date string) int {
	return len(monthDates(monthOf(date)))
}

func (m appModel) View() string {
	eng := m.eng

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("DeskPlan  %s  %s", eng.store.Dir, eng.cursor.Current()))

	ghostLine := ""
	if eng.ghost.visible {
		ghostLine = lipgloss.NewStyle().
			Background(colorGhostBg).
			Padding(0, 1).
			Render("⠿ " + eng.ghost.label)
		ghostLine += styleMuted().Render("  arrows: aim  enter: drop  esc: cancel")
	}

	leftW := m.width / 2
	if leftW < 34 {
		leftW = 34
	}
	rightW := m.width - leftW - 2
	if rightW < 30 {
		rightW = 30
	}

	left := m.renderCalendar(leftW) + "\n\n" +
		m.paneTitle("People", panePeople) + "\n" + m.peopleList.View()

	right := m.paneTitle(m.dayTitle(), paneDay) + "\n" + m.dayList.View()
	if detail := m.renderDetail(rightW); detail != "" {
		right += "\n\n" + detail
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(leftW).Render(left),
		lipgloss.NewStyle().Width(rightW).Render(right))

	if m.dialog != nil {
		body += "\n\n" + m.dialog.view(m.width)
	}

	status := ""
	if eng.status != "" {
		st := styleMuted()
		if eng.statusErr {
			st = lipgloss.NewStyle().Foreground(colorErrorFg).Bold(true)
		}
		status = st.Render(eng.status)
	}
	help := styleMuted().Render("tab: pane  g: grab  x: done  a: add  e: rename  d: delete  [/]: month  t: today  q: quit")

	parts := []string{header}
	if ghostLine != "" {
		parts = append(parts, ghostLine)
	}
	parts = append(parts, body)
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, help)
	return strings.Join(parts, "\n\n")
}

func (m appModel) paneTitle(title string, p pane) string {
	st := lipgloss.NewStyle().Bold(true)
	if m.pane == p {
		st = st.Foreground(colorAccent)
	}
	return st.Render(title)
}

func (m appModel) dayTitle() string {
	cur := m.eng.cursor.Current()
	t, err := time.Parse("2006-01-02", cur)
	if err != nil {
		return cur
	}
	n := len(m.eng.sched.On(cur))
	noun := "tasks"
	if n == 1 {
		noun = "task"
	}
	return fmt.Sprintf("%s  (%d %s)", t.Format("Mon Jan 2"), n, noun)
}

func (m appModel) renderDetail(width int) string {
	it, ok := m.dayList.SelectedItem().(assignmentItem)
	if !ok {
		return ""
	}
	a := it.a

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(a.Title) + "\n")
	if a.StartTime != nil || a.EndTime != nil {
		span := ""
		if a.StartTime != nil {
			span = *a.StartTime
		}
		if a.EndTime != nil {
			span += "-" + *a.EndTime
		}
		b.WriteString(styleMuted().Render(span) + "\n")
	}
	if it.assignee != "" {
		b.WriteString("assigned: " + it.assignee + "\n")
	}
	if a.ClientID != nil {
		if c, ok := m.eng.db.FindClient(*a.ClientID); ok {
			b.WriteString("client: " + c.Name + "\n")
		}
	}
	if it.conflict {
		hits := schedule.DetectConflicts(a, m.eng.sched.On(a.Date))
		for _, h := range hits {
			b.WriteString(lipgloss.NewStyle().Foreground(colorErrorFg).Render("overlaps: "+h.Title) + "\n")
		}
	}
	if a.Notes != "" {
		b.WriteString(renderMarkdown(a.Notes, width))
	}
	return strings.TrimRight(b.String(), "\n")
}
