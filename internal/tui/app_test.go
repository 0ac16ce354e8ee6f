package tui

import (
	"strings"
	"testing"

	"deskplan/internal/model"
	"deskplan/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func testModel(t *testing.T, db *store.DB) appModel {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	return newAppModel(s, db)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(appModel)
	}
	return m
}

func TestKeyboardDragMovesTask(t *testing.T) {
	db := &store.DB{
		CurrentDate: "2025-06-02",
		Tasks: []model.Task{
			{ID: "task-1", Text: "Install shelving", Date: "2025-06-02"},
		},
	}
	m := testModel(t, db)

	m = press(t, m, "g")
	if !m.eng.coord.IsDragging() {
		t.Fatalf("expected drag session after grab")
	}
	if !m.eng.ghost.visible {
		t.Fatalf("expected drag ghost while dragging")
	}
	if m.eng.hoverDate != "2025-06-02" {
		t.Fatalf("hover = %q, want origin day", m.eng.hoverDate)
	}

	m = press(t, m, "right", "enter")

	if m.eng.coord.IsDragging() {
		t.Fatalf("session should resolve to idle after drop")
	}
	if m.eng.ghost.visible {
		t.Fatalf("ghost should be gone after drop")
	}
	a, ok := m.eng.sched.Find("task-1")
	if !ok || a.Date != "2025-06-03" {
		t.Fatalf("task date = %q, want 2025-06-03", a.Date)
	}
	if db.Tasks[0].Date != "2025-06-03" {
		t.Fatalf("external task date = %q, want synced 2025-06-03", db.Tasks[0].Date)
	}
	if z := m.eng.dayZones["2025-06-03"]; z == nil || !z.Flashing() {
		t.Fatalf("receiving day should flash after drop")
	}
}

func TestEscCancelsDrag(t *testing.T) {
	db := &store.DB{
		CurrentDate: "2025-06-02",
		Tasks: []model.Task{
			{ID: "task-1", Text: "Install shelving", Date: "2025-06-02"},
		},
	}
	m := testModel(t, db)

	m = press(t, m, "g", "right", "esc")

	if m.eng.coord.IsDragging() {
		t.Fatalf("cancel should end the session")
	}
	a, _ := m.eng.sched.Find("task-1")
	if a.Date != "2025-06-02" {
		t.Fatalf("cancelled drag must not move the task, got %q", a.Date)
	}
	if db.Tasks[0].Date != "2025-06-02" {
		t.Fatalf("external collection changed on cancel")
	}
}

func TestCompletedTaskCannotBeDragged(t *testing.T) {
	db := &store.DB{
		CurrentDate: "2025-06-02",
		Tasks: []model.Task{
			{ID: "task-1", Text: "Install shelving", Date: "2025-06-02", Completed: true},
		},
	}
	m := testModel(t, db)

	m = press(t, m, "g")

	if m.eng.coord.IsDragging() {
		t.Fatalf("completed task must not start a session")
	}
	if !m.eng.statusErr {
		t.Fatalf("expected an error status, got %q", m.eng.status)
	}
}

func TestPersonDragAssignsSelectedTask(t *testing.T) {
	db := &store.DB{
		CurrentDate: "2025-06-02",
		Tasks: []model.Task{
			{ID: "task-1", Text: "Install shelving", Date: "2025-06-02"},
		},
		Employees: []model.Employee{
			{ID: "emp-1", Name: "Dana"},
		},
	}
	m := testModel(t, db)
	m.pane = panePeople

	m = press(t, m, "g")
	if !m.eng.coord.IsDragging() {
		t.Fatalf("expected drag session for employee row")
	}

	m = press(t, m, "enter")

	a, _ := m.eng.sched.Find("task-1")
	if a.AssigneeID == nil || *a.AssigneeID != "emp-1" {
		t.Fatalf("assignee = %v, want emp-1", a.AssigneeID)
	}
	if db.Tasks[0].AssigneeID == nil || *db.Tasks[0].AssigneeID != "emp-1" {
		t.Fatalf("assignment did not sync to the external collection")
	}
}

func TestAddDialogCreatesTaskOnSelectedDay(t *testing.T) {
	db := &store.DB{CurrentDate: "2025-06-02"}
	m := testModel(t, db)

	m = press(t, m, "a")
	if m.dialog == nil {
		t.Fatalf("expected add dialog")
	}
	m = press(t, m, "Fix door | 09:00-10:30", "enter")

	if m.dialog != nil {
		t.Fatalf("dialog should close on submit")
	}
	day := m.eng.sched.On("2025-06-02")
	if len(day) != 1 {
		t.Fatalf("got %d tasks, want 1", len(day))
	}
	a := day[0]
	if a.Title != "Fix door" {
		t.Fatalf("title = %q", a.Title)
	}
	if a.StartTime == nil || *a.StartTime != "09:00" || a.EndTime == nil || *a.EndTime != "10:30" {
		t.Fatalf("times not parsed: %v %v", a.StartTime, a.EndTime)
	}
	if len(db.Tasks) != 1 || db.Tasks[0].Text != "Fix door" {
		t.Fatalf("task did not sync out to the external collection")
	}
}

func TestCalendarRendersMonth(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	db := &store.DB{
		CurrentDate: "2025-06-02",
		Tasks: []model.Task{
			{ID: "task-1", Text: "Install shelving", Date: "2025-06-02"},
		},
	}
	m := testModel(t, db)

	out := m.renderCalendar(40)
	if !strings.Contains(out, "June 2025") {
		t.Fatalf("missing month header:\n%s", out)
	}
	if !strings.Contains(out, "Mo") || !strings.Contains(out, "Su") {
		t.Fatalf("missing weekday row:\n%s", out)
	}
}

func TestParseQuickEntry(t *testing.T) {
	cases := []struct {
		in                string
		title, start, end string
	}{
		{"Fix door", "Fix door", "", ""},
		{"Fix door | 09:00-10:30", "Fix door", "09:00", "10:30"},
		{"Fix door | 09:00", "Fix door", "09:00", ""},
		{"  Fix door  |  09:00 - 10:30 ", "Fix door", "09:00", "10:30"},
	}
	for _, tc := range cases {
		title, start, end := parseQuickEntry(tc.in)
		if title != tc.title || start != tc.start || end != tc.end {
			t.Fatalf("parseQuickEntry(%q) = %q/%q/%q", tc.in, title, start, end)
		}
	}
}
