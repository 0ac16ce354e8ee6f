package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type dialogMode int

const (
	dialogAdd dialogMode = iota
	dialogEditTitle
)

// taskDialog is the single-line quick entry used for adding tasks and
// renaming them. Add syntax: "Title | 09:00-10:30" (times optional).
type taskDialog struct {
	mode   dialogMode
	taskID string
	input  textinput.Model
}

func newTaskDialog(mode dialogMode, taskID, initial string) *taskDialog {
	in := textinput.New()
	in.Placeholder = "Title | 09:00-10:30"
	in.SetValue(initial)
	in.CursorEnd()
	in.Focus()
	in.CharLimit = 200
	in.Width = 60
	return &taskDialog{mode: mode, taskID: taskID, input: in}
}

func (d *taskDialog) view(width int) string {
	label := "Add task"
	if d.mode == dialogEditTitle {
		label = "Rename task"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(min(width-4, 68))
	return box.Render(lipgloss.NewStyle().Bold(true).Render(label) + "\n" + d.input.View())
}

// parseQuickEntry splits "Title | HH:MM-HH:MM" into its parts. A missing or
// malformed time segment leaves both times empty.
func parseQuickEntry(s string) (title, start, end string) {
	title = strings.TrimSpace(s)
	i := strings.LastIndex(s, "|")
	if i < 0 {
		return title, "", ""
	}
	title = strings.TrimSpace(s[:i])
	span := strings.TrimSpace(s[i+1:])
	from, to, ok := strings.Cut(span, "-")
	if !ok {
		return title, strings.TrimSpace(span), ""
	}
	return title, strings.TrimSpace(from), strings.TrimSpace(to)
}
