package tui

import (
	"fmt"
	"strings"

	"deskplan/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type assignmentItem struct {
	a        model.Assignment
	assignee string
	conflict bool
}

func (it assignmentItem) Title() string {
	var b strings.Builder
	if it.a.Completed {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	if it.a.StartTime != nil {
		b.WriteString(*it.a.StartTime)
		if it.a.EndTime != nil {
			b.WriteString("-" + *it.a.EndTime)
		}
		b.WriteString(" ")
	}
	b.WriteString(it.a.Title)
	if it.assignee != "" {
		b.WriteString(" @" + it.assignee)
	}
	if it.conflict {
		b.WriteString(" ‼")
	}
	return b.String()
}

func (it assignmentItem) Description() string { return it.a.Notes }
func (it assignmentItem) FilterValue() string { return it.a.Title }

type personItem struct {
	kind model.EntityKind
	id   string
	name string
	meta string
}

func (it personItem) Title() string {
	tag := "emp"
	if it.kind == model.KindCrew {
		tag = "crew"
	}
	if it.meta != "" {
		return fmt.Sprintf("%s %s (%s)", tag, it.name, it.meta)
	}
	return fmt.Sprintf("%s %s", tag, it.name)
}

func (it personItem) Description() string { return it.id }
func (it personItem) FilterValue() string { return it.name }

func newList(items []list.Item) list.Model {
	l := list.New(items, newCompactDelegate(), 0, 0)
	// The app renders its own chrome; keep the list minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// ESC is cancel/back here, never quit.
	l.KeyMap.Quit.SetKeys("ctrl+c")
	return l
}

func selectListItemByID(l *list.Model, id string) {
	for i, raw := range l.Items() {
		switch it := raw.(type) {
		case assignmentItem:
			if it.a.ID == id {
				l.Select(i)
				return
			}
		case personItem:
			if it.id == id {
				l.Select(i)
				return
			}
		}
	}
}
