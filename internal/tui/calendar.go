package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Date helpers for the month grid. All inputs are "YYYY-MM-DD" strings; the
// grid runs Monday-first.

func monthOf(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

func monthDates(month string) []string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil
	}
	var out []string
	for d := t; d.Month() == t.Month(); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func shiftDate(date string, days int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}

func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// monthCell returns the (column, row) of a date in its month grid.
func monthCell(date string) (int, int) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, 0
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	idx := mondayIndex(first) + t.Day() - 1
	return idx % 7, idx / 7
}

// renderCalendar draws the month grid for the cursor's month. Each day cell
// is a drop zone; hover and flash highlights come straight from the zones.
func (m appModel) renderCalendar(width int) string {
	eng := m.eng
	cur := eng.cursor.Current()
	monthStart, err := time.Parse("2006-01", monthOf(cur))
	if err != nil {
		return ""
	}
	today := time.Now().Format("2006-01-02")

	titleStyle := lipgloss.NewStyle().Bold(true)
	header := titleStyle.Render(monthStart.Format("January 2006"))
	weekdays := styleMuted().Render(" Mo  Tu  We  Th  Fr  Sa  Su")

	cellNormal := lipgloss.NewStyle()
	cellMuted := styleMuted()
	cellSelected := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	cellToday := lipgloss.NewStyle().Foreground(colorTodayFg).Bold(true)
	cellHover := lipgloss.NewStyle().Background(colorHoverBg).Bold(true)
	cellFlash := lipgloss.NewStyle().Background(colorFlashBg).Bold(true)

	var rows []string
	var row strings.Builder
	row.WriteString(strings.Repeat("    ", mondayIndex(monthStart)))

	for d := monthStart; d.Month() == monthStart.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		n := len(eng.sched.On(date))

		marker := " "
		if n > 0 {
			marker = "·"
			if n > 3 {
				marker = "•"
			}
		}
		cell := fmt.Sprintf("%2d%s", d.Day(), marker)

		style := cellNormal
		if n == 0 {
			style = cellMuted
		}
		if date == today {
			style = cellToday
		}
		if date == cur {
			style = cellSelected
		}
		if z := eng.dayZones[date]; z != nil {
			if z.Hovered() {
				style = cellHover
			}
			if z.Flashing() {
				style = cellFlash
			}
		}

		row.WriteString(style.Render(cell) + " ")
		if mondayIndex(d) == 6 {
			rows = append(rows, row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		rows = append(rows, row.String())
	}

	grid := strings.Join(rows, "\n")
	return lipgloss.NewStyle().Width(width).Render(header + "\n" + weekdays + "\n" + grid)
}
