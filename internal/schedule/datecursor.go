package schedule

import (
	"time"

	"deskplan/internal/model"
)

// DateCursor is the single authoritative "current date" shared by the
// calendar grid, list filters and edit dialogs. Views call Set instead of
// keeping an independent copy; the value is mirrored into the surrounding
// application through the mirror hook.
//
// Comparison is date-only: setting a value that normalizes to the currently
// selected day is a no-op, so reads echoed back from different sources never
// cause update loops.
type DateCursor struct {
	current string
	subs    []func(string)
	mirror  func(string)
}

// NewDateCursor starts at the given date, falling back to today when the
// input is empty or unparseable.
func NewDateCursor(initial string) *DateCursor {
	d := model.NormalizeDate(initial)
	if _, err := time.Parse("2006-01-02", d); err != nil {
		d = time.Now().Format("2006-01-02")
	}
	return &DateCursor{current: d}
}

func (c *DateCursor) Current() string { return c.current }

// SetMirror installs the hook that pushes the shared date into the
// surrounding application's own "current date" field.
func (c *DateCursor) SetMirror(fn func(string)) { c.mirror = fn }

// Subscribe registers a change listener; it fires only on actual day changes.
func (c *DateCursor) Subscribe(fn func(string)) {
	c.subs = append(c.subs, fn)
}

// Set moves the cursor to the given day. Reports whether the day actually
// changed; same-day and unparseable inputs are no-ops.
func (c *DateCursor) Set(d string) bool {
	d = model.NormalizeDate(d)
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return false
	}
	if d == c.current {
		return false
	}
	c.current = d
	if c.mirror != nil {
		c.mirror(d)
	}
	for _, fn := range c.subs {
		fn(d)
	}
	return true
}

// Shift moves the cursor by the given number of days.
func (c *DateCursor) Shift(days int) bool {
	t, err := time.Parse("2006-01-02", c.current)
	if err != nil {
		return false
	}
	return c.Set(t.AddDate(0, 0, days).Format("2006-01-02"))
}
