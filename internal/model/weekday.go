package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used everywhere a date is stored
// as text (task creation dates, encoded cell headers).
const DateLayout = "2006-01-02"

// Weekday is a business-day column of the weekly grid. The grid has no
// weekend columns.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

var weekdays = [...]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Column returns the grid column index for this weekday (Monday=0 … Friday=4).
func (d Weekday) Column() int {
	for i, w := range weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

func (d Weekday) Valid() bool { return d.Column() >= 0 }

func (d Weekday) String() string { return string(d) }

// WeekdayFromColumn returns the weekday for a grid column index.
func WeekdayFromColumn(col int) (Weekday, bool) {
	if col < 0 || col >= len(weekdays) {
		return "", false
	}
	return weekdays[col], true
}

// ParseWeekday converts a stored weekday name back to a Weekday.
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", false
	}
	return d, true
}

// WeekdayForDate maps a calendar date onto a grid column weekday.
// Returns false for Saturday and Sunday.
func WeekdayForDate(t time.Time) (Weekday, bool) {
	switch t.Weekday() {
	case time.Monday:
		return Monday, true
	case time.Tuesday:
		return Tuesday, true
	case time.Wednesday:
		return Wednesday, true
	case time.Thursday:
		return Thursday, true
	case time.Friday:
		return Friday, true
	default:
		return "", false
	}
}

// Status is a kanban column on the board.
type Status string

const (
	StatusTodo  Status = "to-do"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts a stored status back to a Status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", false
	}
	return st, true
}

// Origin records how a board task came to exist.
type Origin string

const (
	OriginManual   Origin = "manual"
	OriginSchedule Origin = "schedule"
)

// Priority levels run 0 (critical) through 3 (low).
const (
	PriorityCritical = 0
	PriorityLow      = 3

	DefaultPriority = PriorityLow
)

// ClampPriority folds out-of-range priorities back to the default.
func ClampPriority(p int) int {
	if p < PriorityCritical || p > PriorityLow {
		return DefaultPriority
	}
	return p
}
