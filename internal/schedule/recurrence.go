package schedule

import "time"

// IsDue reports whether an activity with the given recurrence and creation
// date occurs on target. Pure function of its inputs; only the calendar date
// portion of the arguments matters.
//
// An activity never occurs before its creation date, whatever the weekday
// math says. Unknown recurrence kinds are never due: failing closed beats
// flooding the board on malformed input.
func IsDue(target time.Time, r Recurrence, createdOn time.Time) bool {
	target = dateOf(target)
	createdOn = dateOf(createdOn)

	if target.Before(createdOn) {
		return false
	}

	first := firstOccurrence(createdOn, target.Weekday())

	switch r {
	case Once:
		return target.Equal(first)

	case Daily:
		// Business days only; the weekday column does not constrain Daily.
		return isBusinessDay(target)

	case Weekly:
		return !target.Before(first)

	case Biweekly:
		if target.Before(first) {
			return false
		}
		weeks := daysBetween(first, target) / 7
		return weeks%2 == 0

	case Monthly:
		if target.Before(first) {
			return false
		}
		return weekOfMonth(first) == weekOfMonth(target)

	default:
		return false
	}
}

// firstOccurrence is the earliest date >= createdOn falling on weekday. In
// practice a template cell's creation date already sits on its column's
// weekday, but the math stays general.
func firstOccurrence(createdOn time.Time, weekday time.Weekday) time.Time {
	delta := (int(weekday) - int(createdOn.Weekday()) + 7) % 7
	return createdOn.AddDate(0, 0, delta)
}

// weekOfMonth is the week ordinal of d's weekday within d's month: 0 for the
// first Monday/Tuesday/…, 1 for the second, and so on. Counted from the
// first occurrence of that weekday in the month, so it does not depend on
// which weekday the month starts on.
func weekOfMonth(d time.Time) int {
	firstOfMonth := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	firstSameWeekday := firstOccurrence(firstOfMonth, d.Weekday())
	return daysBetween(firstSameWeekday, d) / 7
}

func isBusinessDay(d time.Time) bool {
	// Hard-coded Monday-Friday; no holiday calendar.
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
