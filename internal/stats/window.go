package stats

import "time"

// DateLayout is the canonical date representation used across the engine.
const DateLayout = "2006-01-02"

// WindowKind selects how a reporting window is derived from a reference date.
type WindowKind string

const (
	// KindToday is the single reference day.
	KindToday WindowKind = "today"
	// KindThisWeek runs Monday through Sunday around the reference day.
	KindThisWeek WindowKind = "this-week"
	// KindMonthToDate runs from the first of the month through the reference
	// day itself. Used for running revenue figures.
	KindMonthToDate WindowKind = "month-to-date"
	// KindFullMonth runs from the first through the last day of the
	// reference month. Used for closed monthly reports.
	KindFullMonth WindowKind = "full-month"
	// KindCustom uses the caller-supplied bounds.
	KindCustom WindowKind = "custom"
)

// Window is an inclusive calendar-date range. Both bounds are normalized to
// midnight UTC; no time-of-day component survives.
type Window struct {
	Start time.Time
	End   time.Time
}

// BuildWindow derives the inclusive [start, end] window for kind around the
// reference date. customStart and customEnd are consulted only for
// KindCustom; an inverted custom range collapses to [customStart,
// customStart] instead of failing.
func BuildWindow(kind WindowKind, reference time.Time, customStart, customEnd time.Time) Window {
	ref := Day(reference)
	switch kind {
	case KindThisWeek:
		// time.Weekday puts Sunday first; shift so Monday opens the week.
		offset := (int(ref.Weekday()) + 6) % 7
		start := ref.AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 6)}
	case KindMonthToDate:
		return Window{Start: firstOfMonth(ref), End: ref}
	case KindFullMonth:
		first := firstOfMonth(ref)
		return Window{Start: first, End: first.AddDate(0, 1, -1)}
	case KindCustom:
		start := Day(customStart)
		end := Day(customEnd)
		if end.Before(start) {
			end = start
		}
		return Window{Start: start, End: end}
	default: // KindToday
		return Window{Start: ref, End: ref}
	}
}

// Contains reports whether the date falls inside the window, bounds included.
func (w Window) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Day normalizes a timestamp to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
