package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildWindow(t *testing.T) {
	// 2026-03-17 is a Tuesday.
	ref := time.Date(2026, 3, 17, 14, 30, 12, 0, time.UTC)

	tests := []struct {
		name       string
		kind       WindowKind
		start, end time.Time
		want       Window
	}{
		{
			name: "today collapses to the reference day",
			kind: KindToday,
			want: Window{Start: date(2026, 3, 17), End: date(2026, 3, 17)},
		},
		{
			name: "this week runs monday through sunday",
			kind: KindThisWeek,
			want: Window{Start: date(2026, 3, 16), End: date(2026, 3, 22)},
		},
		{
			name: "month to date ends on the reference day",
			kind: KindMonthToDate,
			want: Window{Start: date(2026, 3, 1), End: date(2026, 3, 17)},
		},
		{
			name: "full month covers the whole reference month",
			kind: KindFullMonth,
			want: Window{Start: date(2026, 3, 1), End: date(2026, 3, 31)},
		},
		{
			name:  "custom keeps the supplied bounds",
			kind:  KindCustom,
			start: date(2026, 2, 10),
			end:   date(2026, 2, 20),
			want:  Window{Start: date(2026, 2, 10), End: date(2026, 2, 20)},
		},
		{
			name:  "inverted custom collapses to the start day",
			kind:  KindCustom,
			start: date(2026, 2, 20),
			end:   date(2026, 2, 10),
			want:  Window{Start: date(2026, 2, 20), End: date(2026, 2, 20)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildWindow(tc.kind, ref, tc.start, tc.end))
		})
	}
}

func TestBuildWindowWeekStartOnSunday(t *testing.T) {
	// A Sunday reference still belongs to the week that opened the Monday
	// before it.
	sunday := date(2026, 3, 22)
	got := BuildWindow(KindThisWeek, sunday, time.Time{}, time.Time{})
	assert.Equal(t, Window{Start: date(2026, 3, 16), End: date(2026, 3, 22)}, got)
}

func TestBuildWindowFullMonthFebruary(t *testing.T) {
	got := BuildWindow(KindFullMonth, date(2024, 2, 10), time.Time{}, time.Time{})
	assert.Equal(t, date(2024, 2, 29), got.End, "leap February")

	got = BuildWindow(KindFullMonth, date(2026, 2, 10), time.Time{}, time.Time{})
	assert.Equal(t, date(2026, 2, 28), got.End)
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: date(2026, 3, 10), End: date(2026, 3, 20)}

	assert.True(t, w.Contains(date(2026, 3, 10)), "start bound is inclusive")
	assert.True(t, w.Contains(date(2026, 3, 20)), "end bound is inclusive")
	assert.True(t, w.Contains(time.Date(2026, 3, 20, 23, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(date(2026, 3, 9)))
	assert.False(t, w.Contains(date(2026, 3, 21)))
}

func TestDayAndSameDay(t *testing.T) {
	stamp := time.Date(2026, 3, 17, 22, 15, 3, 500, time.UTC)
	assert.Equal(t, date(2026, 3, 17), Day(stamp))
	assert.True(t, Day(time.Time{}).IsZero())

	assert.True(t, SameDay(stamp, date(2026, 3, 17)))
	assert.False(t, SameDay(stamp, date(2026, 3, 18)))
}
