/*
Package calendar provides day-level date arithmetic for the planner.

PURPOSE:
  Everything in this system reasons about calendar days, never about
  clock times. This package pins every date to midnight UTC and exposes
  value-semantic arithmetic: a Day is never mutated, every operation
  returns a new Day.

KEY CONCEPTS:
  - Day: A single calendar day (midnight UTC)
  - DaySet: Membership set keyed by Day.Key()
  - WeekendSet: Which weekdays count as the weekend

DESIGN PRINCIPLES:
  1. Value semantics: date transformations return new values
  2. Day granularity: two timestamps on the same day are the same Day
  3. Explicit month clamping: "Jan 31 + 1 month" is Feb 28/29, never
     March 2 (native time.AddDate overflow is deliberately avoided)

SEE ALSO:
  - pto: uses Day for transaction dates and ledger keys
  - optimize: uses Day, DaySet and WeekendSet for calendar scans
*/
package calendar

import (
	"time"
)

// =============================================================================
// DAY - A calendar day at midnight UTC
// =============================================================================

type Day struct {
	t time.Time
}

// NewDay constructs a Day from components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an arbitrary timestamp to its calendar day.
func FromTime(t time.Time) Day {
	return Day{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseKey parses a YYYY-MM-DD ledger key back into a Day.
func ParseKey(key string) (Day, error) {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return Day{}, err
	}
	return FromTime(t), nil
}

// Today returns the current calendar day.
func Today() Day {
	return FromTime(time.Now())
}

// Comparison
func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.t.After(other.t) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.t.Before(other.t) }

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Arithmetic
func (d Day) AddDays(n int) Day  { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) AddYears(n int) Day { return Day{t: d.t.AddDate(n, 0, 0)} }

// WithDayOfMonth returns the same month pinned to dayOfMonth, clamped
// to the last day of the month when the month is shorter.
func (d Day) WithDayOfMonth(dayOfMonth int) Day {
	if max := DaysInMonth(d.Year(), d.Month()); dayOfMonth > max {
		dayOfMonth = max
	}
	return NewDay(d.Year(), d.Month(), dayOfMonth)
}

// AddMonths advances n months keeping the day-of-month, clamping to the
// last day of the target month instead of rolling over. This is the one
// place native AddDate behavior would be wrong: Jan 31 + 1 month must
// be Feb 28/29, not Mar 2/3.
func (d Day) AddMonths(n int) Day {
	year, month := d.Year(), int(d.Month())+n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	return NewDay(year, time.Month(month), 1).WithDayOfMonth(d.DayOfMonth())
}

// Properties
func (d Day) Year() int              { return d.t.Year() }
func (d Day) Month() time.Month      { return d.t.Month() }
func (d Day) DayOfMonth() int        { return d.t.Day() }
func (d Day) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Day) Time() time.Time        { return d.t }
func (d Day) IsZero() bool           { return d.t.IsZero() }
func (d Day) Key() string            { return d.t.Format("2006-01-02") }
func (d Day) String() string         { return d.Key() }

// MarshalText serializes a Day as its YYYY-MM-DD key. Day granularity
// must survive persistence round-trips, so no clock component is ever
// written.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.Key()), nil
}

// UnmarshalText parses a YYYY-MM-DD key.
func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// RANGE HELPERS
// =============================================================================

func StartOfYear(year int) Day { return NewDay(year, time.January, 1) }
func EndOfYear(year int) Day   { return NewDay(year, time.December, 31) }

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return NewDay(year, month+1, 1).AddDays(-1).DayOfMonth()
}

// DaysBetween returns the whole-day distance from one day to another.
// Negative when to is before from.
func DaysBetween(from, to Day) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// SETS - Weekend and day-off membership
// =============================================================================

// WeekendSet is the set of weekdays treated as the weekend.
type WeekendSet map[time.Weekday]bool

// DefaultWeekend is Saturday/Sunday.
func DefaultWeekend() WeekendSet {
	return WeekendSet{time.Saturday: true, time.Sunday: true}
}

func (w WeekendSet) Contains(d Day) bool { return w[d.Weekday()] }

// DaySet is a membership set of calendar days.
type DaySet map[string]bool

func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s DaySet) Add(d Day)           { s[d.Key()] = true }
func (s DaySet) Contains(d Day) bool { return s[d.Key()] }
func (s DaySet) Len() int            { return len(s) }

// IsWorkday reports whether a day is a regular working day: not in the
// weekend set and not in the off-day set (holidays, taken days).
func IsWorkday(d Day, weekends WeekendSet, offDays DaySet) bool {
	return !weekends.Contains(d) && !offDays.Contains(d)
}
