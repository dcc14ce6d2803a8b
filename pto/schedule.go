/*
schedule.go - Accrual date generation from the pay-period template

PURPOSE:
  Turns a pay-period template into the exact calendar dates on which
  accrual credits land.

RULES:
  Monthly:   the configured day-of-month, clamped to the last day of
             months that are shorter (day 31 in February pays on
             Feb 28/29, it never rolls into March).
  Weekly:    the configured weekday, every 7 days.
  Bi-weekly: the configured weekday on even weeks counted from the
             template's phase anchor, every 14 days.

FIRST-DATE SEARCH:
  First scans forward one day at a time from the start date. The scan
  is capped at 732 iterations (two years); a template that never
  matches inside the bound reports "no schedule" and the build simply
  carries zero accrual transactions instead of looping.

SEE ALSO:
  - transactions.go: drives Next from the first date to the range end
*/
package pto

import (
	"github.com/warp/pto-planner/calendar"
)

// firstSearchLimit bounds the first-accrual-date scan to roughly two
// years of daily probes.
const firstSearchLimit = 732

// Schedule generates accrual event dates for one template.
type Schedule struct {
	template PayPeriodTemplate
}

func NewSchedule(template PayPeriodTemplate) Schedule {
	return Schedule{template: template}
}

// First returns the earliest accrual date on or after start. The
// second return is false when no date matches within the search bound,
// which callers treat as "no accrual in range", not as an error.
func (s Schedule) First(start calendar.Day) (calendar.Day, bool, error) {
	switch s.template.Frequency {
	case FreqMonthly, FreqWeekly, FreqBiWeekly:
	default:
		return calendar.Day{}, false, &ConfigurationError{
			Field: "payPeriodTemplate.frequency",
			Value: string(s.template.Frequency),
		}
	}

	day := start
	for i := 0; i < firstSearchLimit; i++ {
		if s.matches(day) {
			return day, true, nil
		}
		day = day.AddDays(1)
	}
	return calendar.Day{}, false, nil
}

// Next returns the accrual date following current.
func (s Schedule) Next(current calendar.Day) (calendar.Day, error) {
	switch s.template.Frequency {
	case FreqMonthly:
		// Clamp to the target month, re-pinning to the configured day
		// so a clamped February date recovers day 31 in March.
		return current.AddMonths(1).WithDayOfMonth(s.template.DayOfMonth), nil
	case FreqWeekly:
		return current.AddDays(7), nil
	case FreqBiWeekly:
		return current.AddDays(14), nil
	default:
		return calendar.Day{}, &ConfigurationError{
			Field: "payPeriodTemplate.frequency",
			Value: string(s.template.Frequency),
		}
	}
}

// matches reports whether a single day is an accrual day under the
// template.
func (s Schedule) matches(day calendar.Day) bool {
	switch s.template.Frequency {
	case FreqMonthly:
		// The target day-of-month, clamped to this month's length.
		return day.Equal(day.WithDayOfMonth(s.template.DayOfMonth))
	case FreqWeekly:
		return day.Weekday() == s.template.Weekday
	case FreqBiWeekly:
		if day.Weekday() != s.template.Weekday {
			return false
		}
		return s.onAnchorPhase(day)
	}
	return false
}

// onAnchorPhase reports whether day falls on an even week counted from
// the template anchor. floorDiv keeps the parity stable for dates
// before the anchor.
func (s Schedule) onAnchorPhase(day calendar.Day) bool {
	weeks := floorDiv(calendar.DaysBetween(s.template.Anchor, day), 7)
	return weeks%2 == 0
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
