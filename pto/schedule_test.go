package pto_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/pto"
)

// =============================================================================
// MONTHLY SCHEDULES
// =============================================================================

func TestSchedule_Monthly_FirstOnOrAfterStart(t *testing.T) {
	// GIVEN: Monthly template paying on the 15th
	// WHEN: Searching from the 10th
	// THEN: The first accrual is the 15th of the same month

	s := pto.NewSchedule(pto.PayPeriodTemplate{Frequency: pto.FreqMonthly, DayOfMonth: 15})

	first, found, err := s.First(calendar.NewDay(2024, time.March, 10))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-03-15", first.Key())
}

func TestSchedule_Monthly_StartPastTarget_NextMonth(t *testing.T) {
	// GIVEN: Monthly template paying on the 15th
	// WHEN: Searching from the 20th
	// THEN: The first accrual is the 15th of the following month

	s := pto.NewSchedule(pto.PayPeriodTemplate{Frequency: pto.FreqMonthly, DayOfMonth: 15})

	first, found, err := s.First(calendar.NewDay(2024, time.March, 20))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-04-15", first.Key())
}

func TestSchedule_Monthly_Day31_ClampsToShortMonths(t *testing.T) {
	// GIVEN: Monthly template paying on the 31st
	// THEN: Short months pay on their last day, and the 31st is
	//       recovered in the following long month

	s := pto.NewSchedule(pto.PayPeriodTemplate{Frequency: pto.FreqMonthly, DayOfMonth: 31})

	first, found, err := s.First(calendar.NewDay(2024, time.January, 1))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-01-31", first.Key())

	feb, err := s.Next(first)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", feb.Key(), "leap-year February clamps to the 29th")

	mar, err := s.Next(feb)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", mar.Key(), "March recovers the configured 31st")

	apr, err := s.Next(mar)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-30", apr.Key())
}

func TestSchedule_Monthly_Day31_NonLeapFebruary(t *testing.T) {
	s := pto.NewSchedule(pto.PayPeriodTemplate{Frequency: pto.FreqMonthly, DayOfMonth: 31})

	feb, err := s.Next(calendar.NewDay(2025, time.January, 31))
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", feb.Key())
}

// =============================================================================
// WEEKLY / BI-WEEKLY SCHEDULES
// =============================================================================

func TestSchedule_Weekly_AdvancesSevenDays(t *testing.T) {
	s := pto.NewSchedule(pto.PayPeriodTemplate{Frequency: pto.FreqWeekly, Weekday: time.Friday})

	first, found, err := s.First(calendar.NewDay(2024, time.January, 1)) // a Monday
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-01-05", first.Key(), "first Friday on or after Jan 1")

	next, err := s.Next(first)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-12", next.Key())
	assert.Equal(t, time.Friday, next.Weekday())
}

func TestSchedule_BiWeekly_AnchoredPhase(t *testing.T) {
	// GIVEN: Bi-weekly Fridays anchored at Monday 2024-01-01
	// THEN: Only Fridays in even weeks relative to the anchor match

	s := pto.NewSchedule(pto.PayPeriodTemplate{
		Frequency: pto.FreqBiWeekly,
		Weekday:   time.Friday,
		Anchor:    calendar.NewDay(2024, time.January, 1),
	})

	first, found, err := s.First(calendar.NewDay(2024, time.January, 1))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-01-05", first.Key(), "Jan 5 is in the anchor week")

	// Searching from the off-phase week lands on the next on-phase Friday.
	offPhase, found, err := s.First(calendar.NewDay(2024, time.January, 8))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-01-19", offPhase.Key(), "Jan 12 is skipped as off-phase")

	next, err := s.Next(first)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-19", next.Key())
}

func TestSchedule_BiWeekly_PhaseStableBeforeAnchor(t *testing.T) {
	// Dates before the anchor must keep a consistent alternating phase.
	s := pto.NewSchedule(pto.PayPeriodTemplate{
		Frequency: pto.FreqBiWeekly,
		Weekday:   time.Friday,
		Anchor:    calendar.NewDay(2024, time.January, 1),
	})

	first, found, err := s.First(calendar.NewDay(2023, time.December, 18))
	require.NoError(t, err)
	require.True(t, found)

	next, err := s.Next(first)
	require.NoError(t, err)
	assert.Equal(t, 14, calendar.DaysBetween(first, next))

	// Walking forward from the pre-anchor date reaches the same phase
	// as searching after the anchor.
	cur := first
	for cur.Before(calendar.NewDay(2024, time.January, 1)) {
		cur, err = s.Next(cur)
		require.NoError(t, err)
	}
	assert.Equal(t, "2024-01-05", cur.Key())
}

// =============================================================================
// DEGENERATE TEMPLATES
// =============================================================================

func TestSchedule_UnsupportedFrequency_ConfigurationError(t *testing.T) {
	s := pto.NewSchedule(pto.PayPeriodTemplate{Frequency: "quarterly"})

	_, _, err := s.First(calendar.NewDay(2024, time.January, 1))
	require.Error(t, err)

	var cfgErr *pto.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, pto.ErrUnsupportedFrequency)
}

func TestSchedule_First_SearchBound(t *testing.T) {
	// A weekday that never matches would loop forever without the
	// bound; instead the search reports "no schedule".
	s := pto.NewSchedule(pto.PayPeriodTemplate{Frequency: pto.FreqWeekly, Weekday: time.Weekday(9)})

	_, found, err := s.First(calendar.NewDay(2024, time.January, 1))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConfigurationError_Message(t *testing.T) {
	err := &pto.ConfigurationError{Field: "payPeriodTemplate.frequency", Value: "quarterly"}
	assert.Contains(t, err.Error(), "quarterly")
	assert.True(t, errors.Is(err, pto.ErrUnsupportedFrequency))
}
