package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/pto"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadPlan_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN a fully specified plan
	maxDays := decimal.RequireFromString("7.5")
	expiry := calendar.NewDay(2025, time.March, 31)
	cfg := pto.Config{
		InitialBalance:   decimal.RequireFromString("12.25"),
		BalanceUnit:      pto.UnitDays,
		AsOfDate:         calendar.NewDay(2024, time.January, 1),
		AccrualRate:      decimal.RequireFromString("1.25"),
		AccrualUnit:      pto.UnitDays,
		AccrualFrequency: pto.FreqBiWeekly,
		VisibleYears:     []int{2024, 2025},
		Carryover: pto.CarryoverOptions{
			Enabled:    true,
			MaxDays:    &maxDays,
			ExpiryDate: &expiry,
		},
		Template: pto.PayPeriodTemplate{
			Frequency: pto.FreqBiWeekly,
			Weekday:   time.Monday,
			Anchor:    calendar.NewDay(2024, time.January, 1),
		},
	}

	// WHEN saving and loading it
	require.NoError(t, store.SavePlan(ctx, DefaultPlanID, cfg))
	loaded, err := store.LoadPlan(ctx, DefaultPlanID)
	require.NoError(t, err)

	// THEN dates keep day granularity and decimals keep precision
	assert.True(t, loaded.InitialBalance.Equal(cfg.InitialBalance))
	assert.True(t, loaded.AccrualRate.Equal(cfg.AccrualRate))
	assert.True(t, loaded.AsOfDate.Equal(cfg.AsOfDate))
	assert.Equal(t, cfg.VisibleYears, loaded.VisibleYears)
	assert.Equal(t, cfg.BalanceUnit, loaded.BalanceUnit)
	assert.Equal(t, cfg.AccrualFrequency, loaded.AccrualFrequency)
	require.NotNil(t, loaded.Carryover.MaxDays)
	assert.True(t, loaded.Carryover.MaxDays.Equal(maxDays))
	require.NotNil(t, loaded.Carryover.ExpiryDate)
	assert.True(t, loaded.Carryover.ExpiryDate.Equal(expiry))
	assert.Equal(t, cfg.Template.Frequency, loaded.Template.Frequency)
	assert.Equal(t, cfg.Template.Weekday, loaded.Template.Weekday)
	assert.True(t, loaded.Template.Anchor.Equal(cfg.Template.Anchor))
}

func TestSavePlan_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg := pto.Config{
		InitialBalance:   decimal.NewFromInt(5),
		BalanceUnit:      pto.UnitDays,
		AsOfDate:         calendar.NewDay(2024, time.January, 1),
		AccrualFrequency: pto.FreqMonthly,
		VisibleYears:     []int{2024},
		Template:         pto.DefaultTemplate(pto.FreqMonthly),
	}
	require.NoError(t, store.SavePlan(ctx, DefaultPlanID, cfg))

	// WHEN saving again with a changed balance
	cfg.InitialBalance = decimal.NewFromInt(9)
	require.NoError(t, store.SavePlan(ctx, DefaultPlanID, cfg))

	// THEN the single row reflects the update
	loaded, err := store.LoadPlan(ctx, DefaultPlanID)
	require.NoError(t, err)
	assert.True(t, loaded.InitialBalance.Equal(decimal.NewFromInt(9)))
}

func TestLoadPlan_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadPlan(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestLoadPlan_MigratesMissingTemplate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN a plan persisted without a pay-period template
	cfg := pto.Config{
		InitialBalance:   decimal.NewFromInt(10),
		BalanceUnit:      pto.UnitDays,
		AsOfDate:         calendar.NewDay(2024, time.January, 1),
		AccrualFrequency: pto.FreqWeekly,
		VisibleYears:     []int{2024},
	}
	require.NoError(t, store.SavePlan(ctx, DefaultPlanID, cfg))

	// WHEN loading it
	loaded, err := store.LoadPlan(ctx, DefaultPlanID)
	require.NoError(t, err)

	// THEN the frequency default is applied: weekly pays on Friday
	assert.Equal(t, pto.FreqWeekly, loaded.Template.Frequency)
	assert.Equal(t, time.Friday, loaded.Template.Weekday)

	// AND the migrated template was written back
	reloaded, err := store.LoadPlan(ctx, DefaultPlanID)
	require.NoError(t, err)
	assert.Equal(t, pto.FreqWeekly, reloaded.Template.Frequency)
}

func TestSelectedDays_AddListRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d1 := calendar.NewDay(2024, time.July, 5)
	d2 := calendar.NewDay(2024, time.March, 29)

	// WHEN adding two days out of order
	require.NoError(t, store.AddSelectedDay(ctx, DefaultPlanID, d1))
	require.NoError(t, store.AddSelectedDay(ctx, DefaultPlanID, d2))

	// THEN listing returns them chronologically
	days, err := store.ListSelectedDays(ctx, DefaultPlanID)
	require.NoError(t, err)
	assert.Equal(t, []calendar.Day{d2, d1}, days)

	// AND a duplicate add is rejected
	assert.ErrorIs(t, store.AddSelectedDay(ctx, DefaultPlanID, d1), ErrDayAlreadySelected)

	// AND removal works exactly once
	require.NoError(t, store.RemoveSelectedDay(ctx, DefaultPlanID, d1))
	assert.ErrorIs(t, store.RemoveSelectedDay(ctx, DefaultPlanID, d1), ErrDayNotSelected)

	days, err = store.ListSelectedDays(ctx, DefaultPlanID)
	require.NoError(t, err)
	assert.Equal(t, []calendar.Day{d2}, days)
}

func TestSuggestionRuns_RecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN two recorded runs
	first, err := store.RecordSuggestionRun(ctx, SuggestionRun{
		PlanID:    DefaultPlanID,
		Strategy:  "long-weekends",
		Days:      []calendar.Day{calendar.NewDay(2024, time.May, 10)},
		CreatedAt: time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID, "an ID is assigned when none is given")

	second, err := store.RecordSuggestionRun(ctx, SuggestionRun{
		PlanID:    DefaultPlanID,
		Strategy:  "extended",
		Days:      []calendar.Day{calendar.NewDay(2024, time.August, 1), calendar.NewDay(2024, time.August, 2)},
		CreatedAt: time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// WHEN listing
	runs, err := store.ListSuggestionRuns(ctx, DefaultPlanID, 10)
	require.NoError(t, err)

	// THEN newest first, dates intact
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, "extended", runs[0].Strategy)
	assert.Equal(t, []calendar.Day{calendar.NewDay(2024, time.August, 1), calendar.NewDay(2024, time.August, 2)}, runs[0].Days)
	assert.Equal(t, first.ID, runs[1].ID)
}
