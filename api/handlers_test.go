/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Plan configuration round-trip and validation
- Selected-day mutation with the balance pre-check
- Ledger and balance queries
- Suggestion runs
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/pto"
	"github.com/warp/pto-planner/store/sqlite"
)

func newTestRouter(t *testing.T) (http.Handler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewRouter(NewHandler(store), nil), store
}

// seedPlan stores a monthly plan: 10 days on 2024-01-01, 1 day accrued
// on the 1st of each following month, visible year 2024.
func seedPlan(t *testing.T, router http.Handler, initial int64, rate int64) {
	t.Helper()
	cfg := pto.Config{
		InitialBalance:   decimal.NewFromInt(initial),
		BalanceUnit:      pto.UnitDays,
		AsOfDate:         calendar.NewDay(2024, time.January, 1),
		AccrualRate:      decimal.NewFromInt(rate),
		AccrualUnit:      pto.UnitDays,
		AccrualFrequency: pto.FreqMonthly,
		VisibleYears:     []int{2024},
	}
	rec := doJSON(router, http.MethodPut, "/api/plan", cfg)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// =============================================================================
// PLAN
// =============================================================================

func TestPlan_RoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	// GIVEN a stored plan
	seedPlan(t, router, 10, 1)

	// WHEN fetching it
	rec := doJSON(router, http.MethodGet, "/api/plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN the persisted shape survives with precision intact
	cfg := decode[pto.Config](t, rec)
	assert.True(t, cfg.InitialBalance.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, pto.FreqMonthly, cfg.AccrualFrequency)
	assert.True(t, cfg.AsOfDate.Equal(calendar.NewDay(2024, time.January, 1)))
}

func TestPutPlan_RejectsUnsupportedFrequency(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodPut, "/api/plan", map[string]any{
		"initialBalance":   "10",
		"accrualFrequency": "quarterly",
		"visibleYears":     []int{2024},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlan_NotConfigured(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodGet, "/api/plan", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SELECTED DAYS
// =============================================================================

func TestAddDay_DebitsTheLedger(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	// WHEN selecting a June day
	rec := doJSON(router, http.MethodPost, "/api/days", AddDayRequest{Date: "2024-06-03"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// THEN the balance on that day reflects the usage: 10 initial
	// + 5 accruals (Feb-Jun) - 1 used
	rec = doJSON(router, http.MethodGet, "/api/balance?date=2024-06-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	balance := decode[BalanceDTO](t, rec)
	assert.Equal(t, "14", balance.Balance)

	// AND the day shows up in the selected set
	rec = doJSON(router, http.MethodGet, "/api/days", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2024-06-03"}, decode[DayListDTO](t, rec).Days)
}

func TestAddDay_InsufficientBalanceIsRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	// GIVEN a plan with nothing to spend
	seedPlan(t, router, 0, 0)

	// WHEN selecting a day
	rec := doJSON(router, http.MethodPost, "/api/days", AddDayRequest{Date: "2024-06-03"})

	// THEN the pre-check rejects it before any mutation
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[InsufficientBalanceResponse](t, rec)
	assert.Equal(t, "2024-06-03", resp.Date)
	assert.Equal(t, "0", resp.Available)

	rec = doJSON(router, http.MethodGet, "/api/days", nil)
	assert.Empty(t, decode[DayListDTO](t, rec).Days)
}

func TestAddDay_DuplicateConflicts(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/api/days", AddDayRequest{Date: "2024-06-03"}).Code)
	assert.Equal(t, http.StatusConflict,
		doJSON(router, http.MethodPost, "/api/days", AddDayRequest{Date: "2024-06-03"}).Code)
}

func TestRemoveDay(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/api/days", AddDayRequest{Date: "2024-06-03"}).Code)

	assert.Equal(t, http.StatusNoContent,
		doJSON(router, http.MethodDelete, "/api/days/2024-06-03", nil).Code)
	assert.Equal(t, http.StatusNotFound,
		doJSON(router, http.MethodDelete, "/api/days/2024-06-03", nil).Code)
}

// =============================================================================
// LEDGER
// =============================================================================

func TestGetLedger_FullYear(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	rec := doJSON(router, http.MethodGet, "/api/ledger?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ledger := decode[LedgerDTO](t, rec)
	assert.Equal(t, 2024, ledger.Year)
	assert.Equal(t, "days", ledger.Unit)
	require.Len(t, ledger.Entries, 366, "2024 is a leap year")
	assert.Equal(t, "2024-01-01", ledger.Entries[0].Date)
	assert.Equal(t, "10", ledger.Entries[0].Balance)
	assert.Equal(t, "2024-12-31", ledger.Entries[365].Date)
	assert.Equal(t, "21", ledger.Entries[365].Balance)
}

func TestGetLedger_MissingYear(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	assert.Equal(t, http.StatusBadRequest,
		doJSON(router, http.MethodGet, "/api/ledger", nil).Code)
}

func TestGetBalance_BadDate(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	assert.Equal(t, http.StatusBadRequest,
		doJSON(router, http.MethodGet, "/api/balance?date=June-3rd", nil).Code)
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggest_RunsAndRecords(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	// WHEN asking for long weekends around a Thursday holiday
	rec := doJSON(router, http.MethodPost, "/api/suggestions", SuggestRequest{
		Strategy: "long-weekends",
		Year:     2024,
		Holidays: []string{"2024-01-04"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN the bridging Friday is suggested but not applied
	run := decode[SuggestionRunDTO](t, rec)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "long-weekends", run.Strategy)
	assert.Equal(t, []string{"2024-01-05"}, run.Days)

	rec = doJSON(router, http.MethodGet, "/api/days", nil)
	assert.Empty(t, decode[DayListDTO](t, rec).Days, "suggestions are advisory")

	// AND the run is listed
	rec = doJSON(router, http.MethodGet, "/api/suggestions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]SuggestionRunDTO](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestSuggest_UnknownStrategy(t *testing.T) {
	router, _ := newTestRouter(t)
	seedPlan(t, router, 10, 1)

	rec := doJSON(router, http.MethodPost, "/api/suggestions", SuggestRequest{
		Strategy: "aggressive",
		Year:     2024,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
