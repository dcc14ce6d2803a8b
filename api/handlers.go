/*
handlers.go - HTTP API handlers for the PTO planner

PURPOSE:
  Exposes the plan store, the ledger engine and the optimizer via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Plan:
    GET    /api/plan               Current plan configuration
    PUT    /api/plan               Replace the plan configuration

  Days off:
    GET    /api/days               Selected-day set
    POST   /api/days               Select a day (balance pre-check)
    DELETE /api/days/{date}        Deselect a day

  Ledger:
    GET    /api/ledger?year=       One year of daily entries
    GET    /api/balance?date=      Balance on a date

  Suggestions:
    POST   /api/suggestions        Run the optimizer (advisory only)
    GET    /api/suggestions        Recent optimizer runs

REQUEST FLOW:
  1. Parse HTTP request
  2. Load plan + selected days from the store
  3. Rebuild the ledger (always full rebuild, the engine is pure)
  4. Serialize response

BALANCE PRE-CHECK:
  The engine itself never rejects a usage day; it clamps and warns.
  Rejection is this layer's job: POST /api/days consults the balance
  oracle first and answers 409 when the day would not be coverable.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: No plan configured / day not selected
  - 409: Day already selected, insufficient balance
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/optimize"
	"github.com/warp/pto-planner/pto"
	"github.com/warp/pto-planner/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	PlanID string
}

// NewHandler creates a handler over the given store, managing the
// default plan.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store, PlanID: sqlite.DefaultPlanID}
}

// rebuild loads the stored plan and selected days and runs a full
// ledger build. Every read path goes through here: the ledger is never
// cached, it is a pure function of the stored state.
func (h *Handler) rebuild(ctx context.Context) (*pto.Engine, pto.Ledger, []pto.Warning, error) {
	cfg, err := h.Store.LoadPlan(ctx, h.PlanID)
	if err != nil {
		return nil, nil, nil, err
	}
	days, err := h.Store.ListSelectedDays(ctx, h.PlanID)
	if err != nil {
		return nil, nil, nil, err
	}

	engine := pto.NewEngine(cfg)
	start := time.Now()
	ledger, warnings := engine.BuildLedger(days)
	LedgerBuilds.Inc()
	LedgerBuildDuration.Observe(time.Since(start).Seconds())
	for _, w := range warnings {
		LedgerWarnings.WithLabelValues(string(w.Code)).Inc()
	}
	return engine, ledger, warnings, nil
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// GetPlan returns the stored plan configuration.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Store.LoadPlan(r.Context(), h.PlanID)
	if errors.Is(err, sqlite.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "No plan configured", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plan", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PutPlan replaces the plan configuration.
func (h *Handler) PutPlan(w http.ResponseWriter, r *http.Request) {
	var cfg pto.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch cfg.AccrualFrequency {
	case pto.FreqWeekly, pto.FreqBiWeekly, pto.FreqMonthly:
	default:
		writeError(w, http.StatusBadRequest, "Unsupported accrual frequency", pto.ErrUnsupportedFrequency)
		return
	}
	if cfg.BalanceUnit == "" {
		cfg.BalanceUnit = pto.UnitDays
	}
	if cfg.AccrualUnit == "" {
		cfg.AccrualUnit = cfg.BalanceUnit
	}

	if err := h.Store.SavePlan(r.Context(), h.PlanID, cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save plan", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// =============================================================================
// SELECTED-DAY HANDLERS
// =============================================================================

// ListDays returns the selected-day set.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.Store.ListSelectedDays(r.Context(), h.PlanID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list days", err)
		return
	}
	writeJSON(w, http.StatusOK, DayListDTO{Days: dayKeys(days)})
}

// AddDay selects a day off after checking it is coverable: the balance
// available on that day, computed from a ledger built without it, must
// be at least one full day.
func (h *Handler) AddDay(w http.ResponseWriter, r *http.Request) {
	var req AddDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := calendar.ParseKey(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	engine, ledger, _, err := h.rebuild(r.Context())
	if errors.Is(err, sqlite.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "No plan configured", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build ledger", err)
		return
	}

	available := engine.AvailableDays(ledger, day)
	if available.LessThan(decimal.NewFromInt(1)) {
		writeJSON(w, http.StatusConflict, InsufficientBalanceResponse{
			Error:     "Not enough PTO available on this date",
			Date:      day.Key(),
			Available: available.String(),
		})
		return
	}

	if err := h.Store.AddSelectedDay(r.Context(), h.PlanID, day); err != nil {
		if errors.Is(err, sqlite.ErrDayAlreadySelected) {
			writeError(w, http.StatusConflict, "Day already selected", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to add day", err)
		return
	}
	writeJSON(w, http.StatusCreated, AddDayRequest{Date: day.Key()})
}

// RemoveDay deselects a day off.
func (h *Handler) RemoveDay(w http.ResponseWriter, r *http.Request) {
	day, err := calendar.ParseKey(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.RemoveSelectedDay(r.Context(), h.PlanID, day); err != nil {
		if errors.Is(err, sqlite.ErrDayNotSelected) {
			writeError(w, http.StatusNotFound, "Day not selected", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to remove day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// GetLedger returns one calendar year of daily ledger entries.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing year parameter", err)
		return
	}

	engine, ledger, warnings, err := h.rebuild(r.Context())
	if errors.Is(err, sqlite.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "No plan configured", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build ledger", err)
		return
	}

	dto := LedgerDTO{
		Year:     year,
		Unit:     string(engine.Config().BalanceUnit),
		Entries:  []LedgerEntryDTO{},
		Warnings: toWarningDTOs(warnings),
	}
	prefix := strconv.Itoa(year) + "-"
	for _, key := range ledger.SortedKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry := ledger[key]
		dto.Entries = append(dto.Entries, LedgerEntryDTO{
			Date:         key,
			Balance:      entry.Balance.String(),
			Transactions: toTransactionDTOs(entry.Transactions),
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetBalance returns the balance on a single date.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	day, err := calendar.ParseKey(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing date parameter (use YYYY-MM-DD)", err)
		return
	}

	engine, ledger, _, err := h.rebuild(r.Context())
	if errors.Is(err, sqlite.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "No plan configured", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{
		Date:    day.Key(),
		Balance: engine.BalanceOnDate(ledger, day).String(),
		Unit:    string(engine.Config().BalanceUnit),
	})
}

// =============================================================================
// SUGGESTION HANDLERS
// =============================================================================

// Suggest runs the optimizer against the current ledger and records
// the run. Suggested days are returned to the client, never applied.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	holidays := make([]calendar.Day, 0, len(req.Holidays))
	for _, raw := range req.Holidays {
		d, err := calendar.ParseKey(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid holiday date (use YYYY-MM-DD)", err)
			return
		}
		holidays = append(holidays, d)
	}

	weekends := calendar.DefaultWeekend()
	if len(req.WeekendDays) > 0 {
		weekends = calendar.WeekendSet{}
		for _, wd := range req.WeekendDays {
			if wd < 0 || wd > 6 {
				writeError(w, http.StatusBadRequest, "Invalid weekend day (0=Sunday..6=Saturday)", nil)
				return
			}
			weekends[time.Weekday(wd)] = true
		}
	}

	engine, ledger, _, err := h.rebuild(r.Context())
	if errors.Is(err, sqlite.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "No plan configured", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build ledger", err)
		return
	}

	cfg := engine.Config()
	year := req.Year
	if year == 0 {
		year = calendar.Today().Year()
	}

	// The planning budget is everything the year can fund: balance at
	// Dec 31 given current selections and scheduled accruals.
	input := optimize.StrategyInput{
		Year:             year,
		Weekends:         weekends,
		Holidays:         holidays,
		PTOBalance:       engine.AvailableDays(ledger, calendar.EndOfYear(year)),
		AccrualRate:      cfg.AccrualRate,
		AccrualFrequency: cfg.AccrualFrequency,
	}
	oracle := func(d calendar.Day) decimal.Decimal {
		return engine.AvailableDays(ledger, d)
	}

	days, err := optimize.SuggestDays(optimize.Strategy(req.Strategy), input, oracle)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown strategy", err)
		return
	}
	SuggestionRuns.WithLabelValues(req.Strategy).Inc()

	run, err := h.Store.RecordSuggestionRun(r.Context(), sqlite.SuggestionRun{
		PlanID:   h.PlanID,
		Strategy: req.Strategy,
		Days:     days,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record suggestion run", err)
		return
	}

	writeJSON(w, http.StatusOK, toSuggestionRunDTO(run))
}

// ListSuggestions returns recent optimizer runs, newest first.
func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListSuggestionRuns(r.Context(), h.PlanID, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list suggestion runs", err)
		return
	}
	dtos := make([]SuggestionRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toSuggestionRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func dayKeys(days []calendar.Day) []string {
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = d.Key()
	}
	return keys
}

func toTransactionDTOs(txs []pto.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = TransactionDTO{
			Date:   tx.Date.Key(),
			Type:   string(tx.Type),
			Amount: tx.Amount.Value.String(),
			Unit:   string(tx.Amount.Unit),
			Note:   tx.Note,
		}
	}
	return dtos
}

func toWarningDTOs(warnings []pto.Warning) []WarningDTO {
	dtos := make([]WarningDTO, len(warnings))
	for i, warn := range warnings {
		dto := WarningDTO{Code: string(warn.Code), Message: warn.Message}
		if !warn.Date.IsZero() {
			dto.Date = warn.Date.Key()
		}
		dtos[i] = dto
	}
	return dtos
}

func toSuggestionRunDTO(run sqlite.SuggestionRun) SuggestionRunDTO {
	return SuggestionRunDTO{
		ID:        run.ID,
		Strategy:  run.Strategy,
		Days:      dayKeys(run.Days),
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
