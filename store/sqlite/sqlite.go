/*
Package sqlite persists plans, selected days and suggestion runs.

PURPOSE:
  Local single-plan persistence for the planner: the plan configuration
  as one JSON row, the selected-day set as one row per day, and a log
  of optimizer runs. The engine itself never touches storage; callers
  load, build, and save around it.

PERSISTED SHAPE:
  The plan config round-trips through JSON with day-granularity dates
  (YYYY-MM-DD) and string decimals, so no precision is lost between
  sessions.

MIGRATION:
  A plan persisted before pay-period templates existed loads with a
  default template derived from its accrual frequency (monthly pays on
  the 1st, weekly/bi-weekly on Friday). The migrated config is written
  back so the default is applied once.

KEY TABLES:
  plans:           One JSON config row per plan
  selected_days:   Day-off set; primary key enforces day uniqueness
  suggestion_runs: Optimizer run log (uuid IDs, strategy, dates)

WAL MODE:
  SQLite is opened with WAL so readers don't block the writer.

USAGE:
  store, err := sqlite.New("./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - pto: the engine the stored config feeds
  - api: the HTTP surface built on this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/pto"
)

// DefaultPlanID names the single plan a local installation manages.
var DefaultPlanID = "default"

var (
	// ErrPlanNotFound is returned when no plan row exists for an ID.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrDayAlreadySelected is returned when a day is added twice.
	ErrDayAlreadySelected = errors.New("day already selected")
	// ErrDayNotSelected is returned when removing a day that is not in
	// the selected set.
	ErrDayNotSelected = errors.New("day not selected")
)

// Store is the SQLite-backed plan store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Plan configurations (one JSON document per plan)
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Selected days off, one row per plan+day (YYYY-MM-DD).
	-- The primary key enforces day uniqueness: a day cannot be
	-- selected twice for the same plan.
	CREATE TABLE IF NOT EXISTS selected_days (
		plan_id TEXT NOT NULL,
		day TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (plan_id, day)
	);

	-- Optimizer run log
	CREATE TABLE IF NOT EXISTS suggestion_runs (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		strategy TEXT NOT NULL,
		days_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_suggestion_runs_plan
		ON suggestion_runs(plan_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PLANS
// =============================================================================

// SavePlan upserts a plan configuration.
func (s *Store) SavePlan(ctx context.Context, id string, cfg pto.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.savePlan(ctx, id, cfg)
}

func (s *Store) savePlan(ctx context.Context, id string, cfg pto.Config) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode plan config: %w", err)
	}

	query := `
		INSERT INTO plans (id, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, query, id, string(configJSON), now, now); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// LoadPlan reads a plan configuration. A plan stored without a
// pay-period template is migrated in place: it gets the default
// template for its accrual frequency and is written back.
func (s *Store) LoadPlan(ctx context.Context, id string) (pto.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT config_json FROM plans WHERE id = ?", id,
	).Scan(&configJSON)
	if err == sql.ErrNoRows {
		return pto.Config{}, ErrPlanNotFound
	}
	if err != nil {
		return pto.Config{}, fmt.Errorf("failed to load plan: %w", err)
	}

	var cfg pto.Config
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return pto.Config{}, fmt.Errorf("failed to decode plan config: %w", err)
	}

	if cfg.Template.Frequency == "" {
		cfg.Template = pto.DefaultTemplate(cfg.AccrualFrequency)
		log.Printf("[Store] plan %s had no pay-period template, applying %s default", id, cfg.AccrualFrequency)
		if err := s.savePlan(ctx, id, cfg); err != nil {
			return pto.Config{}, err
		}
	}

	return cfg, nil
}

// =============================================================================
// SELECTED DAYS
// =============================================================================

// AddSelectedDay records a day off for a plan.
func (s *Store) AddSelectedDay(ctx context.Context, planID string, day calendar.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO selected_days (plan_id, day, created_at) VALUES (?, ?, ?)",
		planID, day.Key(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDayAlreadySelected
		}
		return fmt.Errorf("failed to add selected day: %w", err)
	}
	return nil
}

// RemoveSelectedDay deletes a day off.
func (s *Store) RemoveSelectedDay(ctx context.Context, planID string, day calendar.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM selected_days WHERE plan_id = ? AND day = ?",
		planID, day.Key(),
	)
	if err != nil {
		return fmt.Errorf("failed to remove selected day: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDayNotSelected
	}
	return nil
}

// ListSelectedDays returns a plan's days off in chronological order.
func (s *Store) ListSelectedDays(ctx context.Context, planID string) ([]calendar.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT day FROM selected_days WHERE plan_id = ? ORDER BY day ASC",
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query selected days: %w", err)
	}
	defer rows.Close()

	var days []calendar.Day
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan selected day: %w", err)
		}
		day, err := calendar.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("corrupt selected day %q: %w", key, err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// =============================================================================
// SUGGESTION RUNS
// =============================================================================

// SuggestionRun is one recorded optimizer invocation.
type SuggestionRun struct {
	ID        string
	PlanID    string
	Strategy  string
	Days      []calendar.Day
	CreatedAt time.Time
}

// RecordSuggestionRun logs an optimizer run. An empty ID gets a fresh
// uuid.
func (s *Store) RecordSuggestionRun(ctx context.Context, run SuggestionRun) (SuggestionRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	daysJSON, err := json.Marshal(run.Days)
	if err != nil {
		return run, fmt.Errorf("failed to encode suggestion days: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO suggestion_runs (id, plan_id, strategy, days_json, created_at) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.PlanID, run.Strategy, string(daysJSON), run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return run, fmt.Errorf("failed to record suggestion run: %w", err)
	}
	return run, nil
}

// ListSuggestionRuns returns a plan's runs, newest first.
func (s *Store) ListSuggestionRuns(ctx context.Context, planID string, limit int) ([]SuggestionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, plan_id, strategy, days_json, created_at FROM suggestion_runs WHERE plan_id = ? ORDER BY created_at DESC LIMIT ?",
		planID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestion runs: %w", err)
	}
	defer rows.Close()

	var runs []SuggestionRun
	for rows.Next() {
		var run SuggestionRun
		var daysJSON, createdAt string
		if err := rows.Scan(&run.ID, &run.PlanID, &run.Strategy, &daysJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion run: %w", err)
		}
		if err := json.Unmarshal([]byte(daysJSON), &run.Days); err != nil {
			return nil, fmt.Errorf("corrupt suggestion run %s: %w", run.ID, err)
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Reset clears all data. Intended for tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"plans", "selected_days", "suggestion_runs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
