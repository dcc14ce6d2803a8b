/*
Package pto implements the transaction-based PTO ledger engine.

PURPOSE:
  Computes a day-by-day balance history for a paid-time-off plan from a
  declarative configuration plus a set of selected usage days. Balance
  is never stored as a mutable counter: every build replays the full
  transaction set, so the ledger is always a pure function of its
  inputs.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (days or hours)
  - Transaction: A single dated, signed balance change
  - Ledger / DailyLedgerEntry: One entry per calendar day, no gaps
  - Config: The plan definition (balance, accrual, carryover, template)
  - Warning: A non-fatal diagnostic surfaced by a build

DESIGN PRINCIPLES:
  1. Purity: BuildLedger never mutates its inputs and holds no state
     between calls; rebuilding with identical inputs is idempotent
  2. Precision: decimal.Decimal keeps the 8-hours-per-day unit
     conversion exact in both directions
  3. Zero floor: a daily balance is never negative; overdraw clamps to
     zero and surfaces a Warning instead of failing

SEE ALSO:
  - schedule.go: accrual date generation from the pay-period template
  - ledger.go: the build pass and balance lookup
  - optimize: consumes the ledger through a balance oracle
*/
package pto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/pto-planner/calendar"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

// HoursPerDay is the workday length assumed by unit conversion.
var HoursPerDay = decimal.NewFromInt(8)

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// ConvertTo converts between days and hours at 8 hours per day.
// A no-op when the units already match.
func (a Amount) ConvertTo(unit Unit) Amount {
	if a.Unit == unit {
		return a
	}
	if a.Unit == UnitHours && unit == UnitDays {
		return Amount{Value: a.Value.Div(HoursPerDay), Unit: unit}
	}
	return Amount{Value: a.Value.Mul(HoursPerDay), Unit: unit}
}

func (a Amount) Neg() Amount      { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool { return a.Value.IsNegative() }
func (a Amount) IsZero() bool     { return a.Value.IsZero() }

// =============================================================================
// TRANSACTION - Atomic dated balance change
// =============================================================================

type TxType string

const (
	TxAdjustment TxType = "adjustment" // the single initial-balance entry
	TxAccrual    TxType = "accrual"    // scheduled pay-period credit
	TxCarryover  TxType = "carryover"  // year-boundary cap correction
	TxUsage      TxType = "usage"      // a selected day off
)

// txPriority orders same-day transactions. Accruals land before usage
// so a day that both accrues and is taken off sees the credit first.
var txPriority = map[TxType]int{
	TxAdjustment: 1,
	TxAccrual:    2,
	TxCarryover:  3,
	TxUsage:      4,
}

type Transaction struct {
	Date   calendar.Day
	Type   TxType
	Amount Amount // signed; positive = credit, negative = debit
	Note   string
}

// sortTransactions orders by date ascending, then by type priority.
// Stable so equal-key transactions keep their generation order.
func sortTransactions(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txPriority[txs[i].Type] < txPriority[txs[j].Type]
	})
}

// =============================================================================
// LEDGER - One entry per calendar day
// =============================================================================

// DailyLedgerEntry is the computed state of a single day: the balance
// after every same-day transaction, and those transactions in applied
// order. Days without transactions carry the previous balance forward.
type DailyLedgerEntry struct {
	Balance      decimal.Decimal
	Transactions []Transaction
}

// Ledger maps YYYY-MM-DD keys to daily entries. Between its first and
// last key every calendar day is present.
type Ledger map[string]DailyLedgerEntry

// SortedKeys returns the ledger's date keys in chronological order.
// The YYYY-MM-DD format makes lexical order chronological.
func (l Ledger) SortedKeys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// CONFIGURATION - The plan definition
// =============================================================================

type Frequency string

const (
	FreqWeekly   Frequency = "weekly"
	FreqBiWeekly Frequency = "bi-weekly"
	FreqMonthly  Frequency = "monthly"
)

// CarryoverOptions caps how much balance survives a year boundary.
type CarryoverOptions struct {
	Enabled bool `json:"enabled"`
	// MaxDays is the cap expressed in days. nil means unbounded.
	MaxDays *decimal.Decimal `json:"maxDays,omitempty"`
	// ExpiryDate, when set, expires whatever portion of a carried-in
	// balance has not been consumed by that date within its year.
	ExpiryDate *calendar.Day `json:"expiryDate,omitempty"`
}

// PayPeriodTemplate pins accrual events to exact calendar dates.
type PayPeriodTemplate struct {
	Frequency Frequency `json:"frequency"`
	// DayOfMonth applies to monthly frequency (1..31, clamped to the
	// target month's length).
	DayOfMonth int `json:"dayOfMonth,omitempty"`
	// Weekday applies to weekly and bi-weekly frequency.
	Weekday time.Weekday `json:"weekday,omitempty"`
	// Anchor fixes the bi-weekly phase: accrual weeks are the even
	// weeks counted from this date. Defaults to Monday 2024-01-01.
	// Configurable so two plans with the same frequency can agree on
	// which weeks are accrual weeks.
	Anchor calendar.Day `json:"anchor,omitempty"`
}

// DefaultAnchor is the bi-weekly parity reference used when a template
// does not carry its own.
var DefaultAnchor = calendar.NewDay(2024, time.January, 1)

// DefaultTemplate derives a template from a bare accrual frequency:
// monthly pays on the 1st, weekly and bi-weekly pay on Friday. This is
// also what the store's migration applies to plans persisted before
// templates existed.
func DefaultTemplate(freq Frequency) PayPeriodTemplate {
	return PayPeriodTemplate{
		Frequency:  freq,
		DayOfMonth: 1,
		Weekday:    time.Friday,
		Anchor:     DefaultAnchor,
	}
}

// withDefaults fills unset template fields.
func (t PayPeriodTemplate) withDefaults(freq Frequency) PayPeriodTemplate {
	if t.Frequency == "" {
		t.Frequency = freq
	}
	if t.DayOfMonth == 0 {
		t.DayOfMonth = 1
	}
	// A zero weekday is indistinguishable from Sunday, and omitempty
	// drops Sunday from the persisted shape anyway, so zero reads as
	// absent and takes the Friday default.
	if t.Weekday == 0 {
		t.Weekday = time.Friday
	}
	if t.Anchor.IsZero() {
		t.Anchor = DefaultAnchor
	}
	return t
}

// Config is the single source of truth for a plan. It is passed by
// value into the engine; the engine never mutates it.
type Config struct {
	InitialBalance decimal.Decimal `json:"initialBalance"`
	BalanceUnit    Unit            `json:"balanceUnit"`
	// AsOfDate anchors the balance: it equals InitialBalance exactly
	// on this day.
	AsOfDate calendar.Day `json:"asOfDate"`

	AccrualRate      decimal.Decimal `json:"accrualRate"`
	AccrualUnit      Unit            `json:"accrualUnit"`
	AccrualFrequency Frequency       `json:"accrualFrequency"`

	// VisibleYears defines the computed range: Jan 1 of the earliest
	// through Dec 31 of the latest.
	VisibleYears []int `json:"visibleYears"`

	Carryover CarryoverOptions `json:"carryover"`

	// Template is optional; when zero it defaults from AccrualFrequency.
	Template PayPeriodTemplate `json:"payPeriodTemplate"`
}

// RangeStart is Jan 1 of the earliest visible year.
func (c Config) RangeStart() calendar.Day {
	return calendar.StartOfYear(c.minYear())
}

// RangeEnd is Dec 31 of the latest visible year.
func (c Config) RangeEnd() calendar.Day {
	return calendar.EndOfYear(c.maxYear())
}

func (c Config) minYear() int {
	min := c.VisibleYears[0]
	for _, y := range c.VisibleYears[1:] {
		if y < min {
			min = y
		}
	}
	return min
}

func (c Config) maxYear() int {
	max := c.VisibleYears[0]
	for _, y := range c.VisibleYears[1:] {
		if y > max {
			max = y
		}
	}
	return max
}

// sortedYears returns VisibleYears ascending without mutating the
// caller's slice.
func (c Config) sortedYears() []int {
	years := append([]int(nil), c.VisibleYears...)
	sort.Ints(years)
	return years
}

// normalize converts an amount into the plan's balance unit and
// returns the bare value.
func (c Config) normalize(value decimal.Decimal, unit Unit) decimal.Decimal {
	return Amount{Value: value, Unit: unit}.ConvertTo(c.BalanceUnit).Value
}

// =============================================================================
// WARNINGS - Non-fatal build diagnostics
// =============================================================================

type WarningCode string

const (
	// WarnPastSelection: a selected day before AsOfDate was dropped.
	WarnPastSelection WarningCode = "past_selection"
	// WarnOverdraw: a usage debit exceeded the available balance and
	// was clamped at zero.
	WarnOverdraw WarningCode = "overdraw"
	// WarnNoSchedule: no accrual date matched the template within the
	// search bound; the build carries zero accruals.
	WarnNoSchedule WarningCode = "no_schedule"
	// WarnBadTemplate: the template frequency is unsupported; accrual
	// generation was skipped for this build.
	WarnBadTemplate WarningCode = "bad_template"
	// WarnNoVisibleYears: the config defines no computed range, so the
	// build produced an empty ledger.
	WarnNoVisibleYears WarningCode = "no_visible_years"
)

type Warning struct {
	Code    WarningCode
	Date    calendar.Day // zero when not tied to a specific day
	Message string
}
