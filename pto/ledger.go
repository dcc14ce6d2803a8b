/*
ledger.go - The ledger build pass and balance lookup

PURPOSE:
  The system of record. Merges every transaction, orders them
  deterministically, and walks the full visible date range one day at
  a time producing a contiguous balance time series.

PROCESSING ORDER (the crux of correctness):
  1. Generate adjustment, accrual and usage transactions
  2. Compute carryover from a provisional ledger and append it
  3. Sort by (date, type priority): adjustment < accrual < carryover
     < usage, so a usage day that coincides with an accrual day sees
     the credit first
  4. Fold transactions before the visible window into one clamped
     starting balance
  5. Walk every day of the window, clamping at zero after each
     transaction; every day gets an entry, transacted or not

INVARIANTS:
  - Exactly one entry per calendar day between the first and last key
  - No entry ever holds a negative balance
  - Identical inputs produce an identical ledger (no hidden state)
*/
package pto

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/warp/pto-planner/calendar"
)

var oneDay = decimal.NewFromInt(1)

// =============================================================================
// ENGINE
// =============================================================================

// Engine builds ledgers for one plan configuration. It is stateless
// between calls; every build recomputes from scratch.
type Engine struct {
	cfg Config
}

// NewEngine wraps a configuration, filling template defaults.
func NewEngine(cfg Config) *Engine {
	cfg.Template = cfg.Template.withDefaults(cfg.AccrualFrequency)
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// BuildLedger computes the daily balance history for the visible range
// from the configuration plus the selected usage days. Pure: inputs
// are not mutated, and identical inputs yield an identical ledger.
func (e *Engine) BuildLedger(selected []calendar.Day) (Ledger, []Warning) {
	if len(e.cfg.VisibleYears) == 0 {
		return Ledger{}, []Warning{{
			Code:    WarnNoVisibleYears,
			Message: ErrNoVisibleYears.Error(),
		}}
	}

	var warnings []Warning

	accruals, ws := e.cfg.accrualTransactions()
	warnings = append(warnings, ws...)

	usage, ws := e.cfg.usageTransactions(selected)
	warnings = append(warnings, ws...)

	pre := make([]Transaction, 0, 1+len(accruals)+len(usage))
	pre = append(pre, e.cfg.initialTransaction())
	pre = append(pre, accruals...)
	pre = append(pre, usage...)

	all := append(pre, e.cfg.carryoverTransactions(pre)...)
	sortTransactions(all)

	ledger, ws := e.cfg.buildDailyLedger(all)
	warnings = append(warnings, ws...)
	return ledger, warnings
}

// BalanceOnDate answers "what is the balance on date D" against a
// built ledger. Dates before the ledger resolve to the initial balance
// only on the as-of date itself; dates after resolve to the last known
// balance, which persists forward.
func (e *Engine) BalanceOnDate(ledger Ledger, date calendar.Day) decimal.Decimal {
	return e.cfg.balanceOnDate(ledger, date)
}

// AvailableDays is BalanceOnDate normalized to whole-day units, the
// shape the optimizer's feasibility oracle consumes.
func (e *Engine) AvailableDays(ledger Ledger, date calendar.Day) decimal.Decimal {
	balance := e.cfg.balanceOnDate(ledger, date)
	return Amount{Value: balance, Unit: e.cfg.BalanceUnit}.ConvertTo(UnitDays).Value
}

// =============================================================================
// BUILD PASS
// =============================================================================

// buildDailyLedger walks the visible window applying the sorted
// transaction list. Also used with the pre-carryover subset to produce
// the provisional ledger the carryover calculator reads.
func (c Config) buildDailyLedger(sorted []Transaction) (Ledger, []Warning) {
	ledger := make(Ledger)
	if len(sorted) == 0 {
		return ledger, nil
	}

	rangeStart, rangeEnd := c.RangeStart(), c.RangeEnd()

	// The first transaction (typically the initial adjustment) may
	// predate the visible range; iteration starts at the later of the
	// two so the window's first day already reflects prior history.
	iterStart := sorted[0].Date
	if iterStart.Before(rangeStart) {
		iterStart = rangeStart
	}

	running := decimal.Zero
	idx := 0
	for idx < len(sorted) && sorted[idx].Date.Before(iterStart) {
		running = running.Add(sorted[idx].Amount.Value)
		idx++
	}
	if running.IsNegative() {
		running = decimal.Zero
	}

	var warnings []Warning
	for day := iterStart; day.BeforeOrEqual(rangeEnd); day = day.AddDays(1) {
		var applied []Transaction
		for idx < len(sorted) && sorted[idx].Date.Equal(day) {
			tx := sorted[idx]
			previous := running
			running = running.Add(tx.Amount.Value)

			if running.IsNegative() {
				if tx.Type == TxUsage {
					warnings = append(warnings, Warning{
						Code: WarnOverdraw,
						Date: day,
						Message: fmt.Sprintf("usage on %s exceeds available balance %s; clamped to zero",
							day, previous),
					})
					log.Printf("[Ledger] usage on %s overdraws balance %s, clamping to zero", day, previous)
				}
				running = decimal.Zero
			}

			applied = append(applied, tx)
			idx++
		}

		ledger[day.Key()] = DailyLedgerEntry{
			Balance:      running,
			Transactions: applied,
		}
	}
	return ledger, warnings
}

// =============================================================================
// BALANCE LOOKUP
// =============================================================================

func (c Config) balanceOnDate(ledger Ledger, date calendar.Day) decimal.Decimal {
	key := date.Key()
	if entry, ok := ledger[key]; ok {
		return entry.Balance
	}

	keys := ledger.SortedKeys()
	if len(keys) == 0 {
		if date.AfterOrEqual(c.AsOfDate) {
			return c.InitialBalance
		}
		return decimal.Zero
	}

	if key < keys[0] {
		// Before the ledger starts the balance is zero, unless asked
		// about the as-of date itself.
		if date.Equal(c.AsOfDate) {
			return c.InitialBalance
		}
		return decimal.Zero
	}

	if key > keys[len(keys)-1] {
		return ledger[keys[len(keys)-1]].Balance
	}

	// Inside the range without an exact key should not happen given
	// the contiguity invariant; fall back to the nearest earlier day.
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i] <= key {
			return ledger[keys[i]].Balance
		}
	}
	return decimal.Zero
}
