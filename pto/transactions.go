/*
transactions.go - Transaction generation (pre-carryover)

PURPOSE:
  Converts the plan configuration and the selected-day set into the
  three transaction kinds known before carryover: the single initial
  adjustment, scheduled accruals, and usage debits. Carryover is
  computed afterwards from a provisional ledger (see carryover.go).

ORDERING:
  Output here is unsorted; deterministic ordering is the ledger
  builder's job.
*/
package pto

import (
	"fmt"

	"github.com/warp/pto-planner/calendar"
)

// initialTransaction is the single adjustment anchoring the balance:
// InitialBalance on AsOfDate. Exactly one exists per build.
func (c Config) initialTransaction() Transaction {
	return Transaction{
		Date:   c.AsOfDate,
		Type:   TxAdjustment,
		Amount: Amount{Value: c.InitialBalance, Unit: c.BalanceUnit},
		Note:   "Initial balance",
	}
}

// accrualTransactions generates one credit per schedule date in
// [AsOfDate, RangeEnd]. A template the schedule cannot interpret, or a
// schedule with no date inside the range, degrades to an empty list
// with a diagnostic warning.
func (c Config) accrualTransactions() ([]Transaction, []Warning) {
	schedule := NewSchedule(c.Template.withDefaults(c.AccrualFrequency))
	end := c.RangeEnd()

	current, found, err := schedule.First(c.AsOfDate)
	if err != nil {
		return nil, []Warning{{
			Code:    WarnBadTemplate,
			Message: fmt.Sprintf("accrual generation skipped: %v", err),
		}}
	}
	if found && current.Equal(c.AsOfDate) {
		// The balance is defined to equal InitialBalance exactly on
		// the as-of date; a schedule date landing there is already
		// part of the initial balance, not a separate credit.
		next, nerr := schedule.Next(current)
		if nerr != nil {
			return nil, nil
		}
		current = next
	}
	if !found || current.After(end) {
		return nil, []Warning{{
			Code:    WarnNoSchedule,
			Message: "no accrual date matches the template within the visible range",
		}}
	}

	rate := c.normalize(c.AccrualRate, c.AccrualUnit)

	var txs []Transaction
	for current.BeforeOrEqual(end) {
		txs = append(txs, Transaction{
			Date:   current,
			Type:   TxAccrual,
			Amount: Amount{Value: rate, Unit: c.BalanceUnit},
			Note:   fmt.Sprintf("Regular %s accrual", c.AccrualFrequency),
		})

		next, err := schedule.Next(current)
		if err != nil || !next.After(current) {
			// A non-advancing schedule would loop forever.
			break
		}
		current = next
	}
	return txs, nil
}

// usageTransactions generates one debit per selected day. Days are
// deduplicated by calendar date, and days before AsOfDate are dropped
// with a warning rather than rejected.
func (c Config) usageTransactions(selected []calendar.Day) ([]Transaction, []Warning) {
	debit := c.normalize(oneDay, UnitDays).Neg()

	var txs []Transaction
	var warnings []Warning
	seen := make(calendar.DaySet, len(selected))

	for _, day := range selected {
		if seen.Contains(day) {
			continue
		}
		seen.Add(day)

		if day.Before(c.AsOfDate) {
			warnings = append(warnings, Warning{
				Code:    WarnPastSelection,
				Date:    day,
				Message: fmt.Sprintf("selected day %s is before the as-of date %s and was ignored", day, c.AsOfDate),
			})
			continue
		}

		txs = append(txs, Transaction{
			Date:   day,
			Type:   TxUsage,
			Amount: Amount{Value: debit, Unit: c.BalanceUnit},
			Note:   "PTO used",
		})
	}
	return txs, warnings
}
