/*
carryover.go - Year-boundary balance corrections

PURPOSE:
  Computes the corrective transactions applied when a year-end balance
  exceeds the configured carryover cap. The calculation reads a
  provisional ledger built from the pre-carryover transactions only;
  reading the live ledger would make carryover depend on itself.

SHAPE:
  At most one cap correction per consecutive year pair in the visible
  range, dated Jan 1 of the following year. With an expiry date set,
  one more correction per year removes the carried-in amount that was
  not consumed by that date.
*/
package pto

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/pto-planner/calendar"
)

// carryoverTransactions emits cap corrections for each year boundary
// inside the visible range. pre must be the complete pre-carryover
// transaction set; it is not modified.
func (c Config) carryoverTransactions(pre []Transaction) []Transaction {
	if !c.Carryover.Enabled || c.Carryover.MaxDays == nil || len(c.VisibleYears) < 2 {
		return nil
	}

	// Provisional ledger: clamping rules must apply to the year-end
	// balance reads, so they go through a real build pass.
	provisional := append([]Transaction(nil), pre...)
	sortTransactions(provisional)
	ledger, _ := c.buildDailyLedger(provisional)

	max := c.normalize(*c.Carryover.MaxDays, UnitDays)

	var txs []Transaction
	years := c.sortedYears()
	for i := 0; i < len(years)-1; i++ {
		year := years[i]
		yearEnd := calendar.EndOfYear(year)
		balance := c.balanceOnDate(ledger, yearEnd)

		if balance.GreaterThan(max) {
			excess := balance.Sub(max)
			txs = append(txs, Transaction{
				Date:   calendar.StartOfYear(year + 1),
				Type:   TxCarryover,
				Amount: Amount{Value: excess.Neg(), Unit: c.BalanceUnit},
				Note:   fmt.Sprintf("Carryover adjustment: balance %s exceeded max %s", balance, max),
			})
		}

		// Expiry applies to whatever actually carried over, capped or
		// not; an under-cap balance still expires.
		if exp := c.expiryTransaction(pre, year+1, decimal.Min(balance, max)); exp != nil {
			txs = append(txs, *exp)
		}
	}
	return txs
}

// expiryTransaction removes the part of a carried-in balance that was
// not consumed by the expiry date. Carried days are treated as spent
// first, so the expired amount is the carried amount minus usage
// between Jan 1 and the expiry date.
func (c Config) expiryTransaction(pre []Transaction, year int, carried decimal.Decimal) *Transaction {
	expiry := c.Carryover.ExpiryDate
	if expiry == nil || expiry.Year() != year || !carried.IsPositive() {
		return nil
	}

	used := decimal.Zero
	windowStart := calendar.StartOfYear(year)
	for _, tx := range pre {
		if tx.Type == TxUsage && tx.Date.AfterOrEqual(windowStart) && tx.Date.BeforeOrEqual(*expiry) {
			used = used.Add(tx.Amount.Value.Neg())
		}
	}

	remaining := carried.Sub(used)
	if !remaining.IsPositive() {
		return nil
	}
	return &Transaction{
		Date:   *expiry,
		Type:   TxCarryover,
		Amount: Amount{Value: remaining.Neg(), Unit: c.BalanceUnit},
		Note:   fmt.Sprintf("Carryover expiry: %s unused carried balance expired", remaining),
	}
}
