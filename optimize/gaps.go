/*
Package optimize implements the day-off suggestion scheduler.

PURPOSE:
  Scans a calendar year for workday gaps between existing off-days and
  for clusters of consecutive off-days, ranks them by how efficiently
  a PTO day spent there lengthens a break, and greedily proposes
  candidate off-days under a per-day balance feasibility check.

KEY CONCEPTS:
  - Gap: a maximal run of workdays bounded by off-days
  - Cluster: a maximal run of off-days, padded with a 2-day buffer
  - Chain: the consecutive-days-off streak a filled gap would create
  - BalanceOracle: answers "how many whole days are available on D"

SUGGESTIONS ARE ADVISORY:
  The optimizer never mutates the ledger. Returned dates are candidates
  the caller may add to the selected-day set before rebuilding.

SEE ALSO:
  - gaps.go: gap discovery and efficiency ranking
  - clusters.go: off-day cluster discovery
  - strategy.go: the five selection strategies
*/
package optimize

import (
	"sort"

	"github.com/warp/pto-planner/calendar"
)

// =============================================================================
// GAP DISCOVERY
// =============================================================================

// Gap is a maximal run of consecutive workdays bounded by off-days.
// Every day in [Start, End] is a workday; Length is the run length.
type Gap struct {
	Start  calendar.Day
	End    calendar.Day
	Length int
}

// findGaps scans the year for workday runs of length <= maxLen bounded
// by off-days. A run still open at Dec 31 is not bounded and is
// discarded.
func findGaps(year int, weekends calendar.WeekendSet, offDays calendar.DaySet, maxLen int) []Gap {
	var gaps []Gap
	var gapStart calendar.Day
	open := false

	end := calendar.EndOfYear(year)
	for d := calendar.StartOfYear(year); d.BeforeOrEqual(end); d = d.AddDays(1) {
		if calendar.IsWorkday(d, weekends, offDays) {
			if !open {
				gapStart = d
				open = true
			}
			continue
		}
		if open {
			length := calendar.DaysBetween(gapStart, d)
			if length > 0 && length <= maxLen {
				gaps = append(gaps, Gap{Start: gapStart, End: d.AddDays(-1), Length: length})
			}
			open = false
		}
	}
	return gaps
}

// =============================================================================
// EFFICIENCY RANKING
// =============================================================================

// rankedGap is a gap annotated with its best fill direction.
type rankedGap struct {
	Gap
	// ChainLength is the consecutive-days-off streak filling the gap
	// would create, counting the adjoining off-day runs.
	ChainLength int
	// UsedDaysOff is how many actual workdays the fill consumes.
	UsedDaysOff int
	// FillFromEnd fills End->Start when true, Start->End otherwise.
	FillFromEnd bool
}

// rankGapsByEfficiency computes, per gap, the chain achievable by
// extending from either edge into adjoining off-days, keeps the better
// direction (tie: fewer workdays consumed), and sorts by chain length
// descending, then raw gap length ascending, then days consumed
// ascending.
func rankGapsByEfficiency(gaps []Gap, weekends calendar.WeekendSet, offDays calendar.DaySet) []rankedGap {
	ranked := make([]rankedGap, 0, len(gaps))
	for _, gap := range gaps {
		backChain, backUsed := chain(gap.Start, gap.Length, weekends, offDays, -1)
		fwdChain, fwdUsed := chain(gap.End, gap.Length, weekends, offDays, +1)

		if fwdChain > backChain || (fwdChain == backChain && fwdUsed <= backUsed) {
			ranked = append(ranked, rankedGap{Gap: gap, ChainLength: fwdChain, UsedDaysOff: fwdUsed, FillFromEnd: true})
		} else {
			ranked = append(ranked, rankedGap{Gap: gap, ChainLength: backChain, UsedDaysOff: backUsed})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ChainLength != ranked[j].ChainLength {
			return ranked[i].ChainLength > ranked[j].ChainLength
		}
		if ranked[i].Length != ranked[j].Length {
			return ranked[i].Length < ranked[j].Length
		}
		return ranked[i].UsedDaysOff < ranked[j].UsedDaysOff
	})
	return ranked
}

// rankGapsByLength orders cluster-derived gaps by raw length, longest
// first, filled from the end backward.
func rankGapsByLength(gaps []Gap) []rankedGap {
	ranked := make([]rankedGap, 0, len(gaps))
	for _, gap := range gaps {
		ranked = append(ranked, rankedGap{Gap: gap, ChainLength: gap.Length, FillFromEnd: true})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Length > ranked[j].Length
	})
	return ranked
}

// chain walks from one gap edge in the given direction (+1 forward,
// -1 backward) through adjoining off-days, returning the total streak
// the filled gap would create and how many workdays the gap fill
// itself consumes.
func chain(edge calendar.Day, gapLength int, weekends calendar.WeekendSet, offDays calendar.DaySet, dir int) (length, used int) {
	length = gapLength

	cur := edge
	for {
		next := cur.AddDays(dir)
		if calendar.IsWorkday(next, weekends, offDays) {
			break
		}
		length++
		cur = next
	}

	for i := 0; i < gapLength; i++ {
		if calendar.IsWorkday(edge.AddDays(i*dir), weekends, offDays) {
			used++
		}
	}
	return length, used
}
