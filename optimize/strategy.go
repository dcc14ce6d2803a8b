package optimize

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/pto-planner/calendar"
	"github.com/warp/pto-planner/pto"
)

// =============================================================================
// STRATEGIES
// =============================================================================

// Strategy selects which break shapes the optimizer proposes.
type Strategy string

const (
	StrategyNone         Strategy = "none"
	StrategyBalanced     Strategy = "balanced"
	StrategyLongWeekends Strategy = "long-weekends"
	StrategyMiniBreaks   Strategy = "mini-breaks"
	StrategyWeekLong     Strategy = "week-long"
	StrategyExtended     Strategy = "extended"
)

// Gap discovery thresholds: the longest workday run each strategy
// considers fillable.
const (
	longWeekendGapThreshold = 2
	miniBreakGapThreshold   = 3
	balancedGapThreshold    = 4
	defaultGapThreshold     = 5
)

// Per-gap spend caps during greedy selection.
const (
	longWeekendMaxPerGap = 2
	miniBreakMaxPerGap   = 3
	balancedMaxPerGap    = 4
	extendedMaxPerRun    = 10
	extendedClusterCount = 2
)

// StrategyInput carries the year snapshot a strategy plans against.
// AccrualRate and AccrualFrequency describe the plan for callers that
// want to report projected earnings alongside suggestions; the greedy
// selection itself consults the BalanceOracle per candidate day.
type StrategyInput struct {
	Year             int
	Weekends         calendar.WeekendSet
	Holidays         []calendar.Day
	PTOBalance       decimal.Decimal
	AccrualRate      decimal.Decimal
	AccrualFrequency pto.Frequency
}

// BalanceOracle reports the whole-day balance available on a date.
// A candidate day is affordable when the oracle returns >= 1.
type BalanceOracle func(calendar.Day) decimal.Decimal

// SuggestDays runs the named strategy and returns proposed off-days in
// selection order. StrategyNone returns nil. Suggestions never mutate
// any ledger state.
func SuggestDays(strategy Strategy, input StrategyInput, oracle BalanceOracle) ([]calendar.Day, error) {
	switch strategy {
	case StrategyNone:
		return nil, nil
	case StrategyBalanced:
		return BalancedMixDays(input, oracle), nil
	case StrategyLongWeekends:
		return LongWeekendDays(input, oracle), nil
	case StrategyMiniBreaks:
		return MiniBreakDays(input, oracle), nil
	case StrategyWeekLong:
		return WeekLongBreakDays(input, oracle), nil
	case StrategyExtended:
		return ExtendedVacationDays(input, oracle), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// LongWeekendDays targets 1-2 day gaps adjoining weekends, spending at
// most two days per gap.
func LongWeekendDays(input StrategyInput, oracle BalanceOracle) []calendar.Day {
	return fillRankedGaps(input, oracle, longWeekendGapThreshold, longWeekendMaxPerGap)
}

// MiniBreakDays targets gaps of up to three workdays, spending at most
// three days per gap.
func MiniBreakDays(input StrategyInput, oracle BalanceOracle) []calendar.Day {
	return fillRankedGaps(input, oracle, miniBreakGapThreshold, miniBreakMaxPerGap)
}

// BalancedMixDays targets gaps of up to four workdays, spending at
// most four days per gap.
func BalancedMixDays(input StrategyInput, oracle BalanceOracle) []calendar.Day {
	return fillRankedGaps(input, oracle, balancedGapThreshold, balancedMaxPerGap)
}

// WeekLongBreakDays builds breaks around existing off-day clusters:
// each buffered cluster becomes a gap filled end-to-start without a
// per-gap cap, longest cluster first.
func WeekLongBreakDays(input StrategyInput, oracle BalanceOracle) []calendar.Day {
	offDays := offDaySet(input.Holidays)
	clusters := findClusters(input.Year, input.Weekends, offDays)
	gaps := gapsAroundClusters(clusters, input.Weekends, offDays)
	ranked := rankGapsByLength(gaps)
	return selectDays(ranked, input.PTOBalance, input.Weekends, offDays, oracle, func(g Gap) int {
		return g.Length
	})
}

// ExtendedVacationDays concentrates spend on the two largest off-day
// clusters, filling up to ten workdays inside each buffered range in
// chronological order.
func ExtendedVacationDays(input StrategyInput, oracle BalanceOracle) []calendar.Day {
	offDays := offDaySet(input.Holidays)
	clusters := findClusters(input.Year, input.Weekends, offDays)
	top := topClustersByDaysOff(clusters, extendedClusterCount)

	var selected []calendar.Day
	remaining := wholeDays(input.PTOBalance)
	for _, c := range top {
		if remaining <= 0 {
			break
		}
		workdays := workdaysInRange(c.Start, c.End, input.Weekends, offDays)
		daysToUse := min(extendedMaxPerRun, remaining, len(workdays))
		for i := 0; i < daysToUse; i++ {
			if oracle(workdays[i]).GreaterThanOrEqual(decimal.NewFromInt(1)) {
				selected = append(selected, workdays[i])
				remaining--
			}
		}
	}
	return selected
}

// fillRankedGaps is the shared gap-threshold strategy body: discover
// gaps up to maxLen workdays, rank by chain efficiency, then greedily
// spend up to maxPerGap days per gap.
func fillRankedGaps(input StrategyInput, oracle BalanceOracle, maxLen, maxPerGap int) []calendar.Day {
	offDays := offDaySet(input.Holidays)
	gaps := findGaps(input.Year, input.Weekends, offDays, maxLen)
	ranked := rankGapsByEfficiency(gaps, input.Weekends, offDays)
	return selectDays(ranked, input.PTOBalance, input.Weekends, offDays, oracle, func(Gap) int {
		return maxPerGap
	})
}

// selectDays walks ranked gaps in order, filling each from its chosen
// edge. Candidate days already off are skipped without spending; each
// accepted day must clear the oracle's >= 1 day check.
func selectDays(ranked []rankedGap, balance decimal.Decimal, weekends calendar.WeekendSet, offDays calendar.DaySet, oracle BalanceOracle, capFor func(Gap) int) []calendar.Day {
	var selected []calendar.Day
	one := decimal.NewFromInt(1)
	remaining := wholeDays(balance)

	for _, gap := range ranked {
		if remaining <= 0 {
			break
		}
		start, dir := gap.Start, +1
		if gap.FillFromEnd {
			start, dir = gap.End, -1
		}
		daysToUse := min(capFor(gap.Gap), gap.Length, remaining)
		for i := 0; i < daysToUse; i++ {
			d := start.AddDays(i * dir)
			if !calendar.IsWorkday(d, weekends, offDays) {
				continue
			}
			if oracle(d).GreaterThanOrEqual(one) {
				selected = append(selected, d)
				remaining--
				if remaining <= 0 {
					break
				}
			}
		}
	}
	return selected
}

func offDaySet(holidays []calendar.Day) calendar.DaySet {
	set := calendar.NewDaySet()
	for _, d := range holidays {
		set.Add(d)
	}
	return set
}

// wholeDays truncates a day balance to the number of full days it can
// fund. Negative balances fund nothing.
func wholeDays(balance decimal.Decimal) int {
	if balance.IsNegative() {
		return 0
	}
	return int(balance.IntPart())
}
