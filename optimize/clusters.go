package optimize

import (
	"sort"

	"github.com/warp/pto-planner/calendar"
)

// =============================================================================
// OFF-DAY CLUSTERS
// =============================================================================

// Cluster is a maximal run of consecutive off-days, padded with a
// two-day planning buffer on each side. DaysOff counts only the
// off-days themselves, not the buffer.
type Cluster struct {
	Start   calendar.Day
	End     calendar.Day
	DaysOff int
}

// findClusters scans the year for consecutive off-day runs. A run
// still open at Dec 31 closes with its buffer extending past the year
// boundary.
func findClusters(year int, weekends calendar.WeekendSet, offDays calendar.DaySet) []Cluster {
	var clusters []Cluster
	var start calendar.Day
	count := 0

	end := calendar.EndOfYear(year)
	for d := calendar.StartOfYear(year); d.BeforeOrEqual(end); d = d.AddDays(1) {
		if !calendar.IsWorkday(d, weekends, offDays) {
			if count == 0 {
				start = d
			}
			count++
			continue
		}
		if count > 0 {
			clusters = append(clusters, Cluster{
				Start:   start.AddDays(-2),
				End:     d.AddDays(1),
				DaysOff: count,
			})
			count = 0
		}
	}
	if count > 0 {
		clusters = append(clusters, Cluster{
			Start:   start.AddDays(-2),
			End:     end.AddDays(1),
			DaysOff: count,
		})
	}
	return clusters
}

// gapsAroundClusters turns each buffered cluster into a fillable gap
// sized by the workdays inside its buffered range. Clusters whose
// buffer holds no workdays produce nothing.
func gapsAroundClusters(clusters []Cluster, weekends calendar.WeekendSet, offDays calendar.DaySet) []Gap {
	var gaps []Gap
	for _, c := range clusters {
		workdays := workdaysInRange(c.Start, c.End, weekends, offDays)
		if len(workdays) == 0 {
			continue
		}
		gaps = append(gaps, Gap{Start: c.Start, End: c.End, Length: len(workdays)})
	}
	return gaps
}

// topClustersByDaysOff returns up to n clusters ordered by off-day
// count, largest first.
func topClustersByDaysOff(clusters []Cluster, n int) []Cluster {
	sorted := make([]Cluster, len(clusters))
	copy(sorted, clusters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DaysOff > sorted[j].DaysOff
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// workdaysInRange lists the workdays in [start, end] in chronological
// order.
func workdaysInRange(start, end calendar.Day, weekends calendar.WeekendSet, offDays calendar.DaySet) []calendar.Day {
	var days []calendar.Day
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if calendar.IsWorkday(d, weekends, offDays) {
			days = append(days, d)
		}
	}
	return days
}
