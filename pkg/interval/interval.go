package interval

import (
	"sort"
	"time"
)

// Interval is a [Start, End] time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End − Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Merge collapses overlapping or touching intervals into a minimal sorted set
// covering the same union of time. The input slice is not modified.
func Merge(intervals []Interval) []Interval {
	if len(intervals) <= 1 {
		return intervals
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, current := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !current.Start.After(last.End) {
			if current.End.After(last.End) {
				last.End = current.End
			}
		} else {
			merged = append(merged, current)
		}
	}
	return merged
}

// TotalDuration sums the durations of the given intervals.
func TotalDuration(intervals []Interval) time.Duration {
	var total time.Duration
	for _, i := range intervals {
		total += i.Duration()
	}
	return total
}
