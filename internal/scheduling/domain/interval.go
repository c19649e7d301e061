package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)

// TimeInterval is a half-open time range. Invariant: End is after Start.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval creates a validated time interval.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !end.After(start) {
		return TimeInterval{}, ErrInvalidTimeRange
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Duration returns the interval length.
func (t TimeInterval) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Minutes returns the interval length in whole minutes.
func (t TimeInterval) Minutes() int {
	return int(t.Duration() / time.Minute)
}

// Overlaps reports whether two intervals share any time, boundaries excluded.
func (t TimeInterval) Overlaps(other TimeInterval) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Contains reports whether the instant falls within the interval,
// start-inclusive and end-exclusive.
func (t TimeInterval) Contains(instant time.Time) bool {
	return !instant.Before(t.Start) && instant.Before(t.End)
}

// Touches reports whether the intervals overlap or share a boundary.
func (t TimeInterval) Touches(other TimeInterval) bool {
	return !t.Start.After(other.End) && !other.Start.After(t.End)
}

// MergeItems normalizes the busy items of a day into a sorted set of
// non-overlapping intervals. Touching intervals are coalesced. The input
// slice is never modified; the result is deterministic under reordering.
func MergeItems(items []BusyItem) []TimeInterval {
	intervals := make([]TimeInterval, 0, len(items))
	for _, item := range items {
		intervals = append(intervals, item.Interval)
	}
	return MergeIntervals(intervals)
}

// MergeIntervals coalesces a set of intervals into a sorted, non-overlapping
// set. Intervals whose boundaries touch are merged into one.
func MergeIntervals(intervals []TimeInterval) []TimeInterval {
	if len(intervals) == 0 {
		return []TimeInterval{}
	}

	sorted := make([]TimeInterval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]TimeInterval, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !next.Start.After(last.End) {
			if next.End.After(last.End) {
				last.End = next.End
			}
			continue
		}
		merged = append(merged, next)
	}

	return merged
}
