package services

import (
	"time"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// GapFinder complements merged busy intervals against the work-day window
// to produce classified free slots.
type GapFinder struct{}

// NewGapFinder creates a gap finder.
func NewGapFinder() *GapFinder {
	return &GapFinder{}
}

// Find returns the free gaps of at least minGapMinutes within
// [workStart, workEnd], given the day's busy items. Items are merged
// first, so overlapping or touching busy time never produces phantom gaps.
func (f *GapFinder) Find(workStart, workEnd time.Time, items []domain.BusyItem, minGapMinutes int) []domain.Gap {
	return f.FindMerged(workStart, workEnd, domain.MergeItems(items), minGapMinutes)
}

// FindMerged is Find for callers that already hold merged intervals.
func (f *GapFinder) FindMerged(workStart, workEnd time.Time, busy []domain.TimeInterval, minGapMinutes int) []domain.Gap {
	gaps := make([]domain.Gap, 0)
	minDuration := time.Duration(minGapMinutes) * time.Minute

	keep := func(start, end time.Time) {
		start, end = clip(start, end, workStart, workEnd)
		if end.Sub(start) >= minDuration && end.After(start) {
			gaps = append(gaps, domain.NewGap(start, end))
		}
	}

	if len(busy) == 0 {
		keep(workStart, workEnd)
		return gaps
	}

	// Leading gap.
	keep(workStart, busy[0].Start)

	// Gaps between consecutive busy intervals.
	for i := 0; i < len(busy)-1; i++ {
		keep(busy[i].End, busy[i+1].Start)
	}

	// Trailing gap.
	keep(busy[len(busy)-1].End, workEnd)

	return gaps
}

// Stats aggregates the found gaps.
func (f *GapFinder) Stats(gaps []domain.Gap) domain.GapStats {
	return domain.ComputeGapStats(gaps)
}

func clip(start, end, windowStart, windowEnd time.Time) (time.Time, time.Time) {
	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}
	return start, end
}
