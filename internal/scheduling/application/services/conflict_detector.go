// Package services holds the pure scheduling computations: conflict
// detection, gap finding, slot scoring, workload balancing, and batch
// block planning. Every service operates on caller-supplied snapshots and
// has no side effects of its own.
package services

import (
	"fmt"
	"time"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// ConflictDetectorConfig tunes buffer and travel checks.
type ConflictDetectorConfig struct {
	// BufferMinutes is the minimum breathing room expected between items.
	BufferMinutes int
	// TravelBufferMinutes is the minimum gap expected between items at
	// different locations.
	TravelBufferMinutes int
}

// DefaultConflictDetectorConfig returns the standard buffers.
func DefaultConflictDetectorConfig() ConflictDetectorConfig {
	return ConflictDetectorConfig{
		BufferMinutes:       15,
		TravelBufferMinutes: 30,
	}
}

// ProtectedWindow is a user preference window (lunch, a standing break)
// that busy items should not intrude on.
type ProtectedWindow struct {
	ID       string
	Title    string
	Interval domain.TimeInterval
}

// ConflictDetector performs pairwise analysis of a day's busy items.
// It never reorders caller-supplied data.
type ConflictDetector struct {
	config ConflictDetectorConfig
}

// NewConflictDetector creates a detector with the given configuration.
func NewConflictDetector(config ConflictDetectorConfig) *ConflictDetector {
	if config.BufferMinutes <= 0 {
		config.BufferMinutes = DefaultConflictDetectorConfig().BufferMinutes
	}
	if config.TravelBufferMinutes <= 0 {
		config.TravelBufferMinutes = DefaultConflictDetectorConfig().TravelBufferMinutes
	}
	return &ConflictDetector{config: config}
}

// Detect reports every overlap, buffer, travel, and preference violation
// among the items, deduplicated by (type, sorted item IDs). The result is
// independent of the order items are supplied in.
func (d *ConflictDetector) Detect(items []domain.BusyItem, protected []ProtectedWindow) []domain.Conflict {
	conflicts := make([]domain.Conflict, 0)
	seen := make(map[string]struct{})

	record := func(c domain.Conflict) {
		key := c.Key()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		conflicts = append(conflicts, c)
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]

			if boundaryOverlap(a.Interval, b.Interval) {
				record(domain.Conflict{
					Type:        domain.ConflictTypeTimeOverlap,
					Severity:    domain.SeverityHigh,
					Items:       []domain.BusyItem{a, b},
					Description: fmt.Sprintf("%q overlaps with %q", a.Title, b.Title),
					Suggestions: []string{
						fmt.Sprintf("Reschedule %q to a free slot", b.Title),
						fmt.Sprintf("Shorten %q to end before %s", a.Title, b.Interval.Start.Format("15:04")),
					},
				})
				continue
			}

			// Buffer violations are evaluated in both directions because
			// proximity is asymmetric at the day's edges.
			d.checkBuffer(a, b, record)
			d.checkBuffer(b, a, record)

			d.checkTravel(a, b, record)
			d.checkTravel(b, a, record)
		}
	}

	for _, item := range items {
		for _, window := range protected {
			if !item.Interval.Overlaps(window.Interval) {
				continue
			}
			windowItem := domain.NewBusyItem(window.ID, domain.SourcePreferenceBlock, window.Title, window.Interval)
			record(domain.Conflict{
				Type:        domain.ConflictTypePreference,
				Severity:    domain.SeverityMedium,
				Items:       []domain.BusyItem{item, windowItem},
				Description: fmt.Sprintf("%q intrudes on protected time %q", item.Title, window.Title),
				Suggestions: []string{
					fmt.Sprintf("Move %q outside %s-%s", item.Title, window.Interval.Start.Format("15:04"), window.Interval.End.Format("15:04")),
				},
			})
		}
	}

	return conflicts
}

// checkBuffer records a medium time_overlap conflict when the gap from the
// end of first to the start of second is shorter than the buffer.
func (d *ConflictDetector) checkBuffer(first, second domain.BusyItem, record func(domain.Conflict)) {
	gap := second.Interval.Start.Sub(first.Interval.End)
	if gap < 0 || gap >= time.Duration(d.config.BufferMinutes)*time.Minute {
		return
	}

	record(domain.Conflict{
		Type:     domain.ConflictTypeTimeOverlap,
		Severity: domain.SeverityMedium,
		Items:    []domain.BusyItem{first, second},
		Description: fmt.Sprintf("Only %d minutes between %q and %q (buffer is %d)",
			int(gap/time.Minute), first.Title, second.Title, d.config.BufferMinutes),
		Suggestions: []string{
			fmt.Sprintf("Start %q %d minutes later", second.Title, d.config.BufferMinutes-int(gap/time.Minute)),
		},
	})
}

// checkTravel records a high travel_time conflict for temporally adjacent
// items at distinct locations with too little time to travel between them.
func (d *ConflictDetector) checkTravel(first, second domain.BusyItem, record func(domain.Conflict)) {
	if first.Location == "" || second.Location == "" || first.Location == second.Location {
		return
	}

	gap := second.Interval.Start.Sub(first.Interval.End)
	if gap < 0 || gap >= time.Duration(d.config.TravelBufferMinutes)*time.Minute {
		return
	}

	record(domain.Conflict{
		Type:     domain.ConflictTypeTravelTime,
		Severity: domain.SeverityHigh,
		Items:    []domain.BusyItem{first, second},
		Description: fmt.Sprintf("%d minutes to get from %q to %q (need %d)",
			int(gap/time.Minute), first.Location, second.Location, d.config.TravelBufferMinutes),
		Suggestions: []string{
			fmt.Sprintf("Make %q remote or move it %d minutes later", second.Title, d.config.TravelBufferMinutes),
		},
	})
}

// boundaryOverlap applies the boundary-inclusive overlap checks: either
// interval starting or ending inside the other counts.
func boundaryOverlap(a, b domain.TimeInterval) bool {
	within := func(t time.Time, iv domain.TimeInterval) bool {
		return !t.Before(iv.Start) && !t.After(iv.End)
	}
	return within(a.Start, b) || within(a.End, b) || within(b.Start, a) || within(b.End, a)
}
