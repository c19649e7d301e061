package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

func busyAt(t *testing.T, id, title string, startHour, startMin, endHour, endMin int) domain.BusyItem {
	t.Helper()
	start := time.Date(2026, 1, 15, startHour, startMin, 0, 0, time.UTC)
	end := time.Date(2026, 1, 15, endHour, endMin, 0, 0, time.UTC)
	iv, err := domain.NewTimeInterval(start, end)
	require.NoError(t, err)
	return domain.NewBusyItem(id, domain.SourceCalendarEvent, title, iv)
}

func conflictTypes(conflicts []domain.Conflict) map[domain.ConflictType]int {
	counts := make(map[domain.ConflictType]int)
	for _, c := range conflicts {
		counts[c.Type]++
	}
	return counts
}

func TestConflictDetector_NoItems(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	conflicts := detector.Detect(nil, nil)

	assert.Empty(t, conflicts)
}

func TestConflictDetector_DirectOverlapIsHigh(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	conflicts := detector.Detect([]domain.BusyItem{
		busyAt(t, "a", "Standup", 9, 0, 10, 0),
		busyAt(t, "b", "Review", 9, 30, 10, 30),
	}, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictTypeTimeOverlap, conflicts[0].Type)
	assert.Equal(t, domain.SeverityHigh, conflicts[0].Severity)
	assert.Len(t, conflicts[0].Items, 2)
	assert.NotEmpty(t, conflicts[0].Suggestions)
}

func TestConflictDetector_BackToBackCountsAsOverlap(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	conflicts := detector.Detect([]domain.BusyItem{
		busyAt(t, "a", "Standup", 9, 0, 10, 0),
		busyAt(t, "b", "Review", 10, 0, 11, 0),
	}, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictTypeTimeOverlap, conflicts[0].Type)
	assert.Equal(t, domain.SeverityHigh, conflicts[0].Severity)
}

func TestConflictDetector_BufferViolationIsMedium(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	// 5 minutes between items, buffer is 15.
	conflicts := detector.Detect([]domain.BusyItem{
		busyAt(t, "a", "Standup", 9, 0, 10, 0),
		busyAt(t, "b", "Review", 10, 5, 11, 0),
	}, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictTypeTimeOverlap, conflicts[0].Type)
	assert.Equal(t, domain.SeverityMedium, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Description, "5 minutes")
}

func TestConflictDetector_SufficientBufferIsClean(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	conflicts := detector.Detect([]domain.BusyItem{
		busyAt(t, "a", "Standup", 9, 0, 10, 0),
		busyAt(t, "b", "Review", 10, 15, 11, 0),
	}, nil)

	assert.Empty(t, conflicts)
}

func TestConflictDetector_TravelTime(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	first := busyAt(t, "a", "Client visit", 9, 0, 10, 0).WithLocation("Downtown office")
	second := busyAt(t, "b", "Team sync", 10, 20, 11, 0).WithLocation("HQ")

	conflicts := detector.Detect([]domain.BusyItem{first, second}, nil)

	counts := conflictTypes(conflicts)
	assert.Equal(t, 1, counts[domain.ConflictTypeTravelTime])

	byType := make(map[domain.ConflictType]domain.Conflict)
	for _, c := range conflicts {
		byType[c.Type] = c
	}
	assert.Equal(t, domain.SeverityHigh, byType[domain.ConflictTypeTravelTime].Severity)
}

func TestConflictDetector_SameLocationNeedsNoTravel(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	first := busyAt(t, "a", "Client visit", 9, 0, 10, 0).WithLocation("HQ")
	second := busyAt(t, "b", "Team sync", 10, 20, 11, 0).WithLocation("HQ")

	conflicts := detector.Detect([]domain.BusyItem{first, second}, nil)

	assert.Zero(t, conflictTypes(conflicts)[domain.ConflictTypeTravelTime])
}

func TestConflictDetector_ProtectedWindowIntrusion(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	lunch := ProtectedWindow{
		ID:    "preference:lunch",
		Title: "Lunch",
		Interval: domain.TimeInterval{
			Start: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 1, 15, 13, 0, 0, 0, time.UTC),
		},
	}

	conflicts := detector.Detect([]domain.BusyItem{
		busyAt(t, "a", "Vendor call", 12, 30, 13, 30),
	}, []ProtectedWindow{lunch})

	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictTypePreference, conflicts[0].Type)
	assert.Equal(t, domain.SeverityMedium, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Description, "Lunch")
}

func TestConflictDetector_OrderIndependent(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	items := []domain.BusyItem{
		busyAt(t, "a", "Standup", 9, 0, 10, 0),
		busyAt(t, "b", "Review", 9, 30, 10, 30),
		busyAt(t, "c", "Planning", 10, 35, 11, 0),
	}
	reversed := []domain.BusyItem{items[2], items[1], items[0]}

	forward := detector.Detect(items, nil)
	backward := detector.Detect(reversed, nil)

	require.Equal(t, len(forward), len(backward))

	keys := func(conflicts []domain.Conflict) map[string]struct{} {
		set := make(map[string]struct{})
		for _, c := range conflicts {
			set[c.Key()] = struct{}{}
		}
		return set
	}
	assert.Equal(t, keys(forward), keys(backward))
}

func TestConflictDetector_DeduplicatesPairs(t *testing.T) {
	detector := NewConflictDetector(DefaultConflictDetectorConfig())

	// The same pair must never produce two overlap conflicts.
	conflicts := detector.Detect([]domain.BusyItem{
		busyAt(t, "a", "Standup", 9, 0, 11, 0),
		busyAt(t, "b", "Review", 9, 0, 11, 0),
	}, nil)

	assert.Len(t, conflicts, 1)
}

func TestNewConflictDetector_DefaultsZeroConfig(t *testing.T) {
	detector := NewConflictDetector(ConflictDetectorConfig{})

	// Items 10 minutes apart violate the defaulted 15-minute buffer.
	conflicts := detector.Detect([]domain.BusyItem{
		busyAt(t, "a", "Standup", 9, 0, 10, 0),
		busyAt(t, "b", "Review", 10, 10, 11, 0),
	}, nil)

	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.SeverityMedium, conflicts[0].Severity)
}
