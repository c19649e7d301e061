package domain

import (
	"sort"
	"strings"
)

// ConflictType classifies a scheduling conflict.
type ConflictType string

const (
	// ConflictTypeTimeOverlap covers direct overlaps and buffer violations.
	ConflictTypeTimeOverlap ConflictType = "time_overlap"
	// ConflictTypeTravelTime flags back-to-back items at different locations.
	ConflictTypeTravelTime ConflictType = "travel_time"
	// ConflictTypeResource flags contention over a shared resource.
	ConflictTypeResource ConflictType = "resource"
	// ConflictTypePreference flags items intruding on protected time.
	ConflictTypePreference ConflictType = "preference"
)

// Severity ranks how disruptive a conflict is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Conflict is a detected violation among busy items. Derived per request,
// never persisted.
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Items       []BusyItem
	Description string
	Suggestions []string
}

// Key returns the deduplication key: the conflict type joined with the
// sorted set of involved item IDs.
func (c Conflict) Key() string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ID)
	}
	sort.Strings(ids)
	return string(c.Type) + "|" + strings.Join(ids, ",")
}
