package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayLoad summarizes how loaded a single day is relative to the user's
// target work span.
type DayLoad struct {
	Date           time.Time `json:"date"`
	TotalMinutes   int       `json:"total_minutes"`
	WorkMinutes    int       `json:"work_minutes"`
	MeetingMinutes int       `json:"meeting_minutes"`
	BreakMinutes   int       `json:"break_minutes"`
	LoadScore      int       `json:"load_score"`
}

// WeekLoad aggregates day loads across an analyzed week.
type WeekLoad struct {
	Days            []DayLoad `json:"days"`
	AverageLoad     float64   `json:"average_load"`
	VariancePercent float64   `json:"variance_percent"`
	BalanceScore    int       `json:"balance_score"`
}

// Load thresholds: above the first a day counts as overloaded, below the
// second as underloaded.
const (
	OverloadedThreshold  = 85
	UnderloadedThreshold = 60
)

// Overloaded returns the days whose load score exceeds the overload threshold.
func (w WeekLoad) Overloaded() []DayLoad {
	days := make([]DayLoad, 0)
	for _, day := range w.Days {
		if day.LoadScore > OverloadedThreshold {
			days = append(days, day)
		}
	}
	return days
}

// Underloaded returns the days whose load score is below the underload threshold.
func (w WeekLoad) Underloaded() []DayLoad {
	days := make([]DayLoad, 0)
	for _, day := range w.Days {
		if day.LoadScore < UnderloadedThreshold {
			days = append(days, day)
		}
	}
	return days
}

// BalanceSuggestionKind is the kind of workload migration proposed.
type BalanceSuggestionKind string

const (
	// SuggestionMove proposes moving a block to a lighter day.
	SuggestionMove BalanceSuggestionKind = "move"
	// SuggestionSplit proposes splitting a long block across days.
	SuggestionSplit BalanceSuggestionKind = "split"
)

// BalanceSuggestion is a proposed block migration or split produced by a
// rebalancer. Suggestions are advisory; applying one goes through the
// block store like any other reschedule.
type BalanceSuggestion struct {
	Kind        BalanceSuggestionKind `json:"kind"`
	FromDate    time.Time             `json:"from_date"`
	ToDate      time.Time             `json:"to_date,omitempty"`
	BlockID     uuid.UUID             `json:"block_id"`
	BlockTitle  string                `json:"block_title"`
	Impact      string                `json:"impact"`
	Feasibility string                `json:"feasibility"`
}
