package domain

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityState reports what is known about an attendee's calendar
// during a candidate slot. Unknown is never treated as available; the
// scorer keeps it neutral and surfaces it in the factor breakdown.
type AvailabilityState string

const (
	AvailabilityAvailable AvailabilityState = "available"
	AvailabilityBusy      AvailabilityState = "busy"
	AvailabilityUnknown   AvailabilityState = "unknown"
)

// SlotFactors is the explainable factor breakdown behind a candidate score.
type SlotFactors struct {
	AllAvailable        bool                         `json:"all_available"`
	ConflictCount       int                          `json:"conflict_count"`
	AttendeeStates      map[string]AvailabilityState `json:"attendee_states,omitempty"`
	PreferredTime       bool                         `json:"preferred_time"`
	EnergyAlignment     bool                         `json:"energy_alignment"`
	MinimizesDisruption bool                         `json:"minimizes_disruption"`
	TravelTime          bool                         `json:"travel_time"`
}

// SlotCandidate is a proposed meeting window with its comparative score.
// Scores are not normalized; only their ordering is meaningful.
type SlotCandidate struct {
	Date    time.Time   `json:"date"`
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Score   float64     `json:"score"`
	Factors SlotFactors `json:"factors"`
}

// TaskEnergy describes the energy a task demands of its slot.
type TaskEnergy string

const (
	TaskEnergyHigh   TaskEnergy = "high"
	TaskEnergyMedium TaskEnergy = "medium"
	TaskEnergyLow    TaskEnergy = "low"
)

// TaskPriority ranks a task for slot fitting.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// SchedulableTask is the slice of a task the slot scorer needs.
type SchedulableTask struct {
	ID               uuid.UUID
	Title            string
	EstimatedMinutes int
	Energy           TaskEnergy
	Priority         TaskPriority
	Keywords         []string
}

// TaskSlotFactors is the factor breakdown for a task-to-gap fit.
type TaskSlotFactors struct {
	UtilizationScore int  `json:"utilization_score"`
	EnergyMatch      bool `json:"energy_match"`
	EnergyMismatch   bool `json:"energy_mismatch"`
	KeywordMatches   int  `json:"keyword_matches"`
	PriorityBoost    int  `json:"priority_boost"`
}

// TaskCandidate pairs a gap with a task and the fit score.
type TaskCandidate struct {
	TaskID  uuid.UUID       `json:"task_id"`
	Gap     Gap             `json:"gap"`
	Score   float64         `json:"score"`
	Factors TaskSlotFactors `json:"factors"`
}
