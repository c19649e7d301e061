package services

import (
	"sort"
	"strings"
	"time"

	"github.com/mitchforest/dayli/internal/scheduling/domain"
)

// Scoring constants for the meeting-placement profile. Scores are
// comparative, never normalized or clamped.
const (
	meetingBaseScore         = 100.0
	allAvailableBonus        = 50.0
	conflictPenaltyPerItem   = 10.0
	preferredTimeBonus       = 20.0
	energyAlignmentBonus     = 15.0
	minimizesDisruptionBonus = 10.0

	slotGridMinutes      = 30
	maxMeetingCandidates = 5
)

// Scoring constants for the task-to-slot profile.
const (
	perfectFitScore       = 40
	goodFitScore          = 25
	looseFitScore         = 10
	energyMatchBonus      = 30
	energyMismatchPenalty = -10
	keywordMatchBonus     = 10
	highPriorityBoost     = 15
	mediumPriorityBoost   = 5
)

// TimePreference biases candidate slots toward a part of the day.
type TimePreference string

const (
	PreferenceNone      TimePreference = ""
	PreferenceMorning   TimePreference = "morning"
	PreferenceAfternoon TimePreference = "afternoon"
)

// DaySnapshot is the caller-fetched busy picture for one date of the
// search range.
type DaySnapshot struct {
	Date time.Time
	Busy []domain.BusyItem
}

// AttendeeAvailability carries what is known about other attendees'
// calendars across the search range. Attendees absent from Busy and not
// listed in Unknown are treated as available; attendees in Unknown are
// scored neutrally and surfaced in the factor breakdown.
type AttendeeAvailability struct {
	Busy    map[string][]domain.TimeInterval
	Unknown []string
}

// MeetingSlotRequest describes a meeting-placement search.
type MeetingSlotRequest struct {
	DurationMinutes     int
	WorkdayStart        time.Duration // offset from midnight, e.g. 9h
	WorkdayEnd          time.Duration
	LunchStart          time.Duration
	LunchDuration       time.Duration
	Preference          TimePreference
	RequireAllAttendees bool
	Attendees           []string
}

// SlotScorer generates and ranks candidate time windows. Both profiles
// share the shape score = base + sum of weighted factors, and both return
// the full factor breakdown for explainability.
type SlotScorer struct{}

// NewSlotScorer creates a slot scorer.
func NewSlotScorer() *SlotScorer {
	return &SlotScorer{}
}

// SuggestMeetingSlots generates candidates on a 30-minute grid across the
// supplied days, scores each, and returns the top candidates in
// descending score order.
func (s *SlotScorer) SuggestMeetingSlots(
	req MeetingSlotRequest,
	days []DaySnapshot,
	availability AttendeeAvailability,
) []domain.SlotCandidate {
	candidates := make([]domain.SlotCandidate, 0)
	duration := time.Duration(req.DurationMinutes) * time.Minute
	grid := slotGridMinutes * time.Minute

	for _, day := range days {
		midnight := time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 0, 0, 0, 0, day.Date.Location())
		dayStart := midnight.Add(req.WorkdayStart)
		dayEnd := midnight.Add(req.WorkdayEnd)

		var lunch *domain.TimeInterval
		if req.LunchDuration > 0 {
			lunch = &domain.TimeInterval{
				Start: midnight.Add(req.LunchStart),
				End:   midnight.Add(req.LunchStart + req.LunchDuration),
			}
		}

		for start := dayStart; !start.Add(duration).After(dayEnd); start = start.Add(grid) {
			slot := domain.TimeInterval{Start: start, End: start.Add(duration)}
			if lunch != nil && slot.Overlaps(*lunch) {
				continue
			}

			candidate, keep := s.scoreMeetingSlot(req, day, slot, availability)
			if keep {
				candidates = append(candidates, candidate)
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Start.Before(candidates[j].Start)
	})

	if len(candidates) > maxMeetingCandidates {
		candidates = candidates[:maxMeetingCandidates]
	}
	return candidates
}

func (s *SlotScorer) scoreMeetingSlot(
	req MeetingSlotRequest,
	day DaySnapshot,
	slot domain.TimeInterval,
	availability AttendeeAvailability,
) (domain.SlotCandidate, bool) {
	factors := domain.SlotFactors{}

	conflictCount := 0
	for _, item := range day.Busy {
		if slot.Overlaps(item.Interval) {
			conflictCount++
		}
	}

	hasUnknown := false
	if len(req.Attendees) > 0 {
		factors.AttendeeStates = make(map[string]domain.AvailabilityState, len(req.Attendees))
		unknown := make(map[string]struct{}, len(availability.Unknown))
		for _, name := range availability.Unknown {
			unknown[name] = struct{}{}
		}

		for _, attendee := range req.Attendees {
			if _, ok := unknown[attendee]; ok {
				factors.AttendeeStates[attendee] = domain.AvailabilityUnknown
				hasUnknown = true
				continue
			}
			state := domain.AvailabilityAvailable
			for _, busy := range availability.Busy[attendee] {
				if slot.Overlaps(busy) {
					state = domain.AvailabilityBusy
					conflictCount++
					break
				}
			}
			factors.AttendeeStates[attendee] = state
		}
	}

	if req.RequireAllAttendees && conflictCount > 0 {
		return domain.SlotCandidate{}, false
	}

	factors.ConflictCount = conflictCount
	// Unknown availability is neutral: it blocks the all-available bonus
	// but never counts as a conflict.
	factors.AllAvailable = conflictCount == 0 && !hasUnknown

	score := meetingBaseScore
	if factors.AllAvailable {
		score += allAvailableBonus
	} else {
		score -= conflictPenaltyPerItem * float64(conflictCount)
	}

	hour := slot.Start.Hour()
	switch req.Preference {
	case PreferenceMorning:
		factors.PreferredTime = hour < 12
	case PreferenceAfternoon:
		factors.PreferredTime = hour >= 12 && hour < 17
	}
	if factors.PreferredTime {
		score += preferredTimeBonus
	}

	factors.EnergyAlignment = hour == 10 || (hour >= 14 && hour < 16)
	if factors.EnergyAlignment {
		score += energyAlignmentBonus
	}

	factors.MinimizesDisruption = hour == 9 || hour == 16
	if factors.MinimizesDisruption {
		score += minimizesDisruptionBonus
	}

	return domain.SlotCandidate{
		Date:    time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 0, 0, 0, 0, day.Date.Location()),
		Start:   slot.Start,
		End:     slot.End,
		Score:   score,
		Factors: factors,
	}, true
}

// FitTask scores a task against free gaps. Gaps shorter than the task's
// estimate are excluded before scoring. Candidates come back in
// descending score order.
func (s *SlotScorer) FitTask(task domain.SchedulableTask, gaps []domain.Gap) []domain.TaskCandidate {
	candidates := make([]domain.TaskCandidate, 0)

	for _, gap := range gaps {
		if gap.DurationMinutes < task.EstimatedMinutes {
			continue
		}

		factors := domain.TaskSlotFactors{}
		score := 0.0

		ratio := float64(task.EstimatedMinutes) / float64(gap.DurationMinutes)
		switch {
		case ratio >= 0.8:
			factors.UtilizationScore = perfectFitScore
		case ratio >= 0.5:
			factors.UtilizationScore = goodFitScore
		default:
			factors.UtilizationScore = looseFitScore
		}
		score += float64(factors.UtilizationScore)

		if task.Energy != "" {
			if energyForQuality(gap.Quality) == task.Energy {
				factors.EnergyMatch = true
				score += energyMatchBonus
			} else {
				factors.EnergyMismatch = true
				score += energyMismatchPenalty
			}
		}

		factors.KeywordMatches = keywordOverlap(task.Keywords, gap.SuitableFor)
		score += float64(factors.KeywordMatches * keywordMatchBonus)

		switch task.Priority {
		case domain.TaskPriorityHigh:
			factors.PriorityBoost = highPriorityBoost
		case domain.TaskPriorityMedium:
			factors.PriorityBoost = mediumPriorityBoost
		}
		score += float64(factors.PriorityBoost)

		candidates = append(candidates, domain.TaskCandidate{
			TaskID:  task.ID,
			Gap:     gap,
			Score:   score,
			Factors: factors,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Gap.Start.Before(candidates[j].Gap.Start)
	})

	return candidates
}

func energyForQuality(quality domain.GapQuality) domain.TaskEnergy {
	switch quality {
	case domain.GapQualityHigh:
		return domain.TaskEnergyHigh
	case domain.GapQualityMedium:
		return domain.TaskEnergyMedium
	default:
		return domain.TaskEnergyLow
	}
}

func keywordOverlap(keywords, tags []string) int {
	matches := 0
	for _, keyword := range keywords {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw == "" {
			continue
		}
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				matches++
				break
			}
		}
	}
	return matches
}
