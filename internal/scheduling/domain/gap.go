package domain

import "time"

// DayPart classifies a gap by the part of the working day it starts in.
type DayPart string

const (
	DayPartMorning   DayPart = "morning"
	DayPartMidday    DayPart = "midday"
	DayPartAfternoon DayPart = "afternoon"
	DayPartEvening   DayPart = "evening"
)

// GapQuality indicates how usable a gap is for demanding work.
type GapQuality string

const (
	GapQualityHigh   GapQuality = "high"
	GapQualityMedium GapQuality = "medium"
	GapQualityLow    GapQuality = "low"
)

// Gap is a maximal free interval within work hours. Derived per request,
// never persisted.
type Gap struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	DayPart         DayPart
	Quality         GapQuality
	SuitableFor     []string
}

// GapStats aggregates the gaps of a single day.
type GapStats struct {
	Count              int
	TotalMinutes       int
	LargestGapMinutes  int
	AverageMinutes     int
	UtilizationPercent int
}

// referenceDayMinutes is the 8-hour day against which utilization is reported.
const referenceDayMinutes = 8 * 60

// NewGap builds a gap with its classification derived from the start hour
// and duration.
func NewGap(start, end time.Time) Gap {
	minutes := int(end.Sub(start) / time.Minute)
	part := classifyDayPart(start.Hour())
	quality := classifyQuality(part, minutes)

	return Gap{
		Start:           start,
		End:             end,
		DurationMinutes: minutes,
		DayPart:         part,
		Quality:         quality,
		SuitableFor:     suitabilityTags(part, quality),
	}
}

// Interval returns the gap's time interval.
func (g Gap) Interval() TimeInterval {
	return TimeInterval{Start: g.Start, End: g.End}
}

func classifyDayPart(hour int) DayPart {
	switch {
	case hour < 12:
		return DayPartMorning
	case hour < 14:
		return DayPartMidday
	case hour < 17:
		return DayPartAfternoon
	default:
		return DayPartEvening
	}
}

func classifyQuality(part DayPart, minutes int) GapQuality {
	switch part {
	case DayPartMorning:
		if minutes >= 90 {
			return GapQualityHigh
		}
		return GapQualityMedium
	case DayPartMidday:
		// Post-lunch dip.
		return GapQualityLow
	case DayPartAfternoon:
		if minutes >= 60 {
			return GapQualityMedium
		}
		return GapQualityLow
	default:
		return GapQualityLow
	}
}

func suitabilityTags(part DayPart, quality GapQuality) []string {
	switch {
	case part == DayPartMorning && quality == GapQualityHigh:
		return []string{"deep work", "complex tasks", "planning"}
	case part == DayPartMorning:
		return []string{"focused work", "meetings"}
	case part == DayPartMidday:
		return []string{"email", "admin", "light tasks"}
	case part == DayPartAfternoon && quality == GapQualityMedium:
		return []string{"meetings", "collaboration", "reviews"}
	case part == DayPartAfternoon:
		return []string{"email", "quick tasks"}
	default:
		return []string{"planning", "wrap-up", "email"}
	}
}

// ComputeGapStats aggregates gap metrics for a day. Utilization is the share
// of an 8-hour reference day not left free.
func ComputeGapStats(gaps []Gap) GapStats {
	stats := GapStats{Count: len(gaps)}
	for _, gap := range gaps {
		stats.TotalMinutes += gap.DurationMinutes
		if gap.DurationMinutes > stats.LargestGapMinutes {
			stats.LargestGapMinutes = gap.DurationMinutes
		}
	}
	if stats.Count > 0 {
		stats.AverageMinutes = stats.TotalMinutes / stats.Count
	}

	used := referenceDayMinutes - stats.TotalMinutes
	if used < 0 {
		used = 0
	}
	stats.UtilizationPercent = used * 100 / referenceDayMinutes
	return stats
}
