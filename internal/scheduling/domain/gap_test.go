package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGap_Classification(t *testing.T) {
	tests := []struct {
		name        string
		startHour   int
		endHour     int
		wantPart    DayPart
		wantQuality GapQuality
	}{
		{"long morning gap is high quality", 9, 11, DayPartMorning, GapQualityHigh},
		{"short morning gap is medium quality", 9, 10, DayPartMorning, GapQualityMedium},
		{"midday gap is always low quality", 12, 14, DayPartMidday, GapQualityLow},
		{"hour-long afternoon gap is medium quality", 14, 15, DayPartAfternoon, GapQualityMedium},
		{"evening gap is low quality", 17, 18, DayPartEvening, GapQualityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gap := NewGap(at(t, tt.startHour, 0), at(t, tt.endHour, 0))
			assert.Equal(t, tt.wantPart, gap.DayPart)
			assert.Equal(t, tt.wantQuality, gap.Quality)
			assert.NotEmpty(t, gap.SuitableFor)
		})
	}
}

func TestNewGap_ShortAfternoonGapIsLow(t *testing.T) {
	gap := NewGap(at(t, 14, 0), at(t, 14, 30))
	assert.Equal(t, GapQualityLow, gap.Quality)
}

func TestComputeGapStats(t *testing.T) {
	gaps := []Gap{
		NewGap(at(t, 9, 0), at(t, 10, 0)),  // 60m
		NewGap(at(t, 14, 0), at(t, 16, 0)), // 120m
	}

	stats := ComputeGapStats(gaps)

	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 180, stats.TotalMinutes)
	assert.Equal(t, 120, stats.LargestGapMinutes)
	assert.Equal(t, 90, stats.AverageMinutes)
	// 300 of 480 reference minutes are occupied.
	assert.Equal(t, 62, stats.UtilizationPercent)
}

func TestComputeGapStats_FullyFreeDay(t *testing.T) {
	stats := ComputeGapStats([]Gap{NewGap(at(t, 9, 0), at(t, 17, 0))})

	assert.Equal(t, 480, stats.TotalMinutes)
	assert.Equal(t, 0, stats.UtilizationPercent)
}

func TestComputeGapStats_NoGaps(t *testing.T) {
	stats := ComputeGapStats(nil)

	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, 100, stats.UtilizationPercent)
}
