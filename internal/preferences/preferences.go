// Package preferences holds user scheduling preferences: work hours,
// the protected lunch window, and standing breaks. Times arrive already
// normalized to HH:MM; no natural-language parsing happens here.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("preferences not found")
	ErrInvalidClock = errors.New("clock must be HH:MM")
)

// BreakWindow is a standing break in the user's day.
type BreakWindow struct {
	Title           string `json:"title"`
	Start           string `json:"start"` // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
}

// Preferences are a user's scheduling preferences.
type Preferences struct {
	UserID               uuid.UUID     `json:"user_id"`
	WorkStart            string        `json:"work_start"` // HH:MM
	WorkEnd              string        `json:"work_end"`   // HH:MM
	LunchStart           string        `json:"lunch_start"`
	LunchDurationMinutes int           `json:"lunch_duration_minutes"`
	BreakSchedule        []BreakWindow `json:"break_schedule,omitempty"`
}

// Store is the external preference collaborator.
type Store interface {
	// Get returns the user's preferences, or ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*Preferences, error)

	// Save persists the user's preferences.
	Save(ctx context.Context, prefs *Preferences) error
}

// Default returns the standard 9-to-5 preferences with a noon lunch.
func Default(userID uuid.UUID) *Preferences {
	return &Preferences{
		UserID:               userID,
		WorkStart:            "09:00",
		WorkEnd:              "17:00",
		LunchStart:           "12:00",
		LunchDurationMinutes: 60,
	}
}

// WorkWindow returns the work-day bounds anchored on the given date.
func (p *Preferences) WorkWindow(date time.Time) (time.Time, time.Time, error) {
	start, err := AtClock(date, p.WorkStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := AtClock(date, p.WorkEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// LunchWindow returns the protected lunch interval anchored on the date.
func (p *Preferences) LunchWindow(date time.Time) (time.Time, time.Time, error) {
	start, err := AtClock(date, p.LunchStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(time.Duration(p.LunchDurationMinutes) * time.Minute), nil
}

// TargetMinutesPerDay derives the daily load target from the work span,
// less the lunch window.
func (p *Preferences) TargetMinutesPerDay() int {
	start, err := ClockOffset(p.WorkStart)
	if err != nil {
		return 8 * 60
	}
	end, err := ClockOffset(p.WorkEnd)
	if err != nil {
		return 8 * 60
	}
	minutes := int((end - start) / time.Minute)
	minutes -= p.LunchDurationMinutes
	if minutes <= 0 {
		return 8 * 60
	}
	return minutes
}

// WorkStartOffset returns the work start as an offset from midnight.
func (p *Preferences) WorkStartOffset() (time.Duration, error) {
	return ClockOffset(p.WorkStart)
}

// WorkEndOffset returns the work end as an offset from midnight.
func (p *Preferences) WorkEndOffset() (time.Duration, error) {
	return ClockOffset(p.WorkEnd)
}

// LunchStartOffset returns the lunch start as an offset from midnight.
func (p *Preferences) LunchStartOffset() (time.Duration, error) {
	return ClockOffset(p.LunchStart)
}

// ClockOffset parses an HH:MM clock into an offset from midnight.
func ClockOffset(clock string) (time.Duration, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// AtClock anchors an HH:MM clock on a date.
func AtClock(date time.Time, clock string) (time.Time, error) {
	offset, err := ClockOffset(clock)
	if err != nil {
		return time.Time{}, err
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(offset), nil
}
