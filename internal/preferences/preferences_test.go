package preferences

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockOffset(t *testing.T) {
	tests := []struct {
		clock string
		want  time.Duration
	}{
		{"00:00", 0},
		{"09:00", 9 * time.Hour},
		{"12:30", 12*time.Hour + 30*time.Minute},
		{"23:59", 23*time.Hour + 59*time.Minute},
	}
	for _, tt := range tests {
		got, err := ClockOffset(tt.clock)
		require.NoError(t, err, tt.clock)
		assert.Equal(t, tt.want, got, tt.clock)
	}
}

func TestClockOffset_Invalid(t *testing.T) {
	for _, clock := range []string{"", "9am", "25:00", "09:60", "09", "09:00:00", "-1:00"} {
		_, err := ClockOffset(clock)
		assert.True(t, errors.Is(err, ErrInvalidClock), clock)
	}
}

func TestAtClock(t *testing.T) {
	date := time.Date(2026, time.January, 15, 18, 45, 12, 0, time.UTC)

	got, err := AtClock(date, "09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC), got)
}

func TestWorkWindow(t *testing.T) {
	prefs := Default(uuid.New())
	date := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	start, end, err := prefs.WorkWindow(date)
	require.NoError(t, err)
	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 17, end.Hour())
}

func TestLunchWindow(t *testing.T) {
	prefs := Default(uuid.New())
	date := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	start, end, err := prefs.LunchWindow(date)
	require.NoError(t, err)
	assert.Equal(t, 12, start.Hour())
	assert.Equal(t, 13, end.Hour())
}

func TestTargetMinutesPerDay(t *testing.T) {
	prefs := Default(uuid.New())
	assert.Equal(t, 420, prefs.TargetMinutesPerDay())

	prefs.WorkEnd = "18:00"
	assert.Equal(t, 480, prefs.TargetMinutesPerDay())

	// Unparseable clocks fall back to a full 8-hour target.
	prefs.WorkStart = "bogus"
	assert.Equal(t, 480, prefs.TargetMinutesPerDay())

	// A degenerate span falls back as well.
	short := &Preferences{WorkStart: "09:00", WorkEnd: "09:30", LunchDurationMinutes: 60}
	assert.Equal(t, 480, short.TargetMinutesPerDay())
}

type fixedStore struct {
	prefs *Preferences
	err   error
	saved *Preferences
}

func (s *fixedStore) Get(ctx context.Context, userID uuid.UUID) (*Preferences, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.prefs, nil
}

func (s *fixedStore) Save(ctx context.Context, prefs *Preferences) error {
	s.saved = prefs
	return nil
}

func TestFallbackStore_PassesThroughStoredPreferences(t *testing.T) {
	userID := uuid.New()
	stored := &Preferences{UserID: userID, WorkStart: "08:00", WorkEnd: "16:00", LunchStart: "11:30", LunchDurationMinutes: 30}
	store := NewFallbackStore(&fixedStore{prefs: stored}, *Default(uuid.Nil))

	got, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "08:00", got.WorkStart)
}

func TestFallbackStore_TemplateOnNotFound(t *testing.T) {
	userID := uuid.New()
	template := Preferences{WorkStart: "10:00", WorkEnd: "18:00", LunchStart: "13:00", LunchDurationMinutes: 45}
	store := NewFallbackStore(&fixedStore{err: ErrNotFound}, template)

	got, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "10:00", got.WorkStart)
	assert.Equal(t, 45, got.LunchDurationMinutes)
}

func TestFallbackStore_PropagatesOtherErrors(t *testing.T) {
	storeErr := errors.New("db down")
	store := NewFallbackStore(&fixedStore{err: storeErr}, *Default(uuid.Nil))

	_, err := store.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, storeErr))
}

func TestFallbackStore_SavePassesThrough(t *testing.T) {
	inner := &fixedStore{}
	store := NewFallbackStore(inner, *Default(uuid.Nil))

	prefs := Default(uuid.New())
	require.NoError(t, store.Save(context.Background(), prefs))
	assert.Equal(t, prefs, inner.saved)
}
