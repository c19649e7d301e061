package domain

// BusySource identifies where a busy item came from.
type BusySource string

const (
	// SourceScheduleBlock marks items backed by a persisted schedule block.
	SourceScheduleBlock BusySource = "schedule_block"
	// SourceCalendarEvent marks items backed by an external calendar event.
	SourceCalendarEvent BusySource = "calendar_event"
	// SourcePreferenceBlock marks protected preference windows (lunch, breaks).
	SourcePreferenceBlock BusySource = "preference_block"
)

// BusyItem is an immutable per-request snapshot of anything occupying time:
// a schedule block, an external calendar event, or a protected preference
// window. The engine never persists busy items.
type BusyItem struct {
	ID        string
	Source    BusySource
	Title     string
	Interval  TimeInterval
	Location  string
	Recurring bool
}

// NewBusyItem creates a busy item over a validated interval.
func NewBusyItem(id string, source BusySource, title string, interval TimeInterval) BusyItem {
	return BusyItem{
		ID:       id,
		Source:   source,
		Title:    title,
		Interval: interval,
	}
}

// WithLocation returns a copy of the item carrying a location.
func (b BusyItem) WithLocation(location string) BusyItem {
	b.Location = location
	return b
}

// WithRecurring returns a copy of the item flagged as recurring.
func (b BusyItem) WithRecurring(recurring bool) BusyItem {
	b.Recurring = recurring
	return b
}
