// Package caldav implements the calendar provider against a CalDAV server
// (Apple Calendar, Fastmail, Nextcloud, etc.).
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/mitchforest/dayli/internal/calendar/domain"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

const (
	propRRule        = "RRULE"
	propAttendee     = "ATTENDEE"
	propRecurrenceID = "RECURRENCE-ID"
	propExDate       = "EXDATE"
)

// Provider reads and writes events on a CalDAV calendar.
type Provider struct {
	baseURL      string
	username     string
	password     string // App-specific password for Apple
	calendarPath string // Specific calendar path, or empty for default
	logger       *slog.Logger
}

// NewProvider creates a CalDAV calendar provider.
func NewProvider(baseURL, username, password string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		baseURL:  baseURL,
		username: username,
		password: password,
		logger:   logger,
	}
}

// WithCalendarPath sets the specific calendar path to use.
func (p *Provider) WithCalendarPath(path string) *Provider {
	p.calendarPath = path
	return p
}

// ListEvents returns events intersecting the window, with recurring series
// expanded into concrete instances.
func (p *Provider) ListEvents(ctx context.Context, userID uuid.UUID, window domain.Window) ([]domain.Event, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name: "VEVENT",
					Props: []string{
						"SUMMARY", "DTSTART", "DTEND", "UID", "LOCATION",
						"STATUS", propAttendee, propRRule, propExDate, propRecurrenceID,
					},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: window.Start,
					End:   window.End,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	events := make([]domain.Event, 0, len(objects))
	for _, obj := range objects {
		events = append(events, p.expandObject(&obj, window)...)
	}
	return events, nil
}

// GetEvent fetches a single event by UID.
func (p *Provider) GetEvent(ctx context.Context, userID uuid.UUID, id string) (*domain.Event, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	obj, err := client.GetCalendarObject(ctx, eventPath(calPath, id))
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	event := parseObject(obj)
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// CreateEvent writes a new event to the calendar.
func (p *Provider) CreateEvent(ctx context.Context, userID uuid.UUID, spec domain.EventSpec) (*domain.Event, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	id := uuid.New().String()
	cal := toICalendar(id, spec)
	if _, err := client.PutCalendarObject(ctx, eventPath(calPath, id), cal); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &domain.Event{
		ID:        id,
		Summary:   spec.Summary,
		Start:     spec.Start,
		End:       spec.End,
		Attendees: spec.Attendees,
		Location:  spec.Location,
		Status:    "confirmed",
	}, nil
}

// UpdateEvent overwrites an existing event with the spec.
func (p *Provider) UpdateEvent(ctx context.Context, userID uuid.UUID, id string, spec domain.EventSpec) (*domain.Event, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	path := eventPath(calPath, id)
	if _, err := client.GetCalendarObject(ctx, path); err != nil {
		return nil, domain.ErrEventNotFound
	}

	cal := toICalendar(id, spec)
	if _, err := client.PutCalendarObject(ctx, path, cal); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &domain.Event{
		ID:        id,
		Summary:   spec.Summary,
		Start:     spec.Start,
		End:       spec.End,
		Attendees: spec.Attendees,
		Location:  spec.Location,
		Status:    "confirmed",
	}, nil
}

// CheckConflicts returns events overlapping the window, excluding excludeID.
func (p *Provider) CheckConflicts(ctx context.Context, userID uuid.UUID, window domain.Window, excludeID string) ([]domain.Event, error) {
	events, err := p.ListEvents(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	conflicts := make([]domain.Event, 0)
	for _, event := range events {
		if excludeID != "" && (event.ID == excludeID || event.RecurringEventID == excludeID) {
			continue
		}
		if event.Overlaps(window.Start, window.End) {
			conflicts = append(conflicts, event)
		}
	}
	return conflicts, nil
}

// Helper methods

func (p *Provider) getClient() (*caldav.Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, p.username, p.password), p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (p *Provider) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if p.calendarPath != "" {
		return p.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// Use first calendar as default
	return cals[0].Path, nil
}

// expandObject parses a calendar object and, when the VEVENT carries an
// RRULE, expands it into the instances falling inside the window.
func (p *Provider) expandObject(obj *caldav.CalendarObject, window domain.Window) []domain.Event {
	base := parseObject(obj)
	if base == nil {
		return nil
	}

	rawRule := vEventProp(obj, propRRule)
	if rawRule == "" {
		return []domain.Event{*base}
	}

	rule, err := rrule.StrToRRule(rawRule)
	if err != nil {
		p.logger.Warn("failed to parse RRULE, keeping base occurrence",
			"event_id", base.ID, "rrule", rawRule, "error", err)
		return []domain.Event{*base}
	}
	rule.DTStart(base.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range vEventExDates(obj, base.Start.Location()) {
		set.ExDate(ex)
	}

	duration := base.End.Sub(base.Start)
	starts := set.Between(window.Start.In(base.Start.Location()), window.End.In(base.Start.Location()), true)

	instances := make([]domain.Event, 0, len(starts))
	for _, start := range starts {
		instance := *base
		instance.ID = fmt.Sprintf("%s_%s", base.ID, start.UTC().Format("20060102T150405Z"))
		instance.RecurringEventID = base.ID
		instance.Start = start
		instance.End = start.Add(duration)
		instances = append(instances, instance)
	}
	return instances
}

// parseObject extracts the first VEVENT from a calendar object.
func parseObject(obj *caldav.CalendarObject) *domain.Event {
	if obj == nil || obj.Data == nil {
		return nil
	}

	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}

		event := &domain.Event{ID: obj.Path}
		if props := child.Props[ical.PropUID]; len(props) > 0 {
			event.ID = props[0].Value
		}
		if props := child.Props[ical.PropSummary]; len(props) > 0 {
			event.Summary = props[0].Value
		}
		if props := child.Props[ical.PropLocation]; len(props) > 0 {
			event.Location = props[0].Value
		}
		if props := child.Props[ical.PropStatus]; len(props) > 0 {
			event.Status = strings.ToLower(props[0].Value)
		}
		for _, prop := range child.Props[propAttendee] {
			event.Attendees = append(event.Attendees, strings.TrimPrefix(strings.ToLower(prop.Value), "mailto:"))
		}
		if props := child.Props[propRecurrenceID]; len(props) > 0 {
			event.RecurringEventID = event.ID
		}

		icalEvent := &ical.Event{Component: child}
		if start, err := icalEvent.DateTimeStart(time.UTC); err == nil {
			event.Start = start
		}
		if end, err := icalEvent.DateTimeEnd(time.UTC); err == nil {
			event.End = end
		}

		return event
	}
	return nil
}

// vEventProp returns the value of a named property on the first VEVENT.
func vEventProp(obj *caldav.CalendarObject, name string) string {
	if obj == nil || obj.Data == nil {
		return ""
	}
	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		if props := child.Props[name]; len(props) > 0 {
			return props[0].Value
		}
		return ""
	}
	return ""
}

// vEventExDates collects EXDATE values from the first VEVENT.
func vEventExDates(obj *caldav.CalendarObject, loc *time.Location) []time.Time {
	if obj == nil || obj.Data == nil {
		return nil
	}
	var out []time.Time
	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		for _, prop := range child.Props[propExDate] {
			if t, err := time.ParseInLocation("20060102T150405", strings.TrimSuffix(prop.Value, "Z"), loc); err == nil {
				out = append(out, t)
			}
		}
		break
	}
	return out
}

func eventPath(calPath, id string) string {
	return fmt.Sprintf("%s%s.ics", calPath, id)
}

// toICalendar builds the VCALENDAR payload for an event spec.
func toICalendar(id string, spec domain.EventSpec) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Dayli//Scheduling Engine//EN")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, id)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, spec.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, spec.End.UTC())
	event.Props.SetText(ical.PropSummary, spec.Summary)
	if spec.Location != "" {
		event.Props.SetText(ical.PropLocation, spec.Location)
	}
	for _, attendee := range spec.Attendees {
		prop := ical.NewProp(propAttendee)
		prop.Value = "mailto:" + attendee
		event.Props[propAttendee] = append(event.Props[propAttendee], *prop)
	}

	cal.Children = append(cal.Children, event.Component)
	return cal
}
