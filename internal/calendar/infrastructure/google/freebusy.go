// Package google queries the Google Calendar free/busy API for attendee
// availability when suggesting meeting slots.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/mitchforest/dayli/internal/scheduling/application/services"
	scheduling "github.com/mitchforest/dayli/internal/scheduling/domain"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

type tokenSourceProvider interface {
	TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error)
}

// FreeBusyClient looks up attendee busy intervals via the free/busy API.
type FreeBusyClient struct {
	oauthService tokenSourceProvider
	logger       *slog.Logger
	baseURL      string
}

// NewFreeBusyClient creates a free/busy client.
func NewFreeBusyClient(oauthService tokenSourceProvider, logger *slog.Logger) *FreeBusyClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FreeBusyClient{
		oauthService: oauthService,
		logger:       logger,
		baseURL:      defaultBaseURL,
	}
}

// NewFreeBusyClientWithBaseURL creates a free/busy client with a custom base URL.
func NewFreeBusyClientWithBaseURL(oauthService tokenSourceProvider, logger *slog.Logger, baseURL string) *FreeBusyClient {
	client := NewFreeBusyClient(oauthService, logger)
	if baseURL != "" {
		client.baseURL = baseURL
	}
	return client
}

type freeBusyRequest struct {
	TimeMin string `json:"timeMin"`
	TimeMax string `json:"timeMax"`
	Items   []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"busy"`
		Errors []struct {
			Domain string `json:"domain"`
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"calendars"`
}

// Availability returns busy intervals per attendee within the range.
// Attendees whose calendars cannot be read are listed as unknown rather
// than failing the call.
func (c *FreeBusyClient) Availability(ctx context.Context, userID uuid.UUID, attendees []string, start, end time.Time) (services.AttendeeAvailability, error) {
	availability := services.AttendeeAvailability{
		Busy: make(map[string][]scheduling.TimeInterval, len(attendees)),
	}
	if len(attendees) == 0 {
		return availability, nil
	}
	if c.oauthService == nil {
		return availability, fmt.Errorf("oauth service not configured")
	}

	tokenSource, err := c.oauthService.TokenSource(ctx, userID)
	if err != nil {
		return availability, err
	}

	client := http.Client{
		Timeout: 15 * time.Second,
		Transport: &oauthTransport{
			base:   http.DefaultTransport,
			source: tokenSource,
		},
	}

	payload := freeBusyRequest{
		TimeMin: start.UTC().Format(time.RFC3339),
		TimeMax: end.UTC().Format(time.RFC3339),
	}
	for _, attendee := range attendees {
		payload.Items = append(payload.Items, struct {
			ID string `json:"id"`
		}{ID: attendee})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return availability, err
	}

	queryURL := fmt.Sprintf("%s/freeBusy", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, queryURL, bytes.NewReader(body))
	if err != nil {
		return availability, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return availability, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return availability, responseError(resp)
	}

	var decoded freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return availability, err
	}

	for _, attendee := range attendees {
		calendar, ok := decoded.Calendars[attendee]
		if !ok || len(calendar.Errors) > 0 {
			availability.Unknown = append(availability.Unknown, attendee)
			continue
		}

		intervals := make([]scheduling.TimeInterval, 0, len(calendar.Busy))
		for _, busy := range calendar.Busy {
			busyStart, err := time.Parse(time.RFC3339, busy.Start)
			if err != nil {
				continue
			}
			busyEnd, err := time.Parse(time.RFC3339, busy.End)
			if err != nil {
				continue
			}
			intervals = append(intervals, scheduling.TimeInterval{Start: busyStart, End: busyEnd})
		}
		availability.Busy[attendee] = intervals
	}

	return availability, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("freebusy query failed: status=%d body=%s", resp.StatusCode, string(body))
}

type oauthTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *oauthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.base.RoundTrip(req)
}
