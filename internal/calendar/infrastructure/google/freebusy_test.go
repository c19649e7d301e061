package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type staticTokenSource struct{}

func (staticTokenSource) TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error) {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}), nil
}

func TestFreeBusyClient_Availability(t *testing.T) {
	var gotAuth string
	var gotBody freeBusyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		response := map[string]any{
			"calendars": map[string]any{
				"sam@example.com": map[string]any{
					"busy": []map[string]string{
						{"start": "2026-01-15T10:00:00Z", "end": "2026-01-15T11:00:00Z"},
					},
				},
				"kit@example.com": map[string]any{
					"errors": []map[string]string{
						{"domain": "global", "reason": "notFound"},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewFreeBusyClientWithBaseURL(staticTokenSource{}, nil, server.URL)
	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	availability, err := client.Availability(
		context.Background(), uuid.New(),
		[]string{"sam@example.com", "kit@example.com"},
		start, start.AddDate(0, 0, 1),
	)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Len(t, gotBody.Items, 2)

	require.Len(t, availability.Busy["sam@example.com"], 1)
	busy := availability.Busy["sam@example.com"][0]
	assert.Equal(t, time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC), busy.Start)
	assert.Equal(t, time.Date(2026, time.January, 15, 11, 0, 0, 0, time.UTC), busy.End)

	assert.Equal(t, []string{"kit@example.com"}, availability.Unknown)
}

func TestFreeBusyClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewFreeBusyClientWithBaseURL(staticTokenSource{}, nil, server.URL)

	_, err := client.Availability(
		context.Background(), uuid.New(),
		[]string{"sam@example.com"},
		time.Now(), time.Now().Add(time.Hour),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
}

func TestFreeBusyClient_NoAttendees(t *testing.T) {
	client := NewFreeBusyClient(staticTokenSource{}, nil)

	availability, err := client.Availability(context.Background(), uuid.New(), nil, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, availability.Busy)
	assert.Empty(t, availability.Unknown)
}

func TestStaticCredentials_RequiresConfiguration(t *testing.T) {
	_, err := StaticCredentials{}.TokenSource(context.Background(), uuid.New())
	assert.Error(t, err)
}
