package gcalendar_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chronix/pkg/gcalendar"
)

type rewriteTransport struct {
	Transport http.RoundTripper
	Host      string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.Host
	return t.Transport.RoundTrip(req)
}

func TestCalendarClient(t *testing.T) {
	t.Run("List Events E2E", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/calendar/v3/calendars/test-fail/events" && r.Method == http.MethodGet {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if r.URL.Path == "/calendar/v3/calendars/primary/events" && r.Method == http.MethodGet {
				if r.URL.Query().Get("singleEvents") != "true" {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{
					"items": [
						{
							"id": "event-123",
							"summary": "Existing Event",
							"start": { "date": "2024-05-01" },
							"end": { "date": "2024-05-02" }
						},
						{
							"id": "event-456",
							"summary": "Design review",
							"start": { "dateTime": "2024-05-01T10:00:00+07:00" },
							"end": { "dateTime": "2024-05-01T11:00:00+07:00" }
						},
						{
							"id": "event-789",
							"summary": "Focus",
							"transparency": "transparent",
							"start": { "dateTime": "2024-05-01T14:00:00+07:00" },
							"end": { "dateTime": "2024-05-01T15:00:00+07:00" }
						},
						{
							"id": "event-000",
							"summary": "Skipped sync",
							"attendees": [{"email": "me@example.com", "self": true, "responseStatus": "declined"}],
							"start": { "dateTime": "2024-05-01T16:00:00+07:00" },
							"end": { "dateTime": "2024-05-01T16:30:00+07:00" }
						}
					]
				}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		tsClient := ts.Client()
		tsClient.Transport = &rewriteTransport{
			Transport: tsClient.Transport,
			Host:      strings.TrimPrefix(ts.URL, "http://"),
		}

		client, err := gcalendar.NewClientFromHTTP(context.Background(), tsClient)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		events, err := client.ListEvents(context.Background(), gcalendar.ListEventsRequest{
			TimeMin: time.Now(),
			TimeMax: time.Now().Add(time.Hour * 24),
		})
		if err != nil {
			t.Fatalf("failed to list events: %v", err)
		}
		if len(events) != 4 {
			t.Fatalf("expected 4 events, got %d", len(events))
		}
		if events[0].Summary != "Existing Event" || !events[0].AllDay || events[0].Busy() {
			t.Errorf("unexpected all-day event: %+v", events[0])
		}
		if !events[1].Busy() || events[1].EndTime.Sub(events[1].StartTime) != time.Hour {
			t.Errorf("unexpected timed event: %+v", events[1])
		}
		if events[2].Busy() || events[3].Busy() {
			t.Errorf("transparent and declined events must not block time")
		}

		_, err = client.ListEvents(context.Background(), gcalendar.ListEventsRequest{
			CalendarID: "test-fail",
			TimeMin:    time.Now(),
			TimeMax:    time.Now().Add(time.Hour * 24),
		})
		if err == nil {
			t.Fatalf("expected api error on test-fail")
		}
	})
}
