package gcalendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	DefaultCalendarID = "primary"
	defaultMaxResults = 250
)

// Client wraps the Google Calendar API service.
type Client struct {
	service *calendar.Service
}

// NewClientFromHTTP creates a Calendar client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: svc}, nil
}

// ListEvents returns single events overlapping [TimeMin, TimeMax), recurring
// events expanded, ordered by start time.
func (c *Client) ListEvents(ctx context.Context, req ListEventsRequest) ([]Event, error) {
	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var out []Event
	call := c.service.Events.List(calendarID).
		TimeMin(req.TimeMin.Format(time.RFC3339)).
		TimeMax(req.TimeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults)

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			ev, err := convertEvent(item)
			if err != nil {
				return err
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return out, nil
}

func convertEvent(item *calendar.Event) (Event, error) {
	ev := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		HtmlLink:    item.HtmlLink,
		Transparent: item.Transparency == "transparent",
	}
	for _, a := range item.Attendees {
		if a.Self && a.ResponseStatus == "declined" {
			ev.Declined = true
		}
	}

	if item.Start == nil || item.End == nil {
		return ev, fmt.Errorf("event %s has no start or end", item.Id)
	}

	if item.Start.DateTime == "" {
		ev.AllDay = true
		start, err := time.Parse(time.DateOnly, item.Start.Date)
		if err != nil {
			return ev, fmt.Errorf("event %s: invalid start date: %w", item.Id, err)
		}
		end, err := time.Parse(time.DateOnly, item.End.Date)
		if err != nil {
			return ev, fmt.Errorf("event %s: invalid end date: %w", item.Id, err)
		}
		ev.StartTime, ev.EndTime = start, end
		return ev, nil
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return ev, fmt.Errorf("event %s: invalid start: %w", item.Id, err)
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return ev, fmt.Errorf("event %s: invalid end: %w", item.Id, err)
	}
	ev.StartTime, ev.EndTime = start, end
	return ev, nil
}
