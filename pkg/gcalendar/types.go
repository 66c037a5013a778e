package gcalendar

import "time"

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID        string
	Summary   string
	HtmlLink  string
	StartTime time.Time
	EndTime   time.Time
	AllDay    bool
	// Transparent events do not block time ("show as available").
	Transparent bool
	Declined    bool
}

// ListEventsRequest is the input for listing Google Calendar events.
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int64
}

// Busy reports whether the event should block scheduling.
func (e Event) Busy() bool {
	return !e.AllDay && !e.Transparent && !e.Declined
}
