package gcalendar

import (
	"context"
	"strings"

	"chronix/internal/model"
	"chronix/internal/task/repository"
	"chronix/pkg/gcalendar"
	pkgLog "chronix/pkg/log"
)

// EventLister is the part of the calendar client the repository needs.
type EventLister interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
}

type implRepository struct {
	client     EventLister
	calendarID string
	l          pkgLog.Logger
}

// New creates a repository that turns busy calendar events into meeting blocks.
func New(client EventLister, calendarID string, l pkgLog.Logger) repository.CalendarRepository {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &implRepository{
		client:     client,
		calendarID: calendarID,
		l:          l,
	}
}

func (r *implRepository) ListBusy(ctx context.Context, opt repository.ListBusyOptions) ([]model.BlockedPeriod, error) {
	events, err := r.client.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: r.calendarID,
		TimeMin:    opt.From,
		TimeMax:    opt.To,
	})
	if err != nil {
		r.l.Errorf(ctx, "gcalendar repository: failed to list events: %v", err)
		return nil, err
	}

	blocks := make([]model.BlockedPeriod, 0, len(events))
	for _, e := range events {
		if !e.Busy() || !e.EndTime.After(e.StartTime) {
			continue
		}
		label := strings.TrimSpace(e.Summary)
		if label == "" {
			label = "Busy"
		}
		blocks = append(blocks, model.BlockedPeriod{
			Start: e.StartTime,
			End:   e.EndTime,
			Kind:  model.BlockMeeting,
			Label: label,
		})
	}
	return blocks, nil
}
