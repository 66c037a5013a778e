package scheduler

import (
	"time"

	"chronix/internal/model"
	"chronix/pkg/datemath"
)

// OverduePolicy decides where tasks whose deadline already passed are queued.
type OverduePolicy string

const (
	// OverdueUrgent keeps overdue tasks in deadline order, which puts them first.
	OverdueUrgent OverduePolicy = "urgent"
	// OverdueDefer queues overdue tasks after every task that can still be on time.
	OverdueDefer OverduePolicy = "defer"
)

// ParseOverduePolicy accepts "" as OverdueUrgent.
func ParseOverduePolicy(s string) (OverduePolicy, error) {
	switch OverduePolicy(s) {
	case "", OverdueUrgent:
		return OverdueUrgent, nil
	case OverdueDefer:
		return OverdueDefer, nil
	}
	return "", ErrInvalidPolicy
}

// Request is the input of one scheduling run.
type Request struct {
	Now     time.Time
	Horizon model.Interval
	Tasks   []model.Task
	Blocked []model.BlockedPeriod
	Policy  OverduePolicy
}

// RecurringBlock is a daily blocked period from configuration.
// An End at or before Start spans midnight.
type RecurringBlock struct {
	Start datemath.Clock
	End   datemath.Clock
	Kind  model.BlockKind
	Label string
	// Days restricts the block to these weekdays; empty means every day.
	Days []time.Weekday
}

// Reasons recorded on unscheduled tasks.
const (
	ReasonNoWindow    = "no free window long enough"
	ReasonPast        = "no free time left before the end of the horizon"
	ReasonBadDuration = "duration must be positive"
)

type window struct {
	model.Interval
	cursor time.Time
	placed []model.Segment
}

func (w *window) remaining() time.Duration {
	return w.End.Sub(w.cursor)
}
