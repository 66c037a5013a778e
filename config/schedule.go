package config

import (
	"fmt"
	"time"

	"chronix/internal/model"
	"chronix/internal/scheduler"
	"chronix/pkg/datemath"
)

// Location resolves the scheduling timezone.
func (s SchedulingConfig) Location() (*time.Location, error) {
	return datemath.LoadLocation(s.Timezone)
}

// Window returns the daily horizon bounds.
func (s SchedulingConfig) Window() (datemath.Clock, datemath.Clock, error) {
	start, err := datemath.ParseClock(s.DayStart)
	if err != nil {
		return datemath.Clock{}, datemath.Clock{}, fmt.Errorf("day_start: %w", err)
	}
	end, err := datemath.ParseClock(s.DayEnd)
	if err != nil {
		return datemath.Clock{}, datemath.Clock{}, fmt.Errorf("day_end: %w", err)
	}
	return start, end, nil
}

// Recurring converts every configured block for the scheduler.
func (s SchedulingConfig) Recurring() ([]scheduler.RecurringBlock, error) {
	var out []scheduler.RecurringBlock
	for _, b := range s.AllBlocks() {
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("block %s-%s: %w", b.Start, b.End, err)
		}
		start, _ := datemath.ParseClock(b.Start)
		end, _ := datemath.ParseClock(b.End)

		var days []time.Weekday
		for _, d := range b.Days {
			wd, _ := datemath.ParseWeekday(d)
			days = append(days, wd)
		}

		out = append(out, scheduler.RecurringBlock{
			Start: start,
			End:   end,
			Kind:  model.BlockKind(b.Kind),
			Label: b.Label,
			Days:  days,
		})
	}
	return out, nil
}
