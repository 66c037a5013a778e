package usecase

import (
	"context"
	"fmt"

	"chronix/internal/model"
	"chronix/internal/scheduler"
	"chronix/internal/task"
	"chronix/internal/task/repository"
)

func (uc *implUseCase) Today(ctx context.Context, input task.TodayInput) (task.TodayOutput, error) {
	c := uc.corpus.Load()
	if c == nil {
		return task.TodayOutput{}, task.ErrNotSynced
	}
	return uc.today(ctx, c, input)
}

// today schedules the incomplete tasks of snapshot c.
func (uc *implUseCase) today(ctx context.Context, c *corpus, input task.TodayInput) (task.TodayOutput, error) {
	now := input.Now
	if now.IsZero() {
		now = uc.now()
	}
	now = now.In(uc.dateMath.Location())

	day, err := uc.dateMath.Parse(input.Day, now)
	if err != nil {
		return task.TodayOutput{}, fmt.Errorf("%w: %q: %w", task.ErrInvalidDay, input.Day, err)
	}
	day = uc.dateMath.StartOfDay(day)

	horizon := model.Interval{
		Start: uc.dateMath.At(day, uc.cfg.DayStart),
		End:   uc.dateMath.At(day, uc.cfg.DayEnd),
	}

	blocked := scheduler.ExpandBlocks(day, uc.dateMath, uc.cfg.Blocks)
	if uc.calendar != nil {
		busy, err := uc.calendar.ListBusy(ctx, repository.ListBusyOptions{From: horizon.Start, To: horizon.End})
		if err != nil {
			uc.l.Warnf(ctx, "uc.Today: calendar import skipped: %v", err)
		} else {
			blocked = scheduler.MergeImported(blocked, busy)
		}
	}

	tl, err := scheduler.Schedule(scheduler.Request{
		Now:     now,
		Horizon: horizon,
		Tasks:   c.tasks,
		Blocked: blocked,
		Policy:  uc.cfg.Policy,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Today: %v", err)
		return task.TodayOutput{}, err
	}
	tl.Day = day

	return task.TodayOutput{
		Timeline: tl,
		Summary:  c.summary(),
	}, nil
}
