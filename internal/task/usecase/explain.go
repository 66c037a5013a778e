package usecase

import (
	"context"
	"fmt"
	"strings"

	"chronix/internal/scheduler"
	"chronix/internal/task"
)

func (uc *implUseCase) Explain(ctx context.Context, input task.ExplainInput) (task.ExplainOutput, error) {
	id := strings.ToLower(strings.TrimSpace(input.ID))
	if id == "" {
		return task.ExplainOutput{}, task.ErrEmptyTaskID
	}

	c := uc.corpus.Load()
	if c == nil {
		return task.ExplainOutput{}, task.ErrNotSynced
	}
	idx, ok := c.byID[id]
	if !ok {
		return task.ExplainOutput{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, input.ID)
	}

	t := c.tasks[idx]
	out := task.ExplainOutput{
		Task:    t,
		Project: c.project(t),
	}
	if t.Completed {
		return out, nil
	}

	now := input.Now
	if now.IsZero() {
		now = uc.now()
	}
	today, err := uc.today(ctx, c, task.TodayInput{Now: now})
	if err != nil {
		return out, err
	}

	queue := scheduler.Prioritize(c.tasks, now, uc.cfg.Policy)
	out.QueueLength = len(queue)
	for i, q := range queue {
		if q.ID == t.ID {
			out.QueuePosition = i + 1
			break
		}
	}

	tl := today.Timeline
	if seg, ok := tl.FindTask(t.ID); ok {
		out.Segment = &seg
	}
	for i := range tl.Unscheduled {
		if tl.Unscheduled[i].Task.ID == t.ID {
			out.Unscheduled = &tl.Unscheduled[i]
			break
		}
	}
	for _, cf := range tl.Conflicts {
		if cf.Task.ID == t.ID {
			out.Conflicts = append(out.Conflicts, cf)
		}
	}
	return out, nil
}
