package usecase

import (
	"context"
	"strings"

	"chronix/internal/model"
	"chronix/internal/task"
)

func (uc *implUseCase) Summary(ctx context.Context) (task.Summary, error) {
	c := uc.corpus.Load()
	if c == nil {
		return task.Summary{}, task.ErrNotSynced
	}
	return c.summary(), nil
}

func (uc *implUseCase) Tasks(ctx context.Context, input task.TasksInput) ([]model.Task, error) {
	c := uc.corpus.Load()
	if c == nil {
		return nil, task.ErrNotSynced
	}

	out := make([]model.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if input.IncompleteOnly && t.Completed {
			continue
		}
		if input.Project != "" && !matchesProject(c.project(t), input.Project) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func matchesProject(p model.ProjectContext, query string) bool {
	return strings.EqualFold(p.ProjectID, query) || strings.EqualFold(p.Name, query)
}
