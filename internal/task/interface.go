package task

import (
	"context"

	"chronix/internal/model"
)

// UseCase defines the business logic interface for the task domain.
type UseCase interface {
	// Sync fetches every configured document, parses it and replaces the
	// in-memory corpus in one step.
	Sync(ctx context.Context, input SyncInput) (SyncOutput, error)

	// Summary reports counts for the current corpus.
	Summary(ctx context.Context) (Summary, error)

	// Tasks lists the current corpus in provenance order.
	Tasks(ctx context.Context, input TasksInput) ([]model.Task, error)

	// Today schedules the incomplete tasks into one day.
	Today(ctx context.Context, input TodayInput) (TodayOutput, error)

	// Explain looks a task up by id and shows where it landed today.
	Explain(ctx context.Context, input ExplainInput) (ExplainOutput, error)
}
