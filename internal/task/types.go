package task

import (
	"time"

	"chronix/internal/checklist"
	"chronix/internal/model"
)

// DocumentRef names a document in a source.
type DocumentRef struct {
	Source model.Source
	ID     string
}

// SyncInput overrides the configured documents when Documents is non-empty.
type SyncInput struct {
	Documents []DocumentRef
}

// SyncFailure is a document that could not be loaded.
type SyncFailure struct {
	Document DocumentRef
	Err      error
}

type SyncOutput struct {
	Summary  Summary
	Failures []SyncFailure
	Errors   []checklist.ParseError
	Notices  []checklist.Notice
}

// ProjectSummary is the per-document part of Summary.
type ProjectSummary struct {
	Project model.ProjectContext
	Stats   checklist.ChecklistStats
}

type Summary struct {
	SyncedAt    time.Time
	Projects    int
	Total       int
	Incomplete  int
	Completed   int
	PerProject  []ProjectSummary
	Diagnostics int
	Failures    int
}

type TasksInput struct {
	IncompleteOnly bool
	// Project filters by project id or name, case-insensitive.
	Project string
}

// TodayInput selects the day to schedule. Day accepts expressions such as
// "today", "tomorrow", "next monday" or "2026-01-19"; empty means today.
// A zero Now uses the current time.
type TodayInput struct {
	Day string
	Now time.Time
}

type TodayOutput struct {
	Timeline model.Timeline
	Summary  Summary
}

type ExplainInput struct {
	ID  string
	Now time.Time
}

// ExplainOutput places one task in today's schedule.
// Exactly one of Segment and Unscheduled is set for incomplete tasks.
type ExplainOutput struct {
	Task          model.Task
	Project       model.ProjectContext
	Segment       *model.Segment
	Unscheduled   *model.UnscheduledTask
	QueuePosition int
	QueueLength   int
	Conflicts     []model.DeadlineConflict
}
