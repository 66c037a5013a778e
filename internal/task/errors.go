package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrNotSynced     = errors.New("no tasks loaded yet, run sync first")
	ErrNoDocuments   = errors.New("no documents configured")
	ErrSyncFailed    = errors.New("every document failed to load")
	ErrUnknownSource = errors.New("no repository for document source")
	ErrTaskNotFound  = errors.New("task not found")
	ErrEmptyTaskID   = errors.New("task id is empty")
	ErrInvalidDay    = errors.New("invalid day expression")
)
