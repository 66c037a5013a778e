package checklist

import (
	"time"

	"chronix/internal/model"
)

// Options configures the parser.
type Options struct {
	// Location resolves deadlines written without an offset. Defaults to time.Local.
	Location *time.Location
	// ExcludeTabs lists additional tab titles to skip. "todo" is always skipped.
	ExcludeTabs []string
}

// TaskFields is the content of one metadata line.
type TaskFields struct {
	Title            string
	Duration         time.Duration
	ExternalDeadline *time.Time
	UserDeadline     *time.Time
}

// Identifier is the header line that declares which list holds a tab's tasks.
type Identifier struct {
	ListID string
	Fields [3]string
}

// TabResult summarizes one tab.
type TabResult struct {
	TabID      string
	Title      string
	Excluded   bool
	Identifier *Identifier
	Tasks      int
}

// NoticeKind classifies non-error observations.
type NoticeKind string

const NoticeMissingIdentifier NoticeKind = "missing_identifier"

// Notice is informational; it never affects the parsed tasks.
type Notice struct {
	DocumentID string
	Tab        string
	Kind       NoticeKind
	Message    string
}

// ParseOutput is the result of parsing one document.
type ParseOutput struct {
	DocumentID string
	Title      string
	Source     model.Source
	Tabs       []TabResult
	Tasks      []model.Task
	Errors     []ParseError
	Notices    []Notice
}

// ChecklistStats represents checklist progress
type ChecklistStats struct {
	Total     int     // Total tasks
	Completed int     // Struck-through tasks
	Pending   int     // Remaining tasks
	Progress  float64 // Completion percentage (0-100)
}
