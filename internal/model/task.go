package model

import "time"

// Source identifies where a document came from.
type Source string

const (
	SourceGoogleDocs Source = "google_docs"
	SourceMarkdown   Source = "markdown"
)

// Location pins a task to the list item it was read from.
// Position is the ordinal of the item inside the tab's task list.
type Location struct {
	Source     Source
	DocumentID string
	TabID      string
	Position   int
}

// Task is one schedulable unit of work read from a document.
type Task struct {
	ID               string
	Title            string
	Duration         time.Duration
	ExternalDeadline *time.Time
	UserDeadline     *time.Time
	Completed        bool

	Project string // document title
	Tab     string // tab title
	Heading string // nearest heading above the item, if any

	Source Location
	// Provenance ranks the (document, tab) the task came from; tasks of one
	// tab share it.
	Provenance int
	// Order is the position of the task in the corpus.
	Order int
}

// EffectiveDeadline returns the earlier of the two deadlines, or nil.
func (t Task) EffectiveDeadline() *time.Time {
	switch {
	case t.ExternalDeadline == nil:
		return t.UserDeadline
	case t.UserDeadline == nil:
		return t.ExternalDeadline
	case t.UserDeadline.Before(*t.ExternalDeadline):
		return t.UserDeadline
	default:
		return t.ExternalDeadline
	}
}

// IsOverdue reports whether the effective deadline lies at or before now.
func (t Task) IsOverdue(now time.Time) bool {
	d := t.EffectiveDeadline()
	return d != nil && !d.After(now)
}

// ProjectContext describes the document a task belongs to.
type ProjectContext struct {
	ProjectID  string
	Name       string
	Source     Source
	DocumentID string
}
