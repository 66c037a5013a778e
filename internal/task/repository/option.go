package repository

import "time"

// GetDocumentOptions holds the parameters for loading one document.
type GetDocumentOptions struct {
	ID string // Google Docs document id or Markdown file path
}

// ListBusyOptions holds the window to read busy time for.
type ListBusyOptions struct {
	From time.Time
	To   time.Time
}
