package checklist

import "chronix/internal/model"

// Service reads task records out of document trees.
type Service interface {
	// ParseDocument extracts tasks from every eligible tab of doc.
	// Malformed lines are reported in ParseOutput.Errors and never abort the parse.
	ParseDocument(doc model.Document) ParseOutput

	// ParseLine parses "<title> ::: <duration>; <external>; <user>".
	ParseLine(text string) (TaskFields, error)

	// FormatLine renders a task as a metadata line accepted by ParseLine.
	FormatLine(t model.Task) string

	// ParseMarkdown converts a Markdown note into a document tree.
	ParseMarkdown(id, content string) model.Document

	// GetStats calculates checklist statistics
	GetStats(tasks []model.Task) ChecklistStats
}
