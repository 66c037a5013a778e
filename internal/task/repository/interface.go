package repository

import (
	"context"

	"chronix/internal/model"
)

// DocumentRepository loads documents from one source.
type DocumentRepository interface {
	Source() model.Source
	GetDocument(ctx context.Context, opt GetDocumentOptions) (model.Document, error)
}

// CalendarRepository reports busy time from an external calendar.
type CalendarRepository interface {
	ListBusy(ctx context.Context, opt ListBusyOptions) ([]model.BlockedPeriod, error)
}
