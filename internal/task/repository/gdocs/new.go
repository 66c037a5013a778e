package gdocs

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/docs/v1"

	"chronix/internal/model"
	"chronix/internal/task/repository"
	pkgLog "chronix/pkg/log"
)

// DocumentGetter is the part of the Google Docs client the repository needs.
type DocumentGetter interface {
	GetDocument(ctx context.Context, documentID string) (*docs.Document, error)
}

type implRepository struct {
	client  DocumentGetter
	limiter *rate.Limiter
	l       pkgLog.Logger
}

// New creates a Google Docs document repository. Requests are paced to
// requestsPerMinute; zero or less disables pacing.
func New(client DocumentGetter, requestsPerMinute int, l pkgLog.Logger) repository.DocumentRepository {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return &implRepository{
		client:  client,
		limiter: limiter,
		l:       l,
	}
}

func (r *implRepository) Source() model.Source {
	return model.SourceGoogleDocs
}

func (r *implRepository) GetDocument(ctx context.Context, opt repository.GetDocumentOptions) (model.Document, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.Document{}, err
	}

	doc, err := r.client.GetDocument(ctx, opt.ID)
	if err != nil {
		r.l.Errorf(ctx, "gdocs repository: failed to get document %s: %v", opt.ID, err)
		return model.Document{}, err
	}

	out := convertDocument(doc)
	r.l.Debugf(ctx, "gdocs repository: loaded %s (%d tabs, revision %s)", opt.ID, len(out.Tabs), out.Revision)
	return out, nil
}
