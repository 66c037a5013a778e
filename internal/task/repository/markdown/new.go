package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"chronix/internal/checklist"
	"chronix/internal/model"
	"chronix/internal/task/repository"
	pkgLog "chronix/pkg/log"
)

type implRepository struct {
	parser checklist.Service
	l      pkgLog.Logger
}

// New creates a repository that reads Markdown checklists from disk.
func New(parser checklist.Service, l pkgLog.Logger) repository.DocumentRepository {
	return &implRepository{
		parser: parser,
		l:      l,
	}
}

func (r *implRepository) Source() model.Source {
	return model.SourceMarkdown
}

// GetDocument reads opt.ID as a file path. The revision is a content hash so
// unchanged files hit the parse cache.
func (r *implRepository) GetDocument(ctx context.Context, opt repository.GetDocumentOptions) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}

	content, err := os.ReadFile(opt.ID)
	if err != nil {
		r.l.Errorf(ctx, "markdown repository: failed to read %s: %v", opt.ID, err)
		return model.Document{}, fmt.Errorf("read %s: %w", opt.ID, err)
	}

	doc := r.parser.ParseMarkdown(opt.ID, string(content))
	sum := sha256.Sum256(content)
	doc.Revision = hex.EncodeToString(sum[:8])
	return doc, nil
}
