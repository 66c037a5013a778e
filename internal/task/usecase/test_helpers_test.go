package usecase

import (
	"context"
	"sync"
	"time"

	"chronix/internal/checklist"
	"chronix/internal/model"
	"chronix/internal/task/repository"
	"chronix/pkg/datemath"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// Mock document repository for testing
type mockDocRepo struct {
	mu     sync.Mutex
	source model.Source
	docs   map[string]model.Document
	errs   map[string]error
	calls  int
}

func (m *mockDocRepo) Source() model.Source { return m.source }

func (m *mockDocRepo) GetDocument(ctx context.Context, opt repository.GetDocumentOptions) (model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.errs[opt.ID]; err != nil {
		return model.Document{}, err
	}
	return m.docs[opt.ID], nil
}

func (m *mockDocRepo) set(doc model.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
}

func (m *mockDocRepo) fail(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[id] = err
}

func newMockDocRepo(source model.Source, docs ...model.Document) *mockDocRepo {
	m := &mockDocRepo{source: source, docs: map[string]model.Document{}, errs: map[string]error{}}
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	return m
}

// Mock calendar repository for testing
type mockCalendar struct {
	blocks []model.BlockedPeriod
	err    error
}

func (m *mockCalendar) ListBusy(ctx context.Context, opt repository.ListBusyOptions) ([]model.BlockedPeriod, error) {
	return m.blocks, m.err
}

// countingParser counts ParseDocument calls.
type countingParser struct {
	checklist.Service
	mu    sync.Mutex
	calls int
}

func (p *countingParser) ParseDocument(doc model.Document) checklist.ParseOutput {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.Service.ParseDocument(doc)
}

func item(text string, struck bool) model.Paragraph {
	return model.Paragraph{
		Runs:   []model.TextRun{{Content: text}},
		Bullet: &model.Bullet{ListID: "kix.1", Strikethrough: struck},
		Style:  model.StyleNormal,
	}
}

// newDoc builds a one-tab document with an identifier line and the given items.
func newDoc(id, title, revision string, items ...model.Paragraph) model.Document {
	paragraphs := append([]model.Paragraph{item("TASKS ::: duration; external_deadline; user_deadline", false)}, items...)
	return model.Document{
		ID:       id,
		Title:    title,
		Revision: revision,
		Source:   model.SourceGoogleDocs,
		Tabs:     []model.Tab{{ID: "t.0", Title: "Main", Paragraphs: paragraphs}},
	}
}

func clockAt(s string) datemath.Clock {
	c, err := datemath.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

var testDay = time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)

func at(hh, mm int) time.Time {
	return testDay.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}
