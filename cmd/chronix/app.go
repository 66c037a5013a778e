package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"google.golang.org/api/docs/v1"

	"chronix/config"
	"chronix/internal/checklist"
	"chronix/internal/model"
	"chronix/internal/scheduler"
	"chronix/internal/task"
	"chronix/internal/task/repository"
	gcalRepo "chronix/internal/task/repository/gcalendar"
	gdocsRepo "chronix/internal/task/repository/gdocs"
	mdRepo "chronix/internal/task/repository/markdown"
	"chronix/internal/task/usecase"
	"chronix/pkg/datemath"
	"chronix/pkg/gcalendar"
	"chronix/pkg/gdocs"
	"chronix/pkg/log"
)

type app struct {
	useCase  task.UseCase
	location *time.Location
}

func newApp(ctx context.Context, logger log.Logger, cfg *config.Config) (app, error) {
	loc, err := cfg.Scheduling.Location()
	if err != nil {
		return app{}, fmt.Errorf("scheduling.timezone: %w", err)
	}
	dayStart, dayEnd, err := cfg.Scheduling.Window()
	if err != nil {
		return app{}, fmt.Errorf("scheduling: %w", err)
	}
	blocks, err := cfg.Scheduling.Recurring()
	if err != nil {
		return app{}, fmt.Errorf("scheduling: %w", err)
	}
	policy, err := scheduler.ParseOverduePolicy(cfg.Scheduling.OverduePolicy)
	if err != nil {
		return app{}, fmt.Errorf("scheduling.overdue_policy: %w", err)
	}

	dateMath := datemath.NewParserInLocation(loc)
	parser := checklist.New(checklist.Options{Location: loc, ExcludeTabs: cfg.Sync.ExcludeTabs})

	google := &googleClients{opts: gdocs.Options{
		AuthMethod:      cfg.GoogleDocs.AuthMethod,
		CredentialsPath: cfg.GoogleDocs.CredentialsPath,
		TokenPath:       cfg.GoogleDocs.TokenPath,
	}}

	repos := []repository.DocumentRepository{
		gdocsRepo.New(google, cfg.GoogleDocs.RequestsPerMinute, logger),
		mdRepo.New(parser, logger),
	}

	var calendar repository.CalendarRepository
	if cfg.GoogleCalendar.Enabled {
		calendar = gcalRepo.New(google, cfg.GoogleCalendar.CalendarID, logger)
	}

	uc := usecase.New(logger, parser, repos, calendar, dateMath, usecase.Config{
		Documents:   documentRefs(cfg),
		DayStart:    dayStart,
		DayEnd:      dayEnd,
		Blocks:      blocks,
		Policy:      policy,
		Concurrency: cfg.Sync.Concurrency,
		CacheSize:   cfg.Sync.CacheSize,
		CacheTTL:    cfg.Sync.CacheTTL,
		SyncTimeout: cfg.Sync.Timeout,
	})
	return app{useCase: uc, location: loc}, nil
}

func documentRefs(cfg *config.Config) []task.DocumentRef {
	refs := make([]task.DocumentRef, 0, len(cfg.GoogleDocs.DocumentIDs)+len(cfg.Markdown.Files))
	for _, id := range cfg.GoogleDocs.DocumentIDs {
		refs = append(refs, task.DocumentRef{Source: model.SourceGoogleDocs, ID: id})
	}
	for _, path := range cfg.Markdown.Files {
		refs = append(refs, task.DocumentRef{Source: model.SourceMarkdown, ID: path})
	}
	return refs
}

// googleClients authorizes on first use, so commands that never touch
// Google work without credentials.
type googleClients struct {
	opts gdocs.Options

	once     sync.Once
	err      error
	docs     *gdocs.Client
	calendar *gcalendar.Client
}

func (g *googleClients) init(ctx context.Context) error {
	g.once.Do(func() {
		var hc *http.Client
		hc, g.err = gdocs.NewHTTPClient(context.WithoutCancel(ctx), g.opts)
		if g.err != nil {
			return
		}
		if g.docs, g.err = gdocs.NewClientFromHTTP(ctx, hc); g.err != nil {
			return
		}
		g.calendar, g.err = gcalendar.NewClientFromHTTP(ctx, hc)
	})
	return g.err
}

func (g *googleClients) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	if err := g.init(ctx); err != nil {
		return nil, err
	}
	return g.docs.GetDocument(ctx, documentID)
}

func (g *googleClients) ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error) {
	if err := g.init(ctx); err != nil {
		return nil, err
	}
	return g.calendar.ListEvents(ctx, req)
}
