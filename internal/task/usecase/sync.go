package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"chronix/internal/checklist"
	"chronix/internal/model"
	"chronix/internal/task"
	"chronix/internal/task/repository"
)

type fetchResult struct {
	ref    task.DocumentRef
	output checklist.ParseOutput
	err    error
}

// Sync fetches and parses every document, then publishes the merged corpus.
// A failing document does not abort the others.
func (uc *implUseCase) Sync(ctx context.Context, input task.SyncInput) (task.SyncOutput, error) {
	refs := input.Documents
	if len(refs) == 0 {
		refs = uc.cfg.Documents
	}
	if len(refs) == 0 {
		return task.SyncOutput{}, task.ErrNoDocuments
	}

	uc.syncMu.Lock()
	defer uc.syncMu.Unlock()

	if uc.cfg.SyncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.SyncTimeout)
		defer cancel()
	}

	results := make([]fetchResult, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			results[i] = uc.fetch(gctx, ref)
			return nil
		})
	}
	_ = g.Wait()

	c := uc.merge(results)
	out := task.SyncOutput{
		Summary:  c.summary(),
		Failures: c.failures,
		Errors:   c.errors,
		Notices:  c.notices,
	}

	if len(c.failures) == len(refs) {
		errs := make([]error, 0, len(c.failures))
		for _, f := range c.failures {
			errs = append(errs, fmt.Errorf("%s: %w", f.Document.ID, f.Err))
		}
		uc.l.Errorf(ctx, "uc.Sync: every document failed, keeping previous corpus")
		if prev := uc.corpus.Load(); prev != nil {
			out.Summary = prev.summary()
		}
		return out, fmt.Errorf("%w: %w", task.ErrSyncFailed, errors.Join(errs...))
	}

	uc.corpus.Store(c)
	uc.l.Infof(ctx, "uc.Sync: %d projects, %d tasks, %d diagnostics, %d failures",
		len(c.projects), len(c.tasks), len(c.errors), len(c.failures))
	return out, nil
}

func (uc *implUseCase) fetch(ctx context.Context, ref task.DocumentRef) fetchResult {
	res := fetchResult{ref: ref}

	repo, ok := uc.repos[ref.Source]
	if !ok {
		res.err = fmt.Errorf("%w: %s", task.ErrUnknownSource, ref.Source)
		return res
	}

	doc, err := repo.GetDocument(ctx, repository.GetDocumentOptions{ID: ref.ID})
	if err != nil {
		uc.l.Warnf(ctx, "uc.Sync: fetch %s %s: %v", ref.Source, ref.ID, err)
		res.err = err
		return res
	}

	key := ""
	if doc.Revision != "" {
		key = fmt.Sprintf("%s/%s@%s", ref.Source, ref.ID, doc.Revision)
		if cached, ok := uc.cache.Get(key); ok {
			uc.l.Debugf(ctx, "uc.Sync: cache hit %s", key)
			res.output = cached
			return res
		}
	}

	res.output = uc.parser.ParseDocument(doc)
	if key != "" {
		uc.cache.Add(key, res.output)
	}
	return res
}

// merge builds a corpus in configuration order and assigns ids.
func (uc *implUseCase) merge(results []fetchResult) *corpus {
	c := &corpus{
		syncedAt: uc.now(),
		byID:     make(map[string]int),
	}
	slugs := make(map[string]int)
	tabs := make(map[string]int)

	for _, res := range results {
		if res.err != nil {
			c.failures = append(c.failures, task.SyncFailure{Document: res.ref, Err: res.err})
			continue
		}

		name := res.output.Title
		if strings.TrimSpace(name) == "" {
			name = res.ref.ID
		}
		project := model.ProjectContext{
			ProjectID:  projectID(name, res.ref.ID, slugs),
			Name:       name,
			Source:     res.ref.Source,
			DocumentID: res.ref.ID,
		}

		tasks := make([]model.Task, 0, len(res.output.Tasks))
		for _, t := range res.output.Tasks {
			t.ID = uc.uniqueID(c, t.Source)
			t.Project = name
			tab := string(t.Source.Source) + "|" + t.Source.DocumentID + "|" + t.Source.TabID
			if _, ok := tabs[tab]; !ok {
				tabs[tab] = len(tabs)
			}
			t.Provenance = tabs[tab]
			t.Order = len(c.tasks)
			c.byID[t.ID] = len(c.tasks)
			c.tasks = append(c.tasks, t)
			tasks = append(tasks, t)
		}

		c.projects = append(c.projects, task.ProjectSummary{
			Project: project,
			Stats:   uc.parser.GetStats(tasks),
		})
		c.errors = append(c.errors, res.output.Errors...)
		c.notices = append(c.notices, res.output.Notices...)
	}

	return c
}

func (uc *implUseCase) uniqueID(c *corpus, loc model.Location) string {
	for n := shortIDLength; ; n += 4 {
		id := taskID(loc, n)
		if _, taken := c.byID[id]; !taken || n >= 32 {
			return id
		}
	}
}
