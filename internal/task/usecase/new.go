package usecase

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"chronix/internal/checklist"
	"chronix/internal/model"
	"chronix/internal/scheduler"
	"chronix/internal/task"
	"chronix/internal/task/repository"
	"chronix/pkg/datemath"
	pkgLog "chronix/pkg/log"
)

const (
	defaultConcurrency = 4
	defaultCacheSize   = 64
	defaultCacheTTL    = 30 * time.Minute
)

// Config holds the aggregation and scheduling settings of the use case.
type Config struct {
	// Documents are synced in this order, which is also the provenance order.
	Documents []task.DocumentRef

	DayStart datemath.Clock
	DayEnd   datemath.Clock
	Blocks   []scheduler.RecurringBlock
	Policy   scheduler.OverduePolicy

	Concurrency int
	CacheSize   int
	CacheTTL    time.Duration
	SyncTimeout time.Duration
}

type implUseCase struct {
	l        pkgLog.Logger
	parser   checklist.Service
	repos    map[model.Source]repository.DocumentRepository
	calendar repository.CalendarRepository
	dateMath *datemath.Parser
	cfg      Config
	cache    *expirable.LRU[string, checklist.ParseOutput]
	now      func() time.Time

	syncMu sync.Mutex
	corpus atomic.Pointer[corpus]
}

// New creates a new task UseCase instance. calendar may be nil.
func New(
	l pkgLog.Logger,
	parser checklist.Service,
	repos []repository.DocumentRepository,
	calendar repository.CalendarRepository,
	dateMath *datemath.Parser,
	cfg Config,
) *implUseCase {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.DayStart == (datemath.Clock{}) && cfg.DayEnd == (datemath.Clock{}) {
		cfg.DayEnd = datemath.Clock{Hour: 24}
	}
	if cfg.Policy == "" {
		cfg.Policy = scheduler.OverdueUrgent
	}

	bySource := make(map[model.Source]repository.DocumentRepository, len(repos))
	for _, r := range repos {
		bySource[r.Source()] = r
	}

	return &implUseCase{
		l:        l,
		parser:   parser,
		repos:    bySource,
		calendar: calendar,
		dateMath: dateMath,
		cfg:      cfg,
		cache:    expirable.NewLRU[string, checklist.ParseOutput](cfg.CacheSize, nil, cfg.CacheTTL),
		now:      time.Now,
	}
}

// corpus is an immutable snapshot published by Sync.
type corpus struct {
	syncedAt time.Time
	projects []task.ProjectSummary
	tasks    []model.Task
	byID     map[string]int
	errors   []checklist.ParseError
	notices  []checklist.Notice
	failures []task.SyncFailure
}

func (c *corpus) summary() task.Summary {
	s := task.Summary{
		SyncedAt:    c.syncedAt,
		Projects:    len(c.projects),
		Total:       len(c.tasks),
		PerProject:  c.projects,
		Diagnostics: len(c.errors),
		Failures:    len(c.failures),
	}
	for _, t := range c.tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Incomplete++
		}
	}
	return s
}

func (c *corpus) project(t model.Task) model.ProjectContext {
	for _, p := range c.projects {
		if p.Project.Source == t.Source.Source && p.Project.DocumentID == t.Source.DocumentID {
			return p.Project
		}
	}
	return model.ProjectContext{Name: t.Project, Source: t.Source.Source, DocumentID: t.Source.DocumentID}
}
