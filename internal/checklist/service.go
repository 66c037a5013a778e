package checklist

import (
	"regexp"
	"strings"
	"time"

	"chronix/internal/model"
)

const (
	// TasksKeyword starts the identifier line of a tab.
	TasksKeyword = "TASKS"
	// Separator splits a task title from its metadata.
	Separator = ":::"
	// TodoTab is never parsed.
	TodoTab = "todo"
)

// Example: "TASKS ::: duration; external_deadline; user_deadline"
var identifierPattern = regexp.MustCompile(`^TASKS\s*:::\s*([^;]*?)\s*;\s*([^;]*?)\s*;\s*([^;]*?)\s*$`)

type service struct {
	location *time.Location
	exclude  map[string]bool
}

func New(opts Options) Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	exclude := map[string]bool{TodoTab: true}
	for _, name := range opts.ExcludeTabs {
		exclude[normalizeTabTitle(name)] = true
	}
	return &service{
		location: loc,
		exclude:  exclude,
	}
}

func normalizeTabTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// ParseDocument walks the tabs in order and collects tasks and diagnostics.
func (s *service) ParseDocument(doc model.Document) ParseOutput {
	out := ParseOutput{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Source:     doc.Source,
	}

	for _, tab := range doc.Tabs {
		res, tasks, errs := s.parseTab(doc, tab)
		out.Tabs = append(out.Tabs, res)
		out.Tasks = append(out.Tasks, tasks...)
		out.Errors = append(out.Errors, errs...)

		if !res.Excluded && res.Identifier == nil {
			out.Notices = append(out.Notices, Notice{
				DocumentID: doc.ID,
				Tab:        tab.Title,
				Kind:       NoticeMissingIdentifier,
				Message:    "no TASKS ::: identifier line found",
			})
		}
	}

	return out
}

func (s *service) parseTab(doc model.Document, tab model.Tab) (TabResult, []model.Task, []ParseError) {
	res := TabResult{TabID: tab.ID, Title: tab.Title}
	if s.exclude[normalizeTabTitle(tab.Title)] {
		res.Excluded = true
		return res, nil, nil
	}

	identIdx, ident := findIdentifier(tab.Paragraphs)
	if ident == nil {
		return res, nil, nil
	}
	res.Identifier = ident

	var (
		tasks    []model.Task
		errs     []ParseError
		heading  string
		position int
	)
	for i, p := range tab.Paragraphs {
		if p.IsHeading() {
			heading = p.Text()
			continue
		}
		if p.Bullet == nil || p.Bullet.ListID != ident.ListID {
			continue
		}
		position++
		if i == identIdx {
			continue
		}

		text := p.Text()
		if text == "" || !strings.Contains(text, Separator) || identifierPattern.MatchString(text) {
			continue
		}

		fields, err := s.ParseLine(text)
		if err != nil {
			pe := toParseError(err, text)
			pe.DocumentID = doc.ID
			pe.Project = doc.Title
			pe.Tab = tab.Title
			pe.Position = position
			errs = append(errs, *pe)
			continue
		}

		tasks = append(tasks, model.Task{
			Title:            fields.Title,
			Duration:         fields.Duration,
			ExternalDeadline: fields.ExternalDeadline,
			UserDeadline:     fields.UserDeadline,
			Completed:        isStruckThrough(p),
			Project:          doc.Title,
			Tab:              tab.Title,
			Heading:          heading,
			Source: model.Location{
				Source:     doc.Source,
				DocumentID: doc.ID,
				TabID:      tab.ID,
				Position:   position,
			},
		})
	}

	res.Tasks = len(tasks)
	return res, tasks, errs
}

// findIdentifier returns the first bulleted identifier line and its index.
func findIdentifier(paragraphs []model.Paragraph) (int, *Identifier) {
	for i, p := range paragraphs {
		if p.Bullet == nil {
			continue
		}
		m := identifierPattern.FindStringSubmatch(p.Text())
		if m == nil || m[1] == "" || m[2] == "" || m[3] == "" {
			continue
		}
		return i, &Identifier{
			ListID: p.Bullet.ListID,
			Fields: [3]string{m[1], m[2], m[3]},
		}
	}
	return -1, nil
}

// isStruckThrough reports completion: the bullet or any accepted run is struck.
func isStruckThrough(p model.Paragraph) bool {
	if p.Bullet != nil && p.Bullet.Strikethrough {
		return true
	}
	for _, r := range p.Runs {
		if !r.Suggested && r.Strikethrough {
			return true
		}
	}
	return false
}

// GetStats calculates checklist statistics
func (s *service) GetStats(tasks []model.Task) ChecklistStats {
	total := len(tasks)
	if total == 0 {
		return ChecklistStats{}
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	return ChecklistStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
		Progress:  float64(completed) / float64(total) * 100,
	}
}
