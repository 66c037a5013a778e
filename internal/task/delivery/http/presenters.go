package http

import (
	"time"

	"chronix/internal/checklist"
	"chronix/internal/model"
	"chronix/internal/task"
	"chronix/pkg/response"
)

// --- Request DTOs ---

type tasksReq struct {
	Incomplete bool   `form:"incomplete"`
	Project    string `form:"project"`
}

func (r tasksReq) toInput() task.TasksInput {
	return task.TasksInput{
		IncompleteOnly: r.Incomplete,
		Project:        r.Project,
	}
}

type todayReq struct {
	Day string `form:"day"`
}

func (r todayReq) toInput() task.TodayInput {
	return task.TodayInput{Day: r.Day}
}

// --- Response DTOs ---

type locationResp struct {
	Source     string `json:"source"`
	DocumentID string `json:"document_id"`
	TabID      string `json:"tab_id"`
	Position   int    `json:"position"`
}

type taskResp struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	DurationMinutes  int          `json:"duration_minutes"`
	ExternalDeadline *time.Time   `json:"external_deadline,omitempty"`
	UserDeadline     *time.Time   `json:"user_deadline,omitempty"`
	Completed        bool         `json:"completed"`
	Project          string       `json:"project"`
	Tab              string       `json:"tab"`
	Heading          string       `json:"heading,omitempty"`
	Source           locationResp `json:"source"`
}

func newTaskResp(t model.Task) taskResp {
	return taskResp{
		ID:               t.ID,
		Title:            t.Title,
		DurationMinutes:  int(t.Duration / time.Minute),
		ExternalDeadline: t.ExternalDeadline,
		UserDeadline:     t.UserDeadline,
		Completed:        t.Completed,
		Project:          t.Project,
		Tab:              t.Tab,
		Heading:          t.Heading,
		Source: locationResp{
			Source:     string(t.Source.Source),
			DocumentID: t.Source.DocumentID,
			TabID:      t.Source.TabID,
			Position:   t.Source.Position,
		},
	}
}

func newTaskResps(tasks []model.Task) []taskResp {
	out := make([]taskResp, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskResp(t)
	}
	return out
}

type projectResp struct {
	ProjectID  string  `json:"project_id"`
	Name       string  `json:"name"`
	Source     string  `json:"source"`
	DocumentID string  `json:"document_id"`
	Total      int     `json:"total,omitempty"`
	Completed  int     `json:"completed,omitempty"`
	Pending    int     `json:"pending,omitempty"`
	Progress   float64 `json:"progress,omitempty"`
}

func newProjectResp(p model.ProjectContext) projectResp {
	return projectResp{
		ProjectID:  p.ProjectID,
		Name:       p.Name,
		Source:     string(p.Source),
		DocumentID: p.DocumentID,
	}
}

type summaryResp struct {
	SyncedAt    time.Time     `json:"synced_at"`
	Projects    int           `json:"projects"`
	Total       int           `json:"total"`
	Incomplete  int           `json:"incomplete"`
	Completed   int           `json:"completed"`
	Diagnostics int           `json:"diagnostics"`
	Failures    int           `json:"failures"`
	PerProject  []projectResp `json:"per_project"`
}

func newSummaryResp(s task.Summary) summaryResp {
	resp := summaryResp{
		SyncedAt:    s.SyncedAt,
		Projects:    s.Projects,
		Total:       s.Total,
		Incomplete:  s.Incomplete,
		Completed:   s.Completed,
		Diagnostics: s.Diagnostics,
		Failures:    s.Failures,
		PerProject:  make([]projectResp, len(s.PerProject)),
	}
	for i, p := range s.PerProject {
		pr := newProjectResp(p.Project)
		pr.Total = p.Stats.Total
		pr.Completed = p.Stats.Completed
		pr.Pending = p.Stats.Pending
		pr.Progress = p.Stats.Progress
		resp.PerProject[i] = pr
	}
	return resp
}

type failureResp struct {
	Source     string `json:"source"`
	DocumentID string `json:"document_id"`
	Error      string `json:"error"`
}

type parseErrorResp struct {
	DocumentID string `json:"document_id"`
	Project    string `json:"project"`
	Tab        string `json:"tab"`
	Position   int    `json:"position"`
	Field      string `json:"field"`
	Value      string `json:"value,omitempty"`
	Line       string `json:"line"`
	Message    string `json:"message"`
}

type noticeResp struct {
	Kind       string `json:"kind"`
	DocumentID string `json:"document_id"`
	Tab        string `json:"tab"`
	Message    string `json:"message"`
}

type syncResp struct {
	Summary  summaryResp      `json:"summary"`
	Failures []failureResp    `json:"failures"`
	Errors   []parseErrorResp `json:"errors"`
	Notices  []noticeResp     `json:"notices"`
}

func (h *handler) newSyncResp(out task.SyncOutput) syncResp {
	resp := syncResp{
		Summary:  newSummaryResp(out.Summary),
		Failures: make([]failureResp, 0, len(out.Failures)),
		Errors:   make([]parseErrorResp, 0, len(out.Errors)),
		Notices:  make([]noticeResp, 0, len(out.Notices)),
	}
	for _, f := range out.Failures {
		resp.Failures = append(resp.Failures, failureResp{
			Source:     string(f.Document.Source),
			DocumentID: f.Document.ID,
			Error:      f.Err.Error(),
		})
	}
	for i := range out.Errors {
		e := &out.Errors[i]
		resp.Errors = append(resp.Errors, newParseErrorResp(e))
	}
	for _, n := range out.Notices {
		resp.Notices = append(resp.Notices, noticeResp{
			Kind:       string(n.Kind),
			DocumentID: n.DocumentID,
			Tab:        n.Tab,
			Message:    n.Message,
		})
	}
	return resp
}

func newParseErrorResp(e *checklist.ParseError) parseErrorResp {
	return parseErrorResp{
		DocumentID: e.DocumentID,
		Project:    e.Project,
		Tab:        e.Tab,
		Position:   e.Position,
		Field:      e.Field,
		Value:      e.Value,
		Line:       e.Line,
		Message:    e.Error(),
	}
}

type segmentResp struct {
	Kind            string    `json:"kind"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Task            *taskResp `json:"task,omitempty"`
	Label           string    `json:"label,omitempty"`
	BlockKind       string    `json:"block_kind,omitempty"`
	LateForUser     bool      `json:"late_for_user,omitempty"`
	LateForExternal bool      `json:"late_for_external,omitempty"`
}

func newSegmentResp(s model.Segment) segmentResp {
	resp := segmentResp{
		Kind:            string(s.Kind),
		Start:           s.Start,
		End:             s.End,
		DurationMinutes: int(s.Duration() / time.Minute),
		LateForUser:     s.LateForUser,
		LateForExternal: s.LateForExternal,
	}
	if s.Task != nil {
		tr := newTaskResp(*s.Task)
		resp.Task = &tr
	}
	if s.Block != nil {
		resp.Label = s.Block.DisplayLabel()
		resp.BlockKind = string(s.Block.Kind)
	}
	return resp
}

type unscheduledResp struct {
	Task   taskResp `json:"task"`
	Reason string   `json:"reason"`
}

type conflictResp struct {
	TaskID   string    `json:"task_id"`
	Title    string    `json:"title"`
	End      time.Time `json:"end"`
	Deadline time.Time `json:"deadline"`
	Kind     string    `json:"kind"`
}

func newConflictResp(c model.DeadlineConflict) conflictResp {
	kind := "user"
	if c.External {
		kind = "external"
	}
	return conflictResp{
		TaskID:   c.Task.ID,
		Title:    c.Task.Title,
		End:      c.End,
		Deadline: c.Deadline,
		Kind:     kind,
	}
}

type timelineResp struct {
	Day          response.Date     `json:"day"`
	Now          time.Time         `json:"now"`
	HorizonStart time.Time         `json:"horizon_start"`
	HorizonEnd   time.Time         `json:"horizon_end"`
	Segments     []segmentResp     `json:"segments"`
	Unscheduled  []unscheduledResp `json:"unscheduled"`
	Conflicts    []conflictResp    `json:"conflicts"`
}

func newTimelineResp(tl model.Timeline) timelineResp {
	resp := timelineResp{
		Day:          response.Date(tl.Day),
		Now:          tl.Now,
		HorizonStart: tl.Horizon.Start,
		HorizonEnd:   tl.Horizon.End,
		Segments:     make([]segmentResp, len(tl.Segments)),
		Unscheduled:  make([]unscheduledResp, len(tl.Unscheduled)),
		Conflicts:    make([]conflictResp, len(tl.Conflicts)),
	}
	for i, s := range tl.Segments {
		resp.Segments[i] = newSegmentResp(s)
	}
	for i, u := range tl.Unscheduled {
		resp.Unscheduled[i] = unscheduledResp{Task: newTaskResp(u.Task), Reason: u.Reason}
	}
	for i, c := range tl.Conflicts {
		resp.Conflicts[i] = newConflictResp(c)
	}
	return resp
}

type todayResp struct {
	Timeline timelineResp `json:"timeline"`
	Summary  summaryResp  `json:"summary"`
}

func (h *handler) newTodayResp(out task.TodayOutput) todayResp {
	return todayResp{
		Timeline: newTimelineResp(out.Timeline),
		Summary:  newSummaryResp(out.Summary),
	}
}

type tasksResp struct {
	Tasks []taskResp `json:"tasks"`
	Total int        `json:"total"`
}

func (h *handler) newTasksResp(tasks []model.Task) tasksResp {
	return tasksResp{Tasks: newTaskResps(tasks), Total: len(tasks)}
}

type explainResp struct {
	Task          taskResp       `json:"task"`
	Project       projectResp    `json:"project"`
	Segment       *segmentResp   `json:"segment,omitempty"`
	Unscheduled   string         `json:"unscheduled_reason,omitempty"`
	QueuePosition int            `json:"queue_position"`
	QueueLength   int            `json:"queue_length"`
	Conflicts     []conflictResp `json:"conflicts,omitempty"`
}

func (h *handler) newExplainResp(out task.ExplainOutput) explainResp {
	resp := explainResp{
		Task:          newTaskResp(out.Task),
		Project:       newProjectResp(out.Project),
		QueuePosition: out.QueuePosition,
		QueueLength:   out.QueueLength,
	}
	if out.Segment != nil {
		s := newSegmentResp(*out.Segment)
		resp.Segment = &s
	}
	if out.Unscheduled != nil {
		resp.Unscheduled = out.Unscheduled.Reason
	}
	for _, c := range out.Conflicts {
		resp.Conflicts = append(resp.Conflicts, newConflictResp(c))
	}
	return resp
}
