package http

import (
	"github.com/gin-gonic/gin"

	"chronix/internal/task"
	"chronix/pkg/response"
)

// Sync godoc
// @Summary     Sync documents
// @Description Fetches every configured document, parses its task list and replaces the in-memory corpus.
// @Tags        Tasks
// @Produce     json
// @Success     200 {object} syncResp
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Failure     502 {object} response.Resp "Every document failed to load"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/sync [POST]
func (h *handler) Sync(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.Sync(ctx, task.SyncInput{})
	if err != nil {
		h.l.Errorf(ctx, "uc.Sync: %v", err)
		response.Fail(c, h.mapError(err))
		return
	}

	response.OK(c, h.newSyncResp(output))
}

// Summary godoc
// @Summary     Corpus summary
// @Description Returns task counts for the last successful sync.
// @Tags        Tasks
// @Produce     json
// @Success     200 {object} summaryResp
// @Failure     409 {object} response.Resp "Not synced yet"
// @Router      /api/v1/summary [GET]
func (h *handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.Summary(ctx)
	if err != nil {
		response.Fail(c, h.mapError(err))
		return
	}

	response.OK(c, newSummaryResp(output))
}

// Tasks godoc
// @Summary     List tasks
// @Description Lists the synced tasks in document order.
// @Tags        Tasks
// @Produce     json
// @Param       incomplete query bool   false "Only incomplete tasks"
// @Param       project    query string false "Project id or name"
// @Success     200 {object} tasksResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Not synced yet"
// @Router      /api/v1/tasks [GET]
func (h *handler) Tasks(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processTasksReq(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	output, err := h.uc.Tasks(ctx, req.toInput())
	if err != nil {
		response.Fail(c, h.mapError(err))
		return
	}

	response.OK(c, h.newTasksResp(output))
}

// Explain godoc
// @Summary     Explain a task
// @Description Returns a task with its project and where it lands in today's timeline.
// @Tags        Tasks
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} explainResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Not synced yet"
// @Failure     422 {object} response.Resp "Conflicting blocked periods"
// @Router      /api/v1/tasks/{id} [GET]
func (h *handler) Explain(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.Explain(ctx, task.ExplainInput{ID: c.Param("id")})
	if err != nil {
		h.l.Warnf(ctx, "uc.Explain: %v", err)
		response.Fail(c, h.mapError(err))
		return
	}

	response.OK(c, h.newExplainResp(output))
}

// Today godoc
// @Summary     Day timeline
// @Description Schedules the incomplete tasks into one day around blocked periods.
// @Tags        Tasks
// @Produce     json
// @Param       day query string false "Day expression: today, tomorrow, next monday, 2026-01-19"
// @Success     200 {object} todayResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Not synced yet"
// @Failure     422 {object} response.Resp "Conflicting blocked periods"
// @Router      /api/v1/today [GET]
func (h *handler) Today(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processTodayReq(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	output, err := h.uc.Today(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.Today: %v", err)
		response.Fail(c, h.mapError(err))
		return
	}

	response.OK(c, h.newTodayResp(output))
}
