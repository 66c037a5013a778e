package http

import (
	"github.com/gin-gonic/gin"
)

// processTasksReq binds the task listing query parameters.
func (h *handler) processTasksReq(c *gin.Context) (tasksReq, error) {
	var req tasksReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, errInvalidQuery
	}
	return req, nil
}

func (h *handler) processTodayReq(c *gin.Context) (todayReq, error) {
	var req todayReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, errInvalidQuery
	}
	return req, nil
}
