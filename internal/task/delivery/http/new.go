package http

import (
	"github.com/gin-gonic/gin"

	"chronix/internal/task"
	"chronix/pkg/log"
)

// Handler is the public interface for the task HTTP delivery layer.
type Handler interface {
	Sync(c *gin.Context)
	Summary(c *gin.Context)
	Tasks(c *gin.Context)
	Explain(c *gin.Context)
	Today(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc task.UseCase
}

// New creates a new HTTP handler for the task domain.
func New(l log.Logger, uc task.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
