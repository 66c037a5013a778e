package http

import (
	"github.com/gin-gonic/gin"

	"chronix/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// Only sync is rate limited since it calls the document providers.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/sync", mw.RateLimit(), h.Sync)
	rg.GET("/summary", h.Summary)
	rg.GET("/today", h.Today)

	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.Tasks)
		tasks.GET("/:id", h.Explain)
	}
}
