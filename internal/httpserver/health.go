package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"chronix/pkg/response"
)

const (
	ServiceName    = "chronix"
	ServiceVersion = "1.0.0"
)

type probeResp struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment,omitempty"`
	Uptime      string `json:"uptime"`
}

func (srv *HTTPServer) probe(c *gin.Context, status string) {
	response.OK(c, probeResp{
		Status:      status,
		Service:     ServiceName,
		Version:     ServiceVersion,
		Environment: srv.environment,
		Uptime:      time.Since(srv.startedAt).Truncate(time.Second).String(),
	})
}

// healthCheck handles health check requests
// @Summary Health Check
// @Tags    Health
// @Produce json
// @Success 200 {object} response.Resp
// @Router  /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) { srv.probe(c, "healthy") }

// readyCheck does not wait for the first sync.
// @Summary Readiness Check
// @Tags    Health
// @Produce json
// @Success 200 {object} response.Resp
// @Router  /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) { srv.probe(c, "ready") }

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Tags    Health
// @Produce json
// @Success 200 {object} response.Resp
// @Router  /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) { srv.probe(c, "alive") }
