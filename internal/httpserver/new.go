package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chronix/internal/middleware"
	taskHTTP "chronix/internal/task/delivery/http"
	"chronix/pkg/log"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	handler         http.Handler
	l               log.Logger
	port            int
	mode            string
	environment     string
	allowedOrigins  []string
	shutdownTimeout time.Duration
	startedAt       time.Time

	// Task domain
	taskHandler taskHTTP.Handler
	mw          middleware.Middleware
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	// Task domain
	TaskHandler taskHTTP.Handler
	Middleware  middleware.Middleware
}

// New creates a new HTTPServer instance with every route registered.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		allowedOrigins:  cfg.AllowedOrigins,
		shutdownTimeout: cfg.ShutdownTimeout,
		startedAt:       time.Now(),
		taskHandler:     cfg.TaskHandler,
		mw:              cfg.Middleware,
	}
	if srv.shutdownTimeout <= 0 {
		srv.shutdownTimeout = defaultShutdownTimeout
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.taskHandler == nil {
		return errors.New("task handler is required")
	}
	return nil
}

// Handler returns the CORS-wrapped router.
func (srv *HTTPServer) Handler() http.Handler {
	return srv.handler
}
