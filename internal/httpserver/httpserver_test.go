package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"chronix/internal/httpserver"
	"chronix/internal/middleware"
	"chronix/internal/model"
	"chronix/internal/task"
	taskHTTP "chronix/internal/task/delivery/http"
	"chronix/pkg/log"
	"chronix/pkg/response"
)

type stubUseCase struct{}

func (stubUseCase) Sync(ctx context.Context, input task.SyncInput) (task.SyncOutput, error) {
	return task.SyncOutput{}, nil
}

func (stubUseCase) Summary(ctx context.Context) (task.Summary, error) {
	return task.Summary{}, task.ErrNotSynced
}

func (stubUseCase) Tasks(ctx context.Context, input task.TasksInput) ([]model.Task, error) {
	return nil, nil
}

func (stubUseCase) Today(ctx context.Context, input task.TodayInput) (task.TodayOutput, error) {
	return task.TodayOutput{}, nil
}

func (stubUseCase) Explain(ctx context.Context, input task.ExplainInput) (task.ExplainOutput, error) {
	return task.ExplainOutput{}, task.ErrTaskNotFound
}

func newServer(t *testing.T, port int) *httpserver.HTTPServer {
	t.Helper()
	l := log.NewNop()
	srv, err := httpserver.New(l, httpserver.Config{
		Logger:         l,
		Port:           port,
		Mode:           gin.TestMode,
		Environment:    string(model.EnvironmentDevelopment),
		AllowedOrigins: []string{"http://localhost:3000"},
		TaskHandler:    taskHTTP.New(l, stubUseCase{}),
		Middleware:     middleware.New(l, 0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

func TestNew_Validate(t *testing.T) {
	l := log.NewNop()
	tests := []struct {
		name string
		cfg  httpserver.Config
	}{
		{"MissingMode", httpserver.Config{Port: 8080, TaskHandler: taskHTTP.New(l, stubUseCase{})}},
		{"MissingPort", httpserver.Config{Mode: gin.TestMode, TaskHandler: taskHTTP.New(l, stubUseCase{})}},
		{"MissingHandler", httpserver.Config{Mode: gin.TestMode, Port: 8080}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := httpserver.New(l, tt.cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRoutes(t *testing.T) {
	h := newServer(t, 8080).Handler()

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/ready", http.StatusOK},
		{"/live", http.StatusOK},
		{"/api/v1/summary", http.StatusConflict},
		{"/api/v1/tasks/unknown", http.StatusNotFound},
		{"/api/v1/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	t.Run("HealthBody", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		var resp response.Resp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		data, _ := resp.Data.(map[string]any)
		if data["service"] != httpserver.ServiceName || data["status"] != "healthy" {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestCORS(t *testing.T) {
	h := newServer(t, 8080).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sync", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin for foreign site: %q", got)
	}
}

func TestRun_Shutdown(t *testing.T) {
	srv := newServer(t, 18473)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
