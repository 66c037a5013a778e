package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"chronix/internal/middleware"
	"chronix/pkg/log"
)

func newRouter(ratePerMin int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := middleware.New(log.NewNop(), ratePerMin)
	r.POST("/sync", mw.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r *gin.Engine, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	t.Run("BurstThenReject", func(t *testing.T) {
		r := newRouter(1)

		if code := post(r, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("first request: expected 200, got %d", code)
		}
		if code := post(r, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
			t.Errorf("second request: expected 429, got %d", code)
		}
		if code := post(r, "10.0.0.2:1234"); code != http.StatusOK {
			t.Errorf("other client: expected 200, got %d", code)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		r := newRouter(0)
		for i := 0; i < 5; i++ {
			if code := post(r, "10.0.0.1:1234"); code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i, code)
			}
		}
	})
}
