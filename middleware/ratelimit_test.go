package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(newRateLimiter(2, time.Minute).handler())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.handler())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", code)
	}

	time.Sleep(20 * time.Millisecond)
	if code := send(); code != http.StatusOK {
		t.Errorf("request after window reset = %d, want 200", code)
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.handler())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("10.0.0.3:1"); code != http.StatusOK {
		t.Fatalf("first client = %d, want 200", code)
	}
	if code := send("10.0.0.4:1"); code != http.StatusOK {
		t.Errorf("second client = %d, want 200 despite first client's usage", code)
	}
}
