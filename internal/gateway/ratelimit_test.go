package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddlewareAllowsBurstThenRejects(t *testing.T) {
	mw := rateLimitMiddleware()

	allowed, rejected := 0, 0
	for i := 0; i < 25; i++ {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/door/lock", nil)
		c.Request.URL.Path = "/api/door/lock"

		mw(c)

		if w.Code == http.StatusTooManyRequests {
			rejected++
		} else {
			allowed++
		}
	}

	assert.Greater(t, allowed, 0)
	assert.Greater(t, rejected, 0)
}

func TestRateLimitMiddlewareTracksRoutesIndependently(t *testing.T) {
	mw := rateLimitMiddleware()

	exhaust := func(path string) int {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, path, nil)
		c.Request.URL.Path = path
		mw(c)
		return w.Code
	}

	for i := 0; i < 20; i++ {
		exhaust("/api/door/lock")
	}
	assert.Equal(t, http.StatusTooManyRequests, exhaust("/api/door/lock"))
	assert.NotEqual(t, http.StatusTooManyRequests, exhaust("/api/window/position"))
}
