package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_MutationsOnly(t *testing.T) {
	s := setupTestServer(t, groupOneSeed(), &Config{
		Host:           "localhost",
		Port:           8080,
		RateLimitRPS:   0.001,
		RateLimitBurst: 2,
	})

	body := CreateTaskRequest{Title: "t", Description: "d", Persona: "p", Group: intPtr(1), Section: intPtr(1)}
	assert.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/tasks", body).Code)
	assert.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/tasks", body).Code)

	rec := doJSON(t, s, http.MethodPost, "/tasks", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Rate limit exceeded", decode[ErrorResponse](t, rec).Error)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/tasks", nil).Code)
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	s := setupTestServer(t, groupOneSeed(), &Config{
		Host:           "localhost",
		Port:           8080,
		RateLimitRPS:   0.001,
		RateLimitBurst: 1,
	})

	send := func(remoteIP, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/tasks/complete", nil)
		req.RemoteAddr = remoteIP + ":40000"
		if forwarded != "" {
			req.Header.Set(echo.HeaderXRealIP, forwarded)
			req.Header.Set(echo.HeaderXForwardedFor, forwarded)
		}
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusBadRequest, send("10.0.0.1", ""))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1", ""))
	assert.Equal(t, http.StatusBadRequest, send("10.0.0.2", ""))

	t.Run("forwarding headers do not pick the limiter", func(t *testing.T) {
		assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1", "203.0.113.7"))
		assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1", "203.0.113.8"))
	})
}

func TestClientLimiters_MinimumBurst(t *testing.T) {
	l := newClientLimiters(1, 0)
	assert.Equal(t, 1, l.burst)
	assert.Same(t, l.get("a"), l.get("a"))
	assert.NotSame(t, l.get("a"), l.get("b"))
}
