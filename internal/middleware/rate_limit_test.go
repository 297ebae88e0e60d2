package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitByIP_EnforcesLimit(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 3}, nil)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/stats", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code, "request %d", i+1)
	}

	req := httptest.NewRequest("GET", "/stats", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Too many requests"}`, recorder.Body.String())
}

func TestRateLimitByIP_SeparateBucketsPerIP(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1}, nil)(okHandler())

	for _, addr := range []string{"192.0.2.20:1", "192.0.2.21:1"} {
		req := httptest.NewRequest("GET", "/stats", nil)
		req.RemoteAddr = addr
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code, addr)
	}
}

// A spoofed X-Forwarded-For from an untrusted peer must not buy a fresh bucket
func TestRateLimitByIP_IgnoresSpoofedForwardedFor(t *testing.T) {
	ipConfig, _ := pkghttp.NewIPConfig([]string{"10.0.0.0/8"})
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1}, ipConfig)(okHandler())

	codes := make([]int, 0, 2)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest("GET", "/stats", nil)
		req.RemoteAddr = "203.0.113.30:5000"
		req.Header.Set("X-Forwarded-For", spoofed)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitByIP_TrustedProxyKeysOnForwardedIP(t *testing.T) {
	ipConfig, _ := pkghttp.NewIPConfig([]string{"10.0.0.0/8"})
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1}, ipConfig)(okHandler())

	for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest("GET", "/stats", nil)
		req.RemoteAddr = "10.0.0.5:5000"
		req.Header.Set("X-Forwarded-For", client)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code, client)
	}
}

func TestDefaultStatsRateLimit(t *testing.T) {
	assert.Equal(t, 30, DefaultStatsRateLimit().RequestsPerMinute)
}
