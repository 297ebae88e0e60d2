package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/decoyra/internal/models"
	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRawTestRequest creates an HTTP request with a literal body, for malformed input
func NewRawTestRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertDetailResponse checks that response is a {"detail": ...} error with the given text
func AssertDetailResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedDetail string) {
	var resp pkghttp.DetailResponse
	AssertJSONResponse(t, w, expectedStatus, &resp)
	assert.Equal(t, expectedDetail, resp.Detail, "Detail mismatch")
}

// MockDecoyService implements DecoyServiceInterface for testing and records every call
type MockDecoyService struct {
	RecordLoginFunc   func(ctx context.Context, attempt models.LoginAttempt) *models.BruteForceAlert
	HandleMessageFunc func(ctx context.Context, clientIP, text string) string

	mu       sync.Mutex
	Logins   []models.LoginAttempt
	Messages []string
}

func (m *MockDecoyService) RecordLogin(ctx context.Context, attempt models.LoginAttempt) *models.BruteForceAlert {
	m.mu.Lock()
	m.Logins = append(m.Logins, attempt)
	m.mu.Unlock()

	if m.RecordLoginFunc != nil {
		return m.RecordLoginFunc(ctx, attempt)
	}
	return nil
}

func (m *MockDecoyService) HandleMessage(ctx context.Context, clientIP, text string) string {
	m.mu.Lock()
	m.Messages = append(m.Messages, text)
	m.mu.Unlock()

	if m.HandleMessageFunc != nil {
		return m.HandleMessageFunc(ctx, clientIP, text)
	}
	return "Can you explain this again?"
}

// MockStatsService implements StatsServiceInterface for testing
type MockStatsService struct {
	ComputeFunc func(ctx context.Context) models.Stats
}

func (m *MockStatsService) Compute(ctx context.Context) models.Stats {
	if m.ComputeFunc != nil {
		return m.ComputeFunc(ctx)
	}
	return models.NewStats()
}

// MockHealthChecker implements HealthChecker for testing
type MockHealthChecker struct {
	HealthCheckFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx)
	}
	return nil
}
