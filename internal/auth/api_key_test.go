package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/decoyra/internal/auth"
)

func TestAPIKeySet_Valid(t *testing.T) {
	keys := auth.NewAPIKeySet([]string{"guvi-secret-key-123", " dev-fallback-key ", ""})

	assert.False(t, keys.Empty())
	assert.True(t, keys.Valid("guvi-secret-key-123"))
	assert.True(t, keys.Valid("dev-fallback-key"))
	assert.False(t, keys.Valid("guvi-secret-key-12"))
	assert.False(t, keys.Valid(""))
}

func TestAPIKeySet_Empty(t *testing.T) {
	assert.True(t, auth.NewAPIKeySet(nil).Empty())
	assert.True(t, auth.NewAPIKeySet([]string{" ", ""}).Empty())
}

func TestRequireAPIKey(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		keys       []string
		header     string
		wantStatus int
	}{
		{"valid key", []string{"k1", "k2"}, "k2", http.StatusOK},
		{"wrong key", []string{"k1"}, "nope", http.StatusUnauthorized},
		{"missing header", []string{"k1"}, "", http.StatusUnauthorized},
		{"no keys configured", nil, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := auth.RequireAPIKey(auth.NewAPIKeySet(tt.keys), nil, logger)(next)

			req := httptest.NewRequest("POST", "/honeypot", nil)
			if tt.header != "" {
				req.Header.Set(auth.APIKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"detail":"Invalid API key"}`, w.Body.String())
			}
		})
	}
}
