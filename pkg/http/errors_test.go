package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

func TestWriteDetail(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteDetail(w, http.StatusUnauthorized, "Invalid credentials")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Invalid credentials"}`, w.Body.String())
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Service is running"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Service is running", resp["message"])
}

func TestCommonWriters(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		detail string
	}{
		{"bad request", pkghttp.WriteBadRequest, http.StatusBadRequest, "Invalid request body"},
		{"unauthorized", func(w http.ResponseWriter) { pkghttp.WriteUnauthorized(w, "Invalid API key") }, http.StatusUnauthorized, "Invalid API key"},
		{"validation", func(w http.ResponseWriter) { pkghttp.WriteValidationError(w, "validation failed") }, http.StatusUnprocessableEntity, "validation failed"},
		{"too many requests", pkghttp.WriteTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
		{"not found", pkghttp.WriteNotFound, http.StatusNotFound, "Not Found"},
		{"method not allowed", pkghttp.WriteMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			var resp pkghttp.DetailResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.detail, resp.Detail)
		})
	}
}
