package http

import (
	"encoding/json"
	"net/http"
)

// DetailResponse is the error body every decoy endpoint returns. The shape
// matches the framework the decoy impersonates.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON writes v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Encoding errors can't be reported once the header is written
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes a {"detail": ...} error response
func WriteDetail(w http.ResponseWriter, statusCode int, detail string) {
	WriteJSON(w, statusCode, DetailResponse{Detail: detail})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter) {
	WriteDetail(w, http.StatusBadRequest, "Invalid request body")
}

func WriteUnauthorized(w http.ResponseWriter, detail string) {
	WriteDetail(w, http.StatusUnauthorized, detail)
}

func WriteValidationError(w http.ResponseWriter, detail string) {
	WriteDetail(w, http.StatusUnprocessableEntity, detail)
}

func WriteTooManyRequests(w http.ResponseWriter) {
	WriteDetail(w, http.StatusTooManyRequests, "Too many requests")
}

func WriteNotFound(w http.ResponseWriter) {
	WriteDetail(w, http.StatusNotFound, "Not Found")
}

func WriteMethodNotAllowed(w http.ResponseWriter) {
	WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
