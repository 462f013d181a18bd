// Package handlers provides the HTTP handlers for the admin API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response represents a standard API response wrapper.
//
// All API responses follow this structure for consistency:
//   - Status indicates the overall result ("healthy", "unhealthy", "ok", "error")
//   - Timestamp provides response time for debugging and caching
//   - Data contains the response payload (optional)
//   - Error contains error details when Status indicates failure (optional)
type Response struct {
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// okResponse creates a generic successful response.
func okResponse(data interface{}) Response {
	return Response{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// healthyResponse creates a successful health check response.
func healthyResponse(data interface{}) Response {
	return Response{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// unhealthyResponse creates a failed health check response.
func unhealthyResponse(errMsg string) Response {
	return Response{
		Status:    "unhealthy",
		Timestamp: time.Now().UTC(),
		Error:     errMsg,
	}
}

// errorResponse creates a generic error response.
func errorResponse(errMsg string) Response {
	return Response{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     errMsg,
	}
}

// WriteJSONOK writes a 200 OK response with the standard envelope.
func WriteJSONOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, okResponse(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorResponse(detail))
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse(detail))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusNotFound, errorResponse(detail))
}

// InternalServerError writes a 500 error response.
func InternalServerError(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusInternalServerError, errorResponse(detail))
}

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns false after writing a 400 if decoding fails.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}
