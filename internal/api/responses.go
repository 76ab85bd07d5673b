package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "parley/backend/internal/errors"
	"parley/backend/internal/model"
)

// Shared DTOs for API responses and helpers for sending them consistently.

// ErrorResponse is the standard JSON structure for error messages. ErrorKind
// is set on provider-failure paths so clients can tell "fix your API key"
// from "try again" without parsing the message, mirroring the error_kind
// field of streamed error events.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// StatusResponse is the generic success payload for mutations that do not
// return a resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// UpdateTitleRequest is the DTO for renaming a conversation.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200" example:"Kubernetes onboarding questions"`
}

// EditMessageRequest is the DTO for editing a user message. Setting
// delete_subsequent removes every later message, the precondition for
// regenerating the branch.
type EditMessageRequest struct {
	Content          string `json:"content" validate:"required,min=1"`
	DeleteSubsequent bool   `json:"delete_subsequent"`
}

// respondWithError maps business-layer errors to HTTP responses. The
// detailed error is logged; clients get a stable message.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with the current state of the resource."
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusForbidden
		message = "You do not have permission to perform this action."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)
	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// sendErrorStatus maps a typed provider failure from a non-streaming send to
// an HTTP status the client can act on: retryable kinds map to 502/503/504,
// configuration kinds to 4xx.
func sendErrorStatus(kind string) int {
	switch kind {
	case "auth":
		return http.StatusBadGateway
	case "invalid_request", "validation":
		return http.StatusBadRequest
	case "rate_limit":
		return http.StatusServiceUnavailable
	case "timeout":
		return http.StatusGatewayTimeout
	case "unsupported_provider":
		return http.StatusUnprocessableEntity
	case "not_found":
		return http.StatusNotFound
	case "permission":
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// writeStreamEvent marshals one event and writes it as an SSE data frame. A
// write failure signals that the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, event model.StreamEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal stream event", "error", err)
		return nil
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// writeStreamError writes an `event: error` frame so SSE clients can attach
// a dedicated listener for failures.
func writeStreamError(w http.ResponseWriter, event model.StreamEvent) {
	jsonData, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal stream error", "error", err)
		return
	}
	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", jsonData); err != nil {
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
		return
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
