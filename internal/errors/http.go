// Package errors defines the JSON error envelope returned by the HTTP
// service.
package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPErrorResponse is the wire format for all HTTP error bodies.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail carries the machine-readable code and human-readable
// message for an error, plus optional request correlation and context.
type HTTPErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Respond writes an error envelope with the given status.
func Respond(w http.ResponseWriter, status int, code, message, requestID string) {
	RespondDetails(w, status, code, message, requestID, nil)
}

// RespondDetails writes an error envelope with additional context.
func RespondDetails(w http.ResponseWriter, status int, code, message, requestID string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	})
}
