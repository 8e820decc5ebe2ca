package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/odcplane/odcplane/internal/errors"
	"github.com/odcplane/odcplane/internal/observability"
)

// ErrorResponse is the JSON body written by the error middleware.
type ErrorResponse = apperrors.HTTPErrorResponse

// Recovery converts panics into 500 responses with a structured error
// body. The panic value and stack are logged; the response carries only
// a summary and the request id.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID := GetRequestID(r.Context())
				observability.ServerLogger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"))
				writeErrorResponse(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", fmt.Sprintf("panic: %v", rec), requestID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ErrorHandler is an alias for Recovery, kept for middleware chains that
// name the concern rather than the mechanism.
func ErrorHandler(next http.Handler) http.Handler {
	return Recovery(next)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message, requestID string) {
	apperrors.Respond(w, status, code, message, requestID)
}
