package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/odcplane/odcplane/internal/errors"
	"github.com/odcplane/odcplane/internal/server/middleware"
	"github.com/odcplane/odcplane/pkg/artifact"
	"github.com/odcplane/odcplane/pkg/discovery"
	"github.com/odcplane/odcplane/pkg/engine"
	"github.com/odcplane/odcplane/pkg/jobregistry"
	"github.com/odcplane/odcplane/pkg/processgraph"
)

// HTTPErrorResponder maps an error to an HTTP response.
type HTTPErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// httpErrorResponder is the active responder. Tests may swap it.
var httpErrorResponder HTTPErrorResponder = defaultErrorResponder

// SetHTTPErrorResponder replaces the error responder. Passing nil resets
// to the default.
func SetHTTPErrorResponder(responder HTTPErrorResponder) {
	if responder == nil {
		httpErrorResponder = defaultErrorResponder
		return
	}
	httpErrorResponder = responder
}

// ResetHTTPErrorResponder restores the default responder.
func ResetHTTPErrorResponder() {
	httpErrorResponder = defaultErrorResponder
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}

// defaultErrorResponder translates domain errors into status codes and
// stable error codes.
func defaultErrorResponder(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	status, code := classifyError(err)
	apperrors.Respond(w, status, code, err.Error(), requestID)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, processgraph.ErrValidationFailed):
		return http.StatusBadRequest, "PROCESS_GRAPH_INVALID"
	case errors.Is(err, jobregistry.ErrNotFound):
		return http.StatusNotFound, "JOB_NOT_FOUND"
	case errors.Is(err, discovery.ErrNotFound):
		return http.StatusNotFound, "COLLECTION_NOT_FOUND"
	case errors.Is(err, discovery.ErrMalformed):
		return http.StatusBadGateway, "UPSTREAM_MALFORMED"
	case errors.Is(err, discovery.ErrUnavailable):
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, engine.ErrRejected):
		return http.StatusBadRequest, "JOB_REJECTED"
	case errors.Is(err, engine.ErrUnavailable):
		return http.StatusServiceUnavailable, "ENGINE_UNAVAILABLE"
	case errors.Is(err, artifact.ErrNotFound), errors.Is(err, artifact.ErrInvalidKey):
		return http.StatusNotFound, "RESULT_NOT_FOUND"
	case errors.Is(err, artifact.ErrUnavailable):
		return http.StatusBadGateway, "ARTIFACT_STORE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
