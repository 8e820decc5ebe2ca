package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/odcplane/odcplane/internal/errors"
	"github.com/odcplane/odcplane/internal/server/middleware"
	"github.com/odcplane/odcplane/pkg/controller"
	"github.com/odcplane/odcplane/pkg/jobregistry"
	"github.com/odcplane/odcplane/pkg/processgraph"
)

// maxGraphBytes bounds process-graph submissions.
const maxGraphBytes = 8 << 20

// JobsHandler serves job lifecycle endpoints.
type JobsHandler struct {
	controller *controller.Controller
}

// NewJobsHandler creates the job lifecycle handler.
func NewJobsHandler(ctrl *controller.Controller) *JobsHandler {
	return &JobsHandler{controller: ctrl}
}

// Submit handles POST /graph: validate the process graph, start a
// processing unit, and record it in the registry.
func (h *JobsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxGraphBytes+1))
	if err != nil {
		apperrors.Respond(w, http.StatusBadRequest,
			"INVALID_REQUEST", "failed to read request body", requestID)
		return
	}
	if len(body) > maxGraphBytes {
		apperrors.Respond(w, http.StatusRequestEntityTooLarge,
			"REQUEST_TOO_LARGE", "process graph exceeds size limit", requestID)
		return
	}

	graph, err := processgraph.Parse(body)
	if err != nil {
		apperrors.Respond(w, http.StatusBadRequest,
			"PROCESS_GRAPH_INVALID", err.Error(), requestID)
		return
	}

	result, err := h.controller.SubmitJob(r.Context(), graph)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Cancel handles DELETE /jobs/{id}: interrupt the processing unit and
// drop the registry record. Responds 204 on success.
func (h *JobsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimSpace(chi.URLParam(r, "id"))
	h.cancel(w, r, jobID)
}

// CancelLegacy handles DELETE /stop_job?id=, kept for clients of the
// original API surface.
func (h *JobsHandler) CancelLegacy(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimSpace(r.URL.Query().Get("id"))
	h.cancel(w, r, jobID)
}

func (h *JobsHandler) cancel(w http.ResponseWriter, r *http.Request, jobID string) {
	requestID := middleware.GetRequestID(r.Context())
	if jobID == "" {
		apperrors.Respond(w, http.StatusBadRequest,
			"INVALID_REQUEST", "job id is required", requestID)
		return
	}

	if err := h.controller.CancelJob(r.Context(), jobID); err != nil {
		respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// jobListResponse wraps the job listing.
type jobListResponse struct {
	Jobs []jobregistry.JobRecord `json:"jobs"`
}

// List handles GET /jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.controller.ListJobs()
	if records == nil {
		records = []jobregistry.JobRecord{}
	}
	writeJSON(w, http.StatusOK, jobListResponse{Jobs: records})
}
