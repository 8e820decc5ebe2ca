package handlers

import (
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/odcplane/odcplane/internal/errors"
	"github.com/odcplane/odcplane/internal/server/middleware"
	"github.com/odcplane/odcplane/pkg/artifact"
)

// ResultsHandler streams job result artifacts from the artifact store.
type ResultsHandler struct {
	store artifact.Store
}

// NewResultsHandler creates the results handler.
func NewResultsHandler(store artifact.Store) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// Get handles GET /results/{run_id}/{file}.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(chi.URLParam(r, "run_id"))
	file := strings.TrimSpace(chi.URLParam(r, "file"))
	if runID == "" || file == "" {
		apperrors.Respond(w, http.StatusBadRequest,
			"INVALID_REQUEST", "run id and file name are required",
			middleware.GetRequestID(r.Context()))
		return
	}

	obj, err := h.store.Get(r.Context(), path.Join(runID, file))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj.Body)
}
