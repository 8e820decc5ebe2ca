package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/odcplane/odcplane/internal/errors"
	"github.com/odcplane/odcplane/internal/server/middleware"
	"github.com/odcplane/odcplane/pkg/catalog"
)

// CollectionsHandler serves collection metadata endpoints backed by the
// catalog cache.
type CollectionsHandler struct {
	cache *catalog.Cache
}

// NewCollectionsHandler creates the collections handler.
func NewCollectionsHandler(cache *catalog.Cache) *CollectionsHandler {
	return &CollectionsHandler{cache: cache}
}

// List handles GET /collections.
func (h *CollectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.cache.List(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Describe handles GET /collections/{name}.
func (h *CollectionsHandler) Describe(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		apperrors.Respond(w, http.StatusBadRequest,
			"INVALID_REQUEST", "collection name is required",
			middleware.GetRequestID(r.Context()))
		return
	}

	coll, err := h.cache.Get(r.Context(), name)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coll)
}

// Refresh handles POST /collections/{name}/refresh: drop cached
// metadata and re-resolve from upstream.
func (h *CollectionsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		apperrors.Respond(w, http.StatusBadRequest,
			"INVALID_REQUEST", "collection name is required",
			middleware.GetRequestID(r.Context()))
		return
	}

	coll, err := h.cache.Refresh(r.Context(), name)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coll)
}
