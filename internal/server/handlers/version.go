package handlers

import "net/http"

// VersionInfo is the build metadata reported by /version.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// VersionHandler serves the /version endpoint.
type VersionHandler struct {
	info VersionInfo
}

// NewVersionHandler creates a version handler reporting info.
func NewVersionHandler(info VersionInfo) *VersionHandler {
	return &VersionHandler{info: info}
}

// Get handles GET /version.
func (h *VersionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}
