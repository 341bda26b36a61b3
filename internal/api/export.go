package api

import "net/http"

func handleExport(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Exporter == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "snapshot export is not configured", false)
		return
	}
	result, err := deps.Exporter.Run(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error(), true)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
