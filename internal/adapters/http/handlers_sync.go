package http

import (
	"net/http"
)

func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	stats, err := h.service.SyncUser(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "trigger_sync", err)
		return
	}
	writeSuccess(w, http.StatusOK, stats)
}

// cronSync runs the full sweep on behalf of the external scheduler.
func (h *Handler) cronSync(w http.ResponseWriter, r *http.Request) {
	if !h.cronAuthorized(r) {
		logHTTPOperationError(r.Context(), "cron_sync", http.StatusUnauthorized, "UNAUTHORIZED", "bad cron secret", nil)
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid cron secret")
		return
	}

	results, err := h.service.SyncAllUsers(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "cron_sync", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"users_synced": len(results),
		"results":      results,
	})
}
