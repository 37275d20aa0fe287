package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type connectionView struct {
	ConnectionID string  `json:"connection_id"`
	Platform     string  `json:"platform"`
	AccountID    string  `json:"account_id"`
	AccountName  string  `json:"account_name"`
	Active       bool    `json:"active"`
	ConnectedAt  string  `json:"connected_at"`
	LastSyncedAt *string `json:"last_synced_at"`
}

func (h *Handler) listConnections(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	conns, err := h.service.ListConnections(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "list_connections", err)
		return
	}

	views := make([]connectionView, 0, len(conns))
	for _, conn := range conns {
		view := connectionView{
			ConnectionID: conn.ConnectionID.String(),
			Platform:     string(conn.Platform),
			AccountID:    conn.AccountID,
			AccountName:  conn.AccountName,
			Active:       conn.Active,
			ConnectedAt:  conn.ConnectedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if conn.LastSyncedAt != nil {
			synced := conn.LastSyncedAt.UTC().Format("2006-01-02T15:04:05Z")
			view.LastSyncedAt = &synced
		}
		views = append(views, view)
	}
	writeSuccess(w, http.StatusOK, map[string]any{"connections": views})
}

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	connectionID, err := uuid.Parse(chi.URLParam(r, "connection_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid connection_id")
		return
	}
	if err := h.service.Disconnect(r.Context(), claims.UserID, connectionID); err != nil {
		writeMappedError(r.Context(), w, "disconnect", err)
		return
	}
	writeMessage(w, http.StatusOK, "Platform disconnected")
}
