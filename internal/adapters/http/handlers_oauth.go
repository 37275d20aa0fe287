package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type oauthStartRequest struct {
	RedirectURI string `json:"redirect_uri"`
}

func (h *Handler) oauthStart(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req oauthStartRequest
	if r.Method == http.MethodGet {
		req.RedirectURI = r.URL.Query().Get("redirect_uri")
	} else if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "oauth_start", err)
		return
	}

	res, err := h.service.StartAuthorization(r.Context(), claims.UserID, chi.URLParam(r, "platform"), req.RedirectURI, readIP(r))
	if err != nil {
		writeMappedError(r.Context(), w, "oauth_start", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	res, err := h.service.HandleCallback(r.Context(), chi.URLParam(r, "platform"), code, state)
	if err != nil {
		writeMappedError(r.Context(), w, "oauth_callback", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
