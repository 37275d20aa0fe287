package http

import (
	"net/http"

	"github.com/adpilot/marketops/internal/application"
)

func (h *Handler) generateAdCopy(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireClaims(w, r); !ok {
		return
	}
	var req application.AdCopyRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "generate_ad_copy", err)
		return
	}
	creative, err := h.service.GenerateAdCopy(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "generate_ad_copy", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"headline":       creative.Headline,
		"body":           creative.Body,
		"call_to_action": creative.CallToAction,
	})
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	recs, err := h.service.Recommendations(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "recommendations", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"recommendations": recs})
}
