package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/application"
	"github.com/adpilot/marketops/internal/domain"
)

func (h *Handler) listLeads(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var campaignID *uuid.UUID
	if raw := q.Get("campaign_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign_id")
			return
		}
		campaignID = &parsed
	}

	leads, err := h.service.ListLeads(r.Context(), claims.UserID, q.Get("source"), campaignID,
		parseIntDefault(q.Get("limit"), 0), parseIntDefault(q.Get("offset"), 0))
	if err != nil {
		writeMappedError(r.Context(), w, "list_leads", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"leads": leadViews(leads)})
}

func (h *Handler) createLead(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req application.CreateLeadRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_lead", err)
		return
	}
	lead, err := h.service.CreateLead(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_lead", err)
		return
	}
	writeSuccess(w, http.StatusCreated, leadView(lead))
}

type importLeadsRequest struct {
	Leads []application.CreateLeadRequest `json:"leads"`
}

func (h *Handler) importLeads(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req importLeadsRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "import_leads", err)
		return
	}
	if len(req.Leads) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "leads must not be empty")
		return
	}
	result, err := h.service.ImportLeads(r.Context(), claims.UserID, req.Leads)
	if err != nil {
		writeMappedError(r.Context(), w, "import_leads", err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

type leadViewModel struct {
	LeadID     string  `json:"lead_id"`
	CampaignID *string `json:"campaign_id,omitempty"`
	Platform   string  `json:"platform,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Source     string  `json:"source"`
	Value      float64 `json:"value"`
}

func leadView(l domain.Lead) leadViewModel {
	view := leadViewModel{
		LeadID:   l.LeadID.String(),
		Platform: string(l.Platform),
		Name:     l.Name,
		Email:    l.Email,
		Phone:    l.Phone,
		Source:   l.Source,
		Value:    l.Value,
	}
	if l.CampaignID != nil {
		id := l.CampaignID.String()
		view.CampaignID = &id
	}
	return view
}

func leadViews(leads []domain.Lead) []leadViewModel {
	out := make([]leadViewModel, 0, len(leads))
	for _, l := range leads {
		out = append(out, leadView(l))
	}
	return out
}
