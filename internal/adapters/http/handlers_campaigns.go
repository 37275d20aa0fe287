package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/application"
	"github.com/adpilot/marketops/internal/domain"
)

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	campaigns, err := h.service.ListCampaigns(r.Context(), claims.UserID,
		q.Get("status"), q.Get("platform"),
		parseIntDefault(q.Get("limit"), 0), parseIntDefault(q.Get("offset"), 0))
	if err != nil {
		writeMappedError(r.Context(), w, "list_campaigns", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"campaigns": campaignViews(campaigns)})
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req application.CreateCampaignRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_campaign", err)
		return
	}
	campaign, err := h.service.CreateCampaign(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_campaign", err)
		return
	}
	writeSuccess(w, http.StatusCreated, campaignView(campaign))
}

func (h *Handler) pauseCampaign(w http.ResponseWriter, r *http.Request) {
	h.setCampaignStatus(w, r, "pause_campaign", h.service.PauseCampaign)
}

func (h *Handler) resumeCampaign(w http.ResponseWriter, r *http.Request) {
	h.setCampaignStatus(w, r, "resume_campaign", h.service.ResumeCampaign)
}

func (h *Handler) setCampaignStatus(w http.ResponseWriter, r *http.Request, operation string, apply func(ctx context.Context, userID, campaignID uuid.UUID) error) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign_id")
		return
	}
	if err := apply(r.Context(), claims.UserID, campaignID); err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	writeMessage(w, http.StatusOK, "Campaign updated")
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign_id")
		return
	}
	if err := h.service.DeleteCampaign(r.Context(), claims.UserID, campaignID); err != nil {
		writeMappedError(r.Context(), w, "delete_campaign", err)
		return
	}
	writeMessage(w, http.StatusOK, "Campaign deleted")
}

type publishCreativeRequest struct {
	Headline     string `json:"headline"`
	Body         string `json:"body"`
	CallToAction string `json:"call_to_action"`
	ImageURL     string `json:"image_url"`
}

func (h *Handler) publishCreative(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign_id")
		return
	}
	var req publishCreativeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "publish_creative", err)
		return
	}
	creative := domain.Creative{
		Headline:     req.Headline,
		Body:         req.Body,
		CallToAction: req.CallToAction,
		ImageURL:     req.ImageURL,
	}
	if err := h.service.PublishCreative(r.Context(), claims.UserID, campaignID, creative); err != nil {
		writeMappedError(r.Context(), w, "publish_creative", err)
		return
	}
	writeMessage(w, http.StatusOK, "Creative published")
}

type campaignViewModel struct {
	CampaignID  string  `json:"campaign_id"`
	Platform    string  `json:"platform"`
	ExternalID  string  `json:"external_id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Budget      float64 `json:"budget"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	ROAS        float64 `json:"roas"`
}

func campaignView(c domain.Campaign) campaignViewModel {
	return campaignViewModel{
		CampaignID:  c.CampaignID.String(),
		Platform:    string(c.Platform),
		ExternalID:  c.ExternalID,
		Name:        c.Name,
		Status:      string(c.Status),
		Budget:      c.Budget,
		Spend:       c.Spend,
		Revenue:     c.Revenue,
		Impressions: c.Impressions,
		Clicks:      c.Clicks,
		Conversions: c.Conversions,
		CTR:         c.CTR,
		CPC:         c.CPC,
		ROAS:        c.ROAS,
	}
}

func campaignViews(campaigns []domain.Campaign) []campaignViewModel {
	out := make([]campaignViewModel, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, campaignView(c))
	}
	return out
}
