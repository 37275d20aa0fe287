package platforms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

const metaDefaultBaseURL = "https://graph.facebook.com/v19.0"

// MetaAdapter speaks the Meta Marketing API (Graph API).
type MetaAdapter struct {
	client *restClient
}

func NewMetaAdapter(baseURL string, timeout time.Duration) *MetaAdapter {
	if baseURL == "" {
		baseURL = metaDefaultBaseURL
	}
	return &MetaAdapter{client: newRESTClient(baseURL, timeout)}
}

func (a *MetaAdapter) Platform() domain.Platform { return domain.PlatformMeta }

type metaAccountsResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

func (a *MetaAdapter) FetchAccounts(ctx context.Context, conn domain.PlatformConnection) ([]ports.Account, error) {
	var resp metaAccountsResponse
	q := url.Values{}
	q.Set("fields", "id,name")
	if err := a.client.getJSON(ctx, conn.AccessToken, "/me/adaccounts", q, &resp); err != nil {
		return nil, err
	}
	out := make([]ports.Account, 0, len(resp.Data))
	for _, acc := range resp.Data {
		out = append(out, ports.Account{ID: acc.ID, Name: acc.Name})
	}
	return out, nil
}

type metaCampaignsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Status      string `json:"effective_status"`
		DailyBudget string `json:"daily_budget"`
		Insights    struct {
			Data []metaInsight `json:"data"`
		} `json:"insights"`
	} `json:"data"`
}

type metaInsight struct {
	Spend       string `json:"spend"`
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
	Conversions string `json:"conversions"`
	Revenue     string `json:"purchase_roas_value"`
}

func (a *MetaAdapter) FetchCampaigns(ctx context.Context, conn domain.PlatformConnection, accountID string) ([]ports.RemoteCampaign, error) {
	if accountID == "" {
		accountID = conn.AccountID
	}
	var resp metaCampaignsResponse
	q := url.Values{}
	q.Set("fields", "id,name,effective_status,daily_budget,insights{spend,impressions,clicks,conversions,purchase_roas_value}")
	path := fmt.Sprintf("/%s/campaigns", url.PathEscape(accountID))
	if err := a.client.getJSON(ctx, conn.AccessToken, path, q, &resp); err != nil {
		return nil, err
	}

	out := make([]ports.RemoteCampaign, 0, len(resp.Data))
	for _, c := range resp.Data {
		rc := ports.RemoteCampaign{
			ExternalID: c.ID,
			Name:       c.Name,
			Status:     metaStatus(c.Status),
			// Meta reports budgets in minor currency units.
			Budget: parseFloat(c.DailyBudget) / 100,
		}
		if len(c.Insights.Data) > 0 {
			in := c.Insights.Data[0]
			rc.Spend = parseFloat(in.Spend)
			rc.Impressions = parseInt(in.Impressions)
			rc.Clicks = parseInt(in.Clicks)
			rc.Conversions = parseInt(in.Conversions)
			rc.Revenue = parseFloat(in.Revenue)
		}
		out = append(out, rc)
	}
	return out, nil
}

func (a *MetaAdapter) FetchMetrics(ctx context.Context, conn domain.PlatformConnection, externalID string, window domain.MetricsWindow) (ports.RemoteCampaign, error) {
	var resp struct {
		Data []metaInsight `json:"data"`
	}
	q := url.Values{}
	q.Set("time_range", fmt.Sprintf(`{"since":"%s","until":"%s"}`,
		window.From.Format("2006-01-02"), window.To.Format("2006-01-02")))
	path := fmt.Sprintf("/%s/insights", url.PathEscape(externalID))
	if err := a.client.getJSON(ctx, conn.AccessToken, path, q, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	rc := ports.RemoteCampaign{ExternalID: externalID}
	if len(resp.Data) > 0 {
		in := resp.Data[0]
		rc.Spend = parseFloat(in.Spend)
		rc.Impressions = parseInt(in.Impressions)
		rc.Clicks = parseInt(in.Clicks)
		rc.Conversions = parseInt(in.Conversions)
		rc.Revenue = parseFloat(in.Revenue)
	}
	return rc, nil
}

// FetchLeads is empty for Meta; lead generation forms are not synced yet.
func (a *MetaAdapter) FetchLeads(_ context.Context, _ domain.PlatformConnection) ([]ports.RemoteLead, error) {
	return nil, nil
}

func (a *MetaAdapter) CreateCampaign(ctx context.Context, conn domain.PlatformConnection, draft domain.CampaignDraft) (ports.RemoteCampaign, error) {
	var resp struct {
		ID string `json:"id"`
	}
	body := map[string]any{
		"name":         draft.Name,
		"status":       metaRemoteStatus(draft.Status),
		"daily_budget": int64(draft.Budget * 100),
		"objective":    "OUTCOME_TRAFFIC",
	}
	path := fmt.Sprintf("/%s/campaigns", url.PathEscape(conn.AccountID))
	if err := a.client.postJSON(ctx, conn.AccessToken, path, body, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	return ports.RemoteCampaign{
		ExternalID: resp.ID,
		Name:       draft.Name,
		Status:     draft.Status,
		Budget:     draft.Budget,
	}, nil
}

func (a *MetaAdapter) PauseCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "PAUSED")
}

func (a *MetaAdapter) ResumeCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "ACTIVE")
}

func (a *MetaAdapter) DeleteCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.client.deleteJSON(ctx, conn.AccessToken, "/"+url.PathEscape(externalID))
}

func (a *MetaAdapter) PublishCreative(ctx context.Context, conn domain.PlatformConnection, externalID string, creative domain.Creative) error {
	body := map[string]any{
		"name":                creative.Headline,
		"title":               creative.Headline,
		"body":                creative.Body,
		"call_to_action_type": strings.ToUpper(strings.ReplaceAll(creative.CallToAction, " ", "_")),
		"image_url":           creative.ImageURL,
		"campaign_id":         externalID,
	}
	path := fmt.Sprintf("/%s/adcreatives", url.PathEscape(conn.AccountID))
	return a.client.postJSON(ctx, conn.AccessToken, path, body, nil)
}

func (a *MetaAdapter) setStatus(ctx context.Context, conn domain.PlatformConnection, externalID, status string) error {
	body := map[string]any{"status": status}
	return a.client.postJSON(ctx, conn.AccessToken, "/"+url.PathEscape(externalID), body, nil)
}

func metaStatus(remote string) domain.CampaignStatus {
	switch strings.ToUpper(remote) {
	case "ACTIVE":
		return domain.CampaignActive
	case "PAUSED", "CAMPAIGN_PAUSED", "ADSET_PAUSED":
		return domain.CampaignPaused
	case "SCHEDULED", "PENDING_REVIEW":
		return domain.CampaignScheduled
	default:
		return domain.CampaignCompleted
	}
}

func metaRemoteStatus(status domain.CampaignStatus) string {
	if status == domain.CampaignScheduled || status == domain.CampaignPaused {
		return "PAUSED"
	}
	return "ACTIVE"
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(raw string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
