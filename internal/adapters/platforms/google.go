package platforms

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

const googleDefaultBaseURL = "https://googleads.googleapis.com/v16"

// GoogleAdapter speaks the Google Ads API. Monetary fields arrive in micros
// and are converted to currency units on the way in.
type GoogleAdapter struct {
	client *restClient
}

func NewGoogleAdapter(baseURL string, timeout time.Duration) *GoogleAdapter {
	if baseURL == "" {
		baseURL = googleDefaultBaseURL
	}
	return &GoogleAdapter{client: newRESTClient(baseURL, timeout)}
}

func (a *GoogleAdapter) Platform() domain.Platform { return domain.PlatformGoogle }

type googleCustomersResponse struct {
	ResourceNames []string `json:"resourceNames"`
}

func (a *GoogleAdapter) FetchAccounts(ctx context.Context, conn domain.PlatformConnection) ([]ports.Account, error) {
	var resp googleCustomersResponse
	if err := a.client.getJSON(ctx, conn.AccessToken, "/customers:listAccessibleCustomers", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]ports.Account, 0, len(resp.ResourceNames))
	for _, name := range resp.ResourceNames {
		// Resource names look like "customers/1234567890".
		id := name
		if idx := len("customers/"); len(name) > idx && name[:idx] == "customers/" {
			id = name[idx:]
		}
		out = append(out, ports.Account{ID: id, Name: name})
	}
	return out, nil
}

type googleSearchResponse struct {
	Results []struct {
		Campaign struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"campaign"`
		CampaignBudget struct {
			AmountMicros string `json:"amountMicros"`
		} `json:"campaignBudget"`
		Metrics googleMetrics `json:"metrics"`
	} `json:"results"`
}

type googleMetrics struct {
	CostMicros       string  `json:"costMicros"`
	Impressions      string  `json:"impressions"`
	Clicks           string  `json:"clicks"`
	Conversions      float64 `json:"conversions"`
	ConversionsValue float64 `json:"conversionsValue"`
}

const googleCampaignQuery = `SELECT campaign.id, campaign.name, campaign.status,
 campaign_budget.amount_micros, metrics.cost_micros, metrics.impressions,
 metrics.clicks, metrics.conversions, metrics.conversions_value
 FROM campaign WHERE campaign.status != 'REMOVED'`

func (a *GoogleAdapter) FetchCampaigns(ctx context.Context, conn domain.PlatformConnection, accountID string) ([]ports.RemoteCampaign, error) {
	if accountID == "" {
		accountID = conn.AccountID
	}
	var resp googleSearchResponse
	path := fmt.Sprintf("/customers/%s/googleAds:search", url.PathEscape(accountID))
	body := map[string]any{"query": googleCampaignQuery}
	if err := a.client.postJSON(ctx, conn.AccessToken, path, body, &resp); err != nil {
		return nil, err
	}

	out := make([]ports.RemoteCampaign, 0, len(resp.Results))
	for _, res := range resp.Results {
		out = append(out, ports.RemoteCampaign{
			ExternalID:  res.Campaign.ID,
			Name:        res.Campaign.Name,
			Status:      googleStatus(res.Campaign.Status),
			Budget:      parseFloat(res.CampaignBudget.AmountMicros) / 1e6,
			Spend:       parseFloat(res.Metrics.CostMicros) / 1e6,
			Revenue:     res.Metrics.ConversionsValue,
			Impressions: parseInt(res.Metrics.Impressions),
			Clicks:      parseInt(res.Metrics.Clicks),
			Conversions: int64(res.Metrics.Conversions),
		})
	}
	return out, nil
}

func (a *GoogleAdapter) FetchMetrics(ctx context.Context, conn domain.PlatformConnection, externalID string, window domain.MetricsWindow) (ports.RemoteCampaign, error) {
	var resp googleSearchResponse
	query := fmt.Sprintf(`SELECT metrics.cost_micros, metrics.impressions, metrics.clicks,
 metrics.conversions, metrics.conversions_value FROM campaign
 WHERE campaign.id = %s AND segments.date BETWEEN '%s' AND '%s'`,
		externalID, window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))
	path := fmt.Sprintf("/customers/%s/googleAds:search", url.PathEscape(conn.AccountID))
	if err := a.client.postJSON(ctx, conn.AccessToken, path, map[string]any{"query": query}, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	rc := ports.RemoteCampaign{ExternalID: externalID}
	if len(resp.Results) > 0 {
		m := resp.Results[0].Metrics
		rc.Spend = parseFloat(m.CostMicros) / 1e6
		rc.Impressions = parseInt(m.Impressions)
		rc.Clicks = parseInt(m.Clicks)
		rc.Conversions = int64(m.Conversions)
		rc.Revenue = m.ConversionsValue
	}
	return rc, nil
}

// FetchLeads is empty for Google; lead form assets are not synced yet.
func (a *GoogleAdapter) FetchLeads(_ context.Context, _ domain.PlatformConnection) ([]ports.RemoteLead, error) {
	return nil, nil
}

func (a *GoogleAdapter) CreateCampaign(ctx context.Context, conn domain.PlatformConnection, draft domain.CampaignDraft) (ports.RemoteCampaign, error) {
	var resp struct {
		Results []struct {
			ResourceName string `json:"resourceName"`
		} `json:"results"`
	}
	body := map[string]any{
		"operations": []map[string]any{{
			"create": map[string]any{
				"name":   draft.Name,
				"status": googleRemoteStatus(draft.Status),
			},
		}},
	}
	path := fmt.Sprintf("/customers/%s/campaigns:mutate", url.PathEscape(conn.AccountID))
	if err := a.client.postJSON(ctx, conn.AccessToken, path, body, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	externalID := ""
	if len(resp.Results) > 0 {
		externalID = resp.Results[0].ResourceName
	}
	return ports.RemoteCampaign{
		ExternalID: externalID,
		Name:       draft.Name,
		Status:     draft.Status,
		Budget:     draft.Budget,
	}, nil
}

func (a *GoogleAdapter) PauseCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "PAUSED")
}

func (a *GoogleAdapter) ResumeCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "ENABLED")
}

func (a *GoogleAdapter) DeleteCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	// Google campaigns are removed, not deleted.
	return a.setStatus(ctx, conn, externalID, "REMOVED")
}

func (a *GoogleAdapter) PublishCreative(ctx context.Context, conn domain.PlatformConnection, externalID string, creative domain.Creative) error {
	body := map[string]any{
		"operations": []map[string]any{{
			"create": map[string]any{
				"finalUrls": []string{creative.ImageURL},
				"responsiveSearchAd": map[string]any{
					"headlines":    []map[string]string{{"text": creative.Headline}},
					"descriptions": []map[string]string{{"text": creative.Body}},
				},
			},
		}},
	}
	path := fmt.Sprintf("/customers/%s/adGroupAds:mutate", url.PathEscape(conn.AccountID))
	return a.client.postJSON(ctx, conn.AccessToken, path, body, nil)
}

func (a *GoogleAdapter) setStatus(ctx context.Context, conn domain.PlatformConnection, externalID, status string) error {
	body := map[string]any{
		"operations": []map[string]any{{
			"update": map[string]any{
				"resourceName": fmt.Sprintf("customers/%s/campaigns/%s", conn.AccountID, externalID),
				"status":       status,
			},
			"updateMask": "status",
		}},
	}
	path := fmt.Sprintf("/customers/%s/campaigns:mutate", url.PathEscape(conn.AccountID))
	return a.client.postJSON(ctx, conn.AccessToken, path, body, nil)
}

func googleStatus(remote string) domain.CampaignStatus {
	switch remote {
	case "ENABLED":
		return domain.CampaignActive
	case "PAUSED":
		return domain.CampaignPaused
	default:
		return domain.CampaignCompleted
	}
}

func googleRemoteStatus(status domain.CampaignStatus) string {
	if status == domain.CampaignActive {
		return "ENABLED"
	}
	return "PAUSED"
}
