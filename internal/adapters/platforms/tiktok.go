package platforms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

const tiktokDefaultBaseURL = "https://business-api.tiktok.com/open_api/v1.3"

// TikTokAdapter speaks the TikTok Business API. TikTok wraps every payload in
// a {code, message, data} envelope and reports auth failures through the code
// field even on HTTP 200, so responses are checked twice.
type TikTokAdapter struct {
	client *restClient
}

func NewTikTokAdapter(baseURL string, timeout time.Duration) *TikTokAdapter {
	if baseURL == "" {
		baseURL = tiktokDefaultBaseURL
	}
	return &TikTokAdapter{client: newRESTClient(baseURL, timeout)}
}

func (a *TikTokAdapter) Platform() domain.Platform { return domain.PlatformTikTok }

type tiktokEnvelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// TikTok application-level error codes for invalid or expired access tokens.
const (
	tiktokCodeOK           = 0
	tiktokCodeAuthExpired  = 40105
	tiktokCodeRateExceeded = 40100
)

func (e *tiktokEnvelope[T]) err() error {
	switch e.Code {
	case tiktokCodeOK:
		return nil
	case tiktokCodeAuthExpired:
		return domain.ErrPlatformAuthExpired
	case tiktokCodeRateExceeded:
		return domain.ErrRateLimited
	default:
		return domain.ErrRemote
	}
}

type tiktokAdvertisers struct {
	List []struct {
		AdvertiserID   string `json:"advertiser_id"`
		AdvertiserName string `json:"advertiser_name"`
	} `json:"list"`
}

func (a *TikTokAdapter) FetchAccounts(ctx context.Context, conn domain.PlatformConnection) ([]ports.Account, error) {
	var resp tiktokEnvelope[tiktokAdvertisers]
	if err := a.client.getJSON(ctx, conn.AccessToken, "/oauth2/advertiser/get/", nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	out := make([]ports.Account, 0, len(resp.Data.List))
	for _, adv := range resp.Data.List {
		out = append(out, ports.Account{ID: adv.AdvertiserID, Name: adv.AdvertiserName})
	}
	return out, nil
}

type tiktokCampaigns struct {
	List []struct {
		CampaignID      string  `json:"campaign_id"`
		CampaignName    string  `json:"campaign_name"`
		OperationStatus string  `json:"operation_status"`
		Budget          float64 `json:"budget"`
	} `json:"list"`
}

type tiktokReport struct {
	List []struct {
		Metrics struct {
			Spend                string `json:"spend"`
			Impressions          string `json:"impressions"`
			Clicks               string `json:"clicks"`
			Conversions          string `json:"conversion"`
			TotalCompletePayment string `json:"total_complete_payment"`
		} `json:"metrics"`
	} `json:"list"`
}

func (a *TikTokAdapter) FetchCampaigns(ctx context.Context, conn domain.PlatformConnection, accountID string) ([]ports.RemoteCampaign, error) {
	if accountID == "" {
		accountID = conn.AccountID
	}
	var resp tiktokEnvelope[tiktokCampaigns]
	q := url.Values{}
	q.Set("advertiser_id", accountID)
	if err := a.client.getJSON(ctx, conn.AccessToken, "/campaign/get/", q, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	out := make([]ports.RemoteCampaign, 0, len(resp.Data.List))
	for _, c := range resp.Data.List {
		rc := ports.RemoteCampaign{
			ExternalID: c.CampaignID,
			Name:       c.CampaignName,
			Status:     tiktokStatus(c.OperationStatus),
			Budget:     c.Budget,
		}
		// A transient report miss degrades to zero counters; expired auth and
		// rate limits must surface so the sync records the platform failure.
		metrics, err := a.FetchMetrics(ctx, conn, c.CampaignID, domain.MetricsWindow{})
		switch {
		case err == nil:
			rc.Spend = metrics.Spend
			rc.Revenue = metrics.Revenue
			rc.Impressions = metrics.Impressions
			rc.Clicks = metrics.Clicks
			rc.Conversions = metrics.Conversions
		case errors.Is(err, domain.ErrPlatformAuthExpired), errors.Is(err, domain.ErrRateLimited):
			return nil, err
		}
		out = append(out, rc)
	}
	return out, nil
}

func (a *TikTokAdapter) FetchMetrics(ctx context.Context, conn domain.PlatformConnection, externalID string, window domain.MetricsWindow) (ports.RemoteCampaign, error) {
	var resp tiktokEnvelope[tiktokReport]
	q := url.Values{}
	q.Set("advertiser_id", conn.AccountID)
	q.Set("report_type", "BASIC")
	q.Set("data_level", "AUCTION_CAMPAIGN")
	q.Set("dimensions", `["campaign_id"]`)
	q.Set("filters", fmt.Sprintf(`[{"field_name":"campaign_ids","filter_type":"IN","filter_value":"[\"%s\"]"}]`, externalID))
	if !window.From.IsZero() {
		q.Set("start_date", window.From.Format("2006-01-02"))
		q.Set("end_date", window.To.Format("2006-01-02"))
	}
	if err := a.client.getJSON(ctx, conn.AccessToken, "/report/integrated/get/", q, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	if err := resp.err(); err != nil {
		return ports.RemoteCampaign{}, err
	}
	rc := ports.RemoteCampaign{ExternalID: externalID}
	if len(resp.Data.List) > 0 {
		m := resp.Data.List[0].Metrics
		rc.Spend = parseFloat(m.Spend)
		rc.Impressions = parseInt(m.Impressions)
		rc.Clicks = parseInt(m.Clicks)
		rc.Conversions = parseInt(m.Conversions)
		rc.Revenue = parseFloat(m.TotalCompletePayment)
	}
	return rc, nil
}

// FetchLeads is empty for TikTok; instant form leads are not synced yet.
func (a *TikTokAdapter) FetchLeads(_ context.Context, _ domain.PlatformConnection) ([]ports.RemoteLead, error) {
	return nil, nil
}

func (a *TikTokAdapter) CreateCampaign(ctx context.Context, conn domain.PlatformConnection, draft domain.CampaignDraft) (ports.RemoteCampaign, error) {
	var resp tiktokEnvelope[struct {
		CampaignID string `json:"campaign_id"`
	}]
	body := map[string]any{
		"advertiser_id":    conn.AccountID,
		"campaign_name":    draft.Name,
		"objective_type":   "TRAFFIC",
		"budget_mode":      "BUDGET_MODE_DAY",
		"budget":           draft.Budget,
		"operation_status": tiktokRemoteStatus(draft.Status),
	}
	if err := a.client.postJSON(ctx, conn.AccessToken, "/campaign/create/", body, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	if err := resp.err(); err != nil {
		return ports.RemoteCampaign{}, err
	}
	return ports.RemoteCampaign{
		ExternalID: resp.Data.CampaignID,
		Name:       draft.Name,
		Status:     draft.Status,
		Budget:     draft.Budget,
	}, nil
}

func (a *TikTokAdapter) PauseCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "DISABLE")
}

func (a *TikTokAdapter) ResumeCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "ENABLE")
}

func (a *TikTokAdapter) DeleteCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "DELETE")
}

func (a *TikTokAdapter) PublishCreative(ctx context.Context, conn domain.PlatformConnection, externalID string, creative domain.Creative) error {
	var resp tiktokEnvelope[struct{}]
	body := map[string]any{
		"advertiser_id":  conn.AccountID,
		"campaign_id":    externalID,
		"ad_name":        creative.Headline,
		"ad_text":        creative.Body,
		"call_to_action": strings.ToUpper(strings.ReplaceAll(creative.CallToAction, " ", "_")),
		"image_urls":     []string{creative.ImageURL},
	}
	if err := a.client.postJSON(ctx, conn.AccessToken, "/ad/create/", body, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (a *TikTokAdapter) setStatus(ctx context.Context, conn domain.PlatformConnection, externalID, operation string) error {
	var resp tiktokEnvelope[struct{}]
	body := map[string]any{
		"advertiser_id":    conn.AccountID,
		"campaign_ids":     []string{externalID},
		"operation_status": operation,
	}
	if err := a.client.postJSON(ctx, conn.AccessToken, "/campaign/status/update/", body, &resp); err != nil {
		return err
	}
	return resp.err()
}

func tiktokStatus(remote string) domain.CampaignStatus {
	switch strings.ToUpper(remote) {
	case "ENABLE":
		return domain.CampaignActive
	case "DISABLE":
		return domain.CampaignPaused
	case "FROZEN":
		return domain.CampaignScheduled
	default:
		return domain.CampaignCompleted
	}
}

func tiktokRemoteStatus(status domain.CampaignStatus) string {
	if status == domain.CampaignActive {
		return "ENABLE"
	}
	return "DISABLE"
}
