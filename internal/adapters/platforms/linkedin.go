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

const linkedinDefaultBaseURL = "https://api.linkedin.com/rest"

// LinkedInAdapter speaks the LinkedIn Marketing API.
type LinkedInAdapter struct {
	client *restClient
}

func NewLinkedInAdapter(baseURL string, timeout time.Duration) *LinkedInAdapter {
	if baseURL == "" {
		baseURL = linkedinDefaultBaseURL
	}
	return &LinkedInAdapter{client: newRESTClient(baseURL, timeout)}
}

func (a *LinkedInAdapter) Platform() domain.Platform { return domain.PlatformLinkedIn }

type linkedinElements[T any] struct {
	Elements []T `json:"elements"`
}

type linkedinAccount struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (a *LinkedInAdapter) FetchAccounts(ctx context.Context, conn domain.PlatformConnection) ([]ports.Account, error) {
	var resp linkedinElements[linkedinAccount]
	q := url.Values{}
	q.Set("q", "search")
	if err := a.client.getJSON(ctx, conn.AccessToken, "/adAccounts", q, &resp); err != nil {
		return nil, err
	}
	out := make([]ports.Account, 0, len(resp.Elements))
	for _, acc := range resp.Elements {
		out = append(out, ports.Account{ID: fmt.Sprintf("%d", acc.ID), Name: acc.Name})
	}
	return out, nil
}

type linkedinCampaign struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	DailyBudget struct {
		Amount string `json:"amount"`
	} `json:"dailyBudget"`
}

type linkedinAnalytics struct {
	CostInLocalCurrency            string `json:"costInLocalCurrency"`
	Impressions                    int64  `json:"impressions"`
	Clicks                         int64  `json:"clicks"`
	ExternalWebsiteConversions     int64  `json:"externalWebsiteConversions"`
	ConversionValueInLocalCurrency string `json:"conversionValueInLocalCurrency"`
}

func (a *LinkedInAdapter) FetchCampaigns(ctx context.Context, conn domain.PlatformConnection, accountID string) ([]ports.RemoteCampaign, error) {
	if accountID == "" {
		accountID = conn.AccountID
	}
	var resp linkedinElements[linkedinCampaign]
	q := url.Values{}
	q.Set("q", "search")
	path := fmt.Sprintf("/adAccounts/%s/adCampaigns", url.PathEscape(accountID))
	if err := a.client.getJSON(ctx, conn.AccessToken, path, q, &resp); err != nil {
		return nil, err
	}

	out := make([]ports.RemoteCampaign, 0, len(resp.Elements))
	for _, c := range resp.Elements {
		externalID := fmt.Sprintf("%d", c.ID)
		rc := ports.RemoteCampaign{
			ExternalID: externalID,
			Name:       c.Name,
			Status:     linkedinStatus(c.Status),
			Budget:     parseFloat(c.DailyBudget.Amount),
		}
		// Analytics live on a separate endpoint; a transient miss degrades to
		// counters of zero rather than failing the whole page. Expired auth and
		// rate limits must surface so the sync records the platform failure.
		metrics, err := a.fetchAnalytics(ctx, conn, externalID, domain.MetricsWindow{})
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

func (a *LinkedInAdapter) FetchMetrics(ctx context.Context, conn domain.PlatformConnection, externalID string, window domain.MetricsWindow) (ports.RemoteCampaign, error) {
	return a.fetchAnalytics(ctx, conn, externalID, window)
}

func (a *LinkedInAdapter) fetchAnalytics(ctx context.Context, conn domain.PlatformConnection, externalID string, window domain.MetricsWindow) (ports.RemoteCampaign, error) {
	var resp linkedinElements[linkedinAnalytics]
	q := url.Values{}
	q.Set("q", "analytics")
	q.Set("campaigns", "urn:li:sponsoredCampaign:"+externalID)
	if !window.From.IsZero() {
		q.Set("dateRange.start", window.From.Format("2006-01-02"))
		q.Set("dateRange.end", window.To.Format("2006-01-02"))
	}
	if err := a.client.getJSON(ctx, conn.AccessToken, "/adAnalytics", q, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	rc := ports.RemoteCampaign{ExternalID: externalID}
	for _, row := range resp.Elements {
		rc.Spend += parseFloat(row.CostInLocalCurrency)
		rc.Revenue += parseFloat(row.ConversionValueInLocalCurrency)
		rc.Impressions += row.Impressions
		rc.Clicks += row.Clicks
		rc.Conversions += row.ExternalWebsiteConversions
	}
	return rc, nil
}

type linkedinLead struct {
	ID        string `json:"id"`
	Responses []struct {
		QuestionID string `json:"questionId"`
		Answer     string `json:"answer"`
	} `json:"formResponse"`
}

// FetchLeads pulls lead gen form responses for the connected account.
func (a *LinkedInAdapter) FetchLeads(ctx context.Context, conn domain.PlatformConnection) ([]ports.RemoteLead, error) {
	var resp linkedinElements[linkedinLead]
	q := url.Values{}
	q.Set("q", "owner")
	q.Set("owner", "urn:li:sponsoredAccount:"+conn.AccountID)
	if err := a.client.getJSON(ctx, conn.AccessToken, "/leadFormResponses", q, &resp); err != nil {
		return nil, err
	}
	out := make([]ports.RemoteLead, 0, len(resp.Elements))
	for _, l := range resp.Elements {
		lead := ports.RemoteLead{ExternalID: l.ID}
		for _, r := range l.Responses {
			switch strings.ToLower(r.QuestionID) {
			case "full_name", "name":
				lead.Name = r.Answer
			case "email", "email_address":
				lead.Email = r.Answer
			case "phone", "phone_number":
				lead.Phone = r.Answer
			}
		}
		out = append(out, lead)
	}
	return out, nil
}

func (a *LinkedInAdapter) CreateCampaign(ctx context.Context, conn domain.PlatformConnection, draft domain.CampaignDraft) (ports.RemoteCampaign, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	body := map[string]any{
		"name":   draft.Name,
		"status": linkedinRemoteStatus(draft.Status),
		"dailyBudget": map[string]any{
			"amount":       fmt.Sprintf("%.2f", draft.Budget),
			"currencyCode": "USD",
		},
		"account": "urn:li:sponsoredAccount:" + conn.AccountID,
	}
	path := fmt.Sprintf("/adAccounts/%s/adCampaigns", url.PathEscape(conn.AccountID))
	if err := a.client.postJSON(ctx, conn.AccessToken, path, body, &resp); err != nil {
		return ports.RemoteCampaign{}, err
	}
	return ports.RemoteCampaign{
		ExternalID: fmt.Sprintf("%d", resp.ID),
		Name:       draft.Name,
		Status:     draft.Status,
		Budget:     draft.Budget,
	}, nil
}

func (a *LinkedInAdapter) PauseCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "PAUSED")
}

func (a *LinkedInAdapter) ResumeCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	return a.setStatus(ctx, conn, externalID, "ACTIVE")
}

func (a *LinkedInAdapter) DeleteCampaign(ctx context.Context, conn domain.PlatformConnection, externalID string) error {
	path := fmt.Sprintf("/adAccounts/%s/adCampaigns/%s", url.PathEscape(conn.AccountID), url.PathEscape(externalID))
	return a.client.deleteJSON(ctx, conn.AccessToken, path)
}

func (a *LinkedInAdapter) PublishCreative(ctx context.Context, conn domain.PlatformConnection, externalID string, creative domain.Creative) error {
	body := map[string]any{
		"campaign": "urn:li:sponsoredCampaign:" + externalID,
		"content": map[string]any{
			"title":        creative.Headline,
			"description":  creative.Body,
			"callToAction": creative.CallToAction,
			"imageUrl":     creative.ImageURL,
		},
	}
	path := fmt.Sprintf("/adAccounts/%s/creatives", url.PathEscape(conn.AccountID))
	return a.client.postJSON(ctx, conn.AccessToken, path, body, nil)
}

func (a *LinkedInAdapter) setStatus(ctx context.Context, conn domain.PlatformConnection, externalID, status string) error {
	body := map[string]any{
		"patch": map[string]any{
			"$set": map[string]any{"status": status},
		},
	}
	path := fmt.Sprintf("/adAccounts/%s/adCampaigns/%s", url.PathEscape(conn.AccountID), url.PathEscape(externalID))
	return a.client.postJSON(ctx, conn.AccessToken, path, body, nil)
}

func linkedinStatus(remote string) domain.CampaignStatus {
	switch strings.ToUpper(remote) {
	case "ACTIVE":
		return domain.CampaignActive
	case "PAUSED", "DRAFT":
		return domain.CampaignPaused
	case "PENDING_DELETION", "ARCHIVED", "COMPLETED", "CANCELED":
		return domain.CampaignCompleted
	default:
		return domain.CampaignScheduled
	}
}

func linkedinRemoteStatus(status domain.CampaignStatus) string {
	if status == domain.CampaignActive {
		return "ACTIVE"
	}
	return "PAUSED"
}
