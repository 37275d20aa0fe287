package platforms

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// ShopifyAdapter speaks the Shopify Admin REST API. Shopify is a commerce
// source, not an ad platform: it contributes customers and orders as leads
// and has no campaign surface, so campaign operations report ErrInvalidState.
type ShopifyAdapter struct {
	client *restClient
}

func NewShopifyAdapter(baseURL string, timeout time.Duration) *ShopifyAdapter {
	return &ShopifyAdapter{client: newRESTClient(baseURL, timeout)}
}

func (a *ShopifyAdapter) Platform() domain.Platform { return domain.PlatformShopify }

// shopPath prefixes Admin API routes with the connection's shop domain when no
// fixed base URL was configured. AccountID holds the myshopify domain.
func (a *ShopifyAdapter) shopPath(conn domain.PlatformConnection, path string) (string, string) {
	if a.client.baseURL != "" {
		return a.client.baseURL, "/admin/api/2024-01" + path
	}
	return "https://" + conn.AccountID, "/admin/api/2024-01" + path
}

func (a *ShopifyAdapter) get(ctx context.Context, conn domain.PlatformConnection, path string, query url.Values, out any) error {
	base, full := a.shopPath(conn, path)
	c := &restClient{httpClient: a.client.httpClient, baseURL: base}
	return c.getJSON(ctx, conn.AccessToken, full, query, out)
}

type shopifyShopResponse struct {
	Shop struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Domain string `json:"myshopify_domain"`
	} `json:"shop"`
}

func (a *ShopifyAdapter) FetchAccounts(ctx context.Context, conn domain.PlatformConnection) ([]ports.Account, error) {
	var resp shopifyShopResponse
	if err := a.get(ctx, conn, "/shop.json", nil, &resp); err != nil {
		return nil, err
	}
	id := resp.Shop.Domain
	if id == "" {
		id = fmt.Sprintf("%d", resp.Shop.ID)
	}
	return []ports.Account{{ID: id, Name: resp.Shop.Name}}, nil
}

// FetchCampaigns is empty for Shopify; stores have no ad campaigns.
func (a *ShopifyAdapter) FetchCampaigns(_ context.Context, _ domain.PlatformConnection, _ string) ([]ports.RemoteCampaign, error) {
	return nil, nil
}

func (a *ShopifyAdapter) FetchMetrics(_ context.Context, _ domain.PlatformConnection, externalID string, _ domain.MetricsWindow) (ports.RemoteCampaign, error) {
	return ports.RemoteCampaign{}, fmt.Errorf("%w: shopify has no campaign metrics", domain.ErrInvalidState)
}

type shopifyOrdersResponse struct {
	Orders []struct {
		ID         int64  `json:"id"`
		TotalPrice string `json:"total_price"`
		Email      string `json:"email"`
		Customer   struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Email     string `json:"email"`
			Phone     string `json:"phone"`
		} `json:"customer"`
	} `json:"orders"`
}

// FetchLeads maps recent orders to leads. Order value rides along so the
// assist layer can weight commerce leads by revenue.
func (a *ShopifyAdapter) FetchLeads(ctx context.Context, conn domain.PlatformConnection) ([]ports.RemoteLead, error) {
	var resp shopifyOrdersResponse
	q := url.Values{}
	q.Set("status", "any")
	q.Set("limit", "250")
	if err := a.get(ctx, conn, "/orders.json", q, &resp); err != nil {
		return nil, err
	}
	out := make([]ports.RemoteLead, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		email := o.Customer.Email
		if email == "" {
			email = o.Email
		}
		name := strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName)
		out = append(out, ports.RemoteLead{
			ExternalID: fmt.Sprintf("%d", o.ID),
			Name:       name,
			Email:      email,
			Phone:      o.Customer.Phone,
			Value:      parseFloat(o.TotalPrice),
		})
	}
	return out, nil
}

func (a *ShopifyAdapter) CreateCampaign(_ context.Context, _ domain.PlatformConnection, _ domain.CampaignDraft) (ports.RemoteCampaign, error) {
	return ports.RemoteCampaign{}, fmt.Errorf("%w: shopify does not support campaigns", domain.ErrInvalidState)
}

func (a *ShopifyAdapter) PauseCampaign(_ context.Context, _ domain.PlatformConnection, _ string) error {
	return fmt.Errorf("%w: shopify does not support campaigns", domain.ErrInvalidState)
}

func (a *ShopifyAdapter) ResumeCampaign(_ context.Context, _ domain.PlatformConnection, _ string) error {
	return fmt.Errorf("%w: shopify does not support campaigns", domain.ErrInvalidState)
}

func (a *ShopifyAdapter) DeleteCampaign(_ context.Context, _ domain.PlatformConnection, _ string) error {
	return fmt.Errorf("%w: shopify does not support campaigns", domain.ErrInvalidState)
}

func (a *ShopifyAdapter) PublishCreative(_ context.Context, _ domain.PlatformConnection, _ string, _ domain.Creative) error {
	return fmt.Errorf("%w: shopify does not support creatives", domain.ErrInvalidState)
}
