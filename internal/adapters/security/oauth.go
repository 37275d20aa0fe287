package security

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// ProviderConfig holds one platform's OAuth application settings.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	Scopes       []string
}

// OAuthExchanger drives the authorization-code flow against every configured
// platform from a single table of provider records.
type OAuthExchanger struct {
	providers  map[domain.Platform]ProviderConfig
	httpClient *http.Client
}

func NewOAuthExchanger(providers map[domain.Platform]ProviderConfig, timeout time.Duration) *OAuthExchanger {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OAuthExchanger{
		providers:  providers,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DefaultProviders returns the provider table with production endpoints.
// Credentials are filled in from configuration.
func DefaultProviders() map[domain.Platform]ProviderConfig {
	return map[domain.Platform]ProviderConfig{
		domain.PlatformMeta: {
			AuthorizeURL: "https://www.facebook.com/v19.0/dialog/oauth",
			TokenURL:     "https://graph.facebook.com/v19.0/oauth/access_token",
			Scopes:       []string{"ads_management", "ads_read", "leads_retrieval"},
		},
		domain.PlatformGoogle: {
			AuthorizeURL: "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://oauth2.googleapis.com/token",
			Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
		},
		domain.PlatformLinkedIn: {
			AuthorizeURL: "https://www.linkedin.com/oauth/v2/authorization",
			TokenURL:     "https://www.linkedin.com/oauth/v2/accessToken",
			Scopes:       []string{"r_ads", "rw_ads", "r_ads_reporting"},
		},
		domain.PlatformTikTok: {
			AuthorizeURL: "https://business-api.tiktok.com/portal/auth",
			TokenURL:     "https://business-api.tiktok.com/open_api/v1.3/oauth2/access_token/",
			Scopes:       []string{"ads.management", "ads.read"},
		},
		domain.PlatformShopify: {
			AuthorizeURL: "https://admin.shopify.com/oauth/authorize",
			TokenURL:     "https://admin.shopify.com/oauth/access_token",
			Scopes:       []string{"read_orders", "read_customers"},
		},
	}
}

func (e *OAuthExchanger) provider(platform domain.Platform) (ProviderConfig, error) {
	p, ok := e.providers[platform]
	if !ok || p.ClientID == "" {
		return ProviderConfig{}, fmt.Errorf("%w: platform %q is not configured for oauth", domain.ErrInvalidState, platform)
	}
	return p, nil
}

func (e *OAuthExchanger) BuildAuthorizeURL(platform domain.Platform, redirectURI, state string) (string, error) {
	p, err := e.provider(platform)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("state", state)
	if len(p.Scopes) > 0 {
		q.Set("scope", strings.Join(p.Scopes, " "))
	}
	return p.AuthorizeURL + "?" + q.Encode(), nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	AccountID    string `json:"account_id"`
	AccountName  string `json:"account_name"`
}

func (e *OAuthExchanger) ExchangeCode(ctx context.Context, platform domain.Platform, code, redirectURI string) (ports.TokenExchangeResult, error) {
	p, err := e.provider(platform)
	if err != nil {
		return ports.TokenExchangeResult{}, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.TokenExchangeResult{}, fmt.Errorf("%w: build token request: %v", domain.ErrOAuthExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return ports.TokenExchangeResult{}, fmt.Errorf("%w: %v", domain.ErrOAuthExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ports.TokenExchangeResult{}, fmt.Errorf("%w: status=%d body=%s",
			domain.ErrOAuthExchangeFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return ports.TokenExchangeResult{}, fmt.Errorf("%w: decode token response: %v", domain.ErrOAuthExchangeFailed, err)
	}
	if tr.AccessToken == "" {
		return ports.TokenExchangeResult{}, fmt.Errorf("%w: empty access token", domain.ErrOAuthExchangeFailed)
	}
	return ports.TokenExchangeResult{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresIn:    tr.ExpiresIn,
		AccountID:    tr.AccountID,
		AccountName:  tr.AccountName,
	}, nil
}
