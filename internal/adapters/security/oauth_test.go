package security

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/adpilot/marketops/internal/domain"
)

func testProviders(tokenURL string) map[domain.Platform]ProviderConfig {
	return map[domain.Platform]ProviderConfig{
		domain.PlatformMeta: {
			ClientID:     "client-1",
			ClientSecret: "hush",
			AuthorizeURL: "https://auth.example/dialog",
			TokenURL:     tokenURL,
			Scopes:       []string{"ads_read", "ads_management"},
		},
	}
}

func TestBuildAuthorizeURLCarriesStateAndScopes(t *testing.T) {
	t.Parallel()
	exchanger := NewOAuthExchanger(testProviders("https://auth.example/token"), time.Second)

	raw, err := exchanger.BuildAuthorizeURL(domain.PlatformMeta, "https://app.example/cb", "state-1")
	if err != nil {
		t.Fatalf("build url: %v", err)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := parsed.Query()
	if q.Get("client_id") != "client-1" || q.Get("state") != "state-1" || q.Get("response_type") != "code" {
		t.Fatalf("query = %v", q)
	}
	if q.Get("scope") != "ads_read ads_management" {
		t.Fatalf("scope = %q, want space-joined scopes", q.Get("scope"))
	}
}

func TestBuildAuthorizeURLRejectsUnconfiguredPlatform(t *testing.T) {
	t.Parallel()
	exchanger := NewOAuthExchanger(testProviders("https://auth.example/token"), time.Second)

	if _, err := exchanger.BuildAuthorizeURL(domain.PlatformGoogle, "https://app.example/cb", "s"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("got %v, want ErrInvalidState", err)
	}
}

func TestExchangeCodePostsFormAndParsesTokens(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != "abc123" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","expires_in":3600,"account_id":"acct-1","account_name":"Shop"}`))
	}))
	defer srv.Close()

	exchanger := NewOAuthExchanger(testProviders(srv.URL), time.Second)
	result, err := exchanger.ExchangeCode(context.Background(), domain.PlatformMeta, "abc123", "https://app.example/cb")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if result.AccessToken != "tok" || result.RefreshToken != "ref" || result.ExpiresIn != 3600 {
		t.Fatalf("result = %+v", result)
	}
	if result.AccountID != "acct-1" {
		t.Fatalf("account id = %q", result.AccountID)
	}
}

func TestExchangeCodeWrapsFailures(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	exchanger := NewOAuthExchanger(testProviders(srv.URL), time.Second)
	_, err := exchanger.ExchangeCode(context.Background(), domain.PlatformMeta, "stale", "https://app.example/cb")
	if !errors.Is(err, domain.ErrOAuthExchangeFailed) {
		t.Fatalf("got %v, want ErrOAuthExchangeFailed", err)
	}
	if !strings.Contains(err.Error(), "invalid_grant") {
		t.Fatalf("error %q should carry the provider body", err)
	}
}

func TestExchangeCodeRejectsEmptyAccessToken(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"access_token":""}`))
	}))
	defer srv.Close()

	exchanger := NewOAuthExchanger(testProviders(srv.URL), time.Second)
	if _, err := exchanger.ExchangeCode(context.Background(), domain.PlatformMeta, "abc", "https://app.example/cb"); !errors.Is(err, domain.ErrOAuthExchangeFailed) {
		t.Fatalf("got %v, want ErrOAuthExchangeFailed", err)
	}
}
