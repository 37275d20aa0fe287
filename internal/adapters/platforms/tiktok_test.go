package platforms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/adpilot/marketops/internal/domain"
)

func TestTikTokEnvelopeCodesMapToDomainErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		code    int
		wantErr error
	}{
		{name: "auth expired on http 200", code: 40105, wantErr: domain.ErrPlatformAuthExpired},
		{name: "rate exceeded on http 200", code: 40100, wantErr: domain.ErrRateLimited},
		{name: "unknown app code", code: 50000, wantErr: domain.ErrRemote},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"code":` + strconv.Itoa(tc.code) + `,"message":"denied","data":{}}`))
			}))
			defer srv.Close()

			adapter := NewTikTokAdapter(srv.URL, time.Second)
			_, err := adapter.FetchAccounts(context.Background(), domain.PlatformConnection{AccessToken: "t"})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTikTokFetchCampaignsParsesEnvelope(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/campaign/get/":
			if r.URL.Query().Get("advertiser_id") != "adv-1" {
				t.Errorf("advertiser_id = %q, want adv-1", r.URL.Query().Get("advertiser_id"))
			}
			w.Write([]byte(`{"code":0,"data":{"list":[
				{"campaign_id":"c-1","campaign_name":"Spark","operation_status":"ENABLE","budget":30}
			]}}`))
		case "/report/integrated/get/":
			w.Write([]byte(`{"code":0,"data":{"list":[
				{"metrics":{"spend":"12.5","impressions":"1000","clicks":"40","conversion":"3","total_complete_payment":"55"}}
			]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	adapter := NewTikTokAdapter(srv.URL, time.Second)
	campaigns, err := adapter.FetchCampaigns(context.Background(), domain.PlatformConnection{AccessToken: "t", AccountID: "adv-1"}, "")
	if err != nil {
		t.Fatalf("fetch campaigns: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("campaigns = %d, want 1", len(campaigns))
	}
	c := campaigns[0]
	if c.ExternalID != "c-1" || c.Status != domain.CampaignActive || c.Budget != 30 {
		t.Fatalf("campaign = %+v", c)
	}
	if c.Spend != 12.5 || c.Impressions != 1000 || c.Clicks != 40 || c.Revenue != 55 {
		t.Fatalf("metrics not merged: %+v", c)
	}
}

func TestTikTokFetchCampaignsPropagatesExpiredAuthFromReport(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/campaign/get/":
			w.Write([]byte(`{"code":0,"data":{"list":[
				{"campaign_id":"c-1","campaign_name":"Spark","operation_status":"ENABLE","budget":30}
			]}}`))
		case "/report/integrated/get/":
			w.Write([]byte(`{"code":40105,"message":"token expired","data":{}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	adapter := NewTikTokAdapter(srv.URL, time.Second)
	_, err := adapter.FetchCampaigns(context.Background(), domain.PlatformConnection{AccessToken: "t", AccountID: "adv-1"}, "")
	if !errors.Is(err, domain.ErrPlatformAuthExpired) {
		t.Fatalf("got %v, want ErrPlatformAuthExpired from the report call", err)
	}
}

func TestTikTokFetchCampaignsDegradesOnTransientReportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/campaign/get/":
			w.Write([]byte(`{"code":0,"data":{"list":[
				{"campaign_id":"c-1","campaign_name":"Spark","operation_status":"ENABLE","budget":30}
			]}}`))
		case "/report/integrated/get/":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"report backend unavailable"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	adapter := NewTikTokAdapter(srv.URL, time.Second)
	campaigns, err := adapter.FetchCampaigns(context.Background(), domain.PlatformConnection{AccessToken: "t", AccountID: "adv-1"}, "")
	if err != nil {
		t.Fatalf("fetch campaigns: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("campaigns = %d, want 1", len(campaigns))
	}
	if c := campaigns[0]; c.Spend != 0 || c.Impressions != 0 || c.Clicks != 0 {
		t.Fatalf("transient report failure must leave counters at zero: %+v", c)
	}
}

func TestTikTokStatusNormalization(t *testing.T) {
	t.Parallel()
	if got := tiktokStatus("ENABLE"); got != domain.CampaignActive {
		t.Fatalf("ENABLE = %q", got)
	}
	if got := tiktokStatus("DISABLE"); got != domain.CampaignPaused {
		t.Fatalf("DISABLE = %q", got)
	}
	if got := tiktokStatus("FROZEN"); got != domain.CampaignScheduled {
		t.Fatalf("FROZEN = %q", got)
	}
	if got := tiktokStatus("DELETED"); got != domain.CampaignCompleted {
		t.Fatalf("DELETED = %q", got)
	}
}
