package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

type fakeVerifier struct {
	claims ports.AuthClaims
	err    error
}

func (v *fakeVerifier) Verify(string) (ports.AuthClaims, error) {
	if v.err != nil {
		return ports.AuthClaims{}, v.err
	}
	return v.claims, nil
}

func newTestRouter(cronSecret string, verifier ports.TokenVerifier) http.Handler {
	if verifier == nil {
		verifier = &fakeVerifier{err: domain.ErrUnauthorized}
	}
	return NewRouter(NewHandler(nil, verifier, nil, cronSecret))
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter("s", nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s = %d, want 200", path, rec.Code)
		}
	}
}

func TestCronSyncRejectsBadSecret(t *testing.T) {
	t.Parallel()
	router := newTestRouter("topsecret", nil)

	cases := []struct {
		name   string
		secret string
	}{
		{name: "missing header", secret: ""},
		{name: "wrong secret", secret: "guess"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/sync", nil)
			if tc.secret != "" {
				req.Header.Set("X-Cron-Secret", tc.secret)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestCronSyncFailsClosedWithoutConfiguredSecret(t *testing.T) {
	t.Parallel()
	router := newTestRouter("", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/sync", nil)
	req.Header.Set("X-Cron-Secret", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 when no secret is configured", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	t.Parallel()
	router := newTestRouter("s", &fakeVerifier{err: fmt.Errorf("%w: bad signature", domain.ErrUnauthorized)})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/connections", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/connections", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	t.Parallel()
	if _, err := bearerTokenFromHeader(""); err == nil {
		t.Fatalf("empty header must be rejected")
	}
	if _, err := bearerTokenFromHeader("Basic abc"); err == nil {
		t.Fatalf("non-bearer scheme must be rejected")
	}
	token, err := bearerTokenFromHeader("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("got (%q, %v)", token, err)
	}
}

func TestReadIPPrefersForwardedFor(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ip := readIP(req); ip != "203.0.113.9" {
		t.Fatalf("ip = %q, want first forwarded hop", ip)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:4431"
	if ip := readIP(req); ip != "198.51.100.7" {
		t.Fatalf("ip = %q, want remote addr host", ip)
	}
}
