package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// StartAuthorization begins the three-legged OAuth flow for one platform.
// A crypto-random state token is stored under the configured TTL so the
// callback can prove the request originated here.
func (s *Service) StartAuthorization(ctx context.Context, userID uuid.UUID, platformRaw, redirectURI, ipAddress string) (StartAuthorizationResponse, error) {
	platform, err := domain.ParsePlatform(platformRaw)
	if err != nil {
		return StartAuthorizationResponse{}, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidInput, platformRaw)
	}
	if strings.TrimSpace(redirectURI) == "" {
		return StartAuthorizationResponse{}, fmt.Errorf("%w: redirect_uri is required", domain.ErrInvalidInput)
	}
	if _, err := url.ParseRequestURI(redirectURI); err != nil {
		return StartAuthorizationResponse{}, fmt.Errorf("%w: invalid redirect_uri", domain.ErrInvalidInput)
	}

	if ip := strings.TrimSpace(ipAddress); ip != "" {
		if err := s.enforceRateLimit(ctx, "oauth-start:ip:"+ip, s.cfg.AuthorizeRateLimitIP, s.cfg.AuthorizeRateWindow); err != nil {
			return StartAuthorizationResponse{}, err
		}
	}
	if err := s.enforceRateLimit(ctx, "oauth-start:user:"+userID.String(), s.cfg.AuthorizeRateLimitKey, s.cfg.AuthorizeRateWindow); err != nil {
		return StartAuthorizationResponse{}, err
	}

	state := randomToken(24)
	now := s.nowFn()
	if err := s.authState.Put(ctx, state, domain.AuthState{
		UserID:      userID,
		Platform:    platform,
		RedirectURI: redirectURI,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.StateTTL),
	}, s.cfg.StateTTL); err != nil {
		return StartAuthorizationResponse{}, err
	}

	authURL, err := s.exchanger.BuildAuthorizeURL(platform, redirectURI, state)
	if err != nil {
		return StartAuthorizationResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return StartAuthorizationResponse{AuthURL: authURL, State: state}, nil
}

// HandleCallback completes the flow: validates the single-use state, exchanges
// the code and upserts the platform connection. State failures never touch
// stored connections; exchange failures are surfaced without retry.
func (s *Service) HandleCallback(ctx context.Context, platformRaw, code, state string) (CallbackResult, error) {
	platform, err := domain.ParsePlatform(platformRaw)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidInput, platformRaw)
	}
	if strings.TrimSpace(code) == "" || strings.TrimSpace(state) == "" {
		return CallbackResult{}, fmt.Errorf("%w: code and state are required", domain.ErrInvalidInput)
	}

	authState, err := s.authState.Get(ctx, state)
	if err != nil {
		return CallbackResult{}, err
	}
	if authState == nil || authState.ExpiresAt.Before(s.nowFn()) || authState.Platform != platform {
		appLogger().WarnContext(ctx, "suspicious oauth callback state mismatch",
			"operation", "oauth_callback",
			"outcome", "failure",
			"platform", platform,
		)
		return CallbackResult{}, domain.ErrInvalidState
	}
	_ = s.authState.Delete(ctx, state)

	exchange, err := s.exchanger.ExchangeCode(ctx, platform, code, authState.RedirectURI)
	if err != nil {
		appLogger().WarnContext(ctx, "oauth token exchange failed",
			"operation", "oauth_callback",
			"outcome", "failure",
			"platform", platform,
			"error", err,
		)
		return CallbackResult{}, fmt.Errorf("%w: %v", domain.ErrOAuthExchangeFailed, err)
	}

	now := s.nowFn()
	var expiresAt *time.Time
	if exchange.ExpiresIn > 0 {
		t := now.Add(time.Duration(exchange.ExpiresIn) * time.Second)
		expiresAt = &t
	}
	conn, err := s.connections.Upsert(ctx, ports.ConnectionUpsertParams{
		UserID:         authState.UserID,
		Platform:       platform,
		AccountID:      exchange.AccountID,
		AccountName:    exchange.AccountName,
		AccessToken:    exchange.AccessToken,
		RefreshToken:   exchange.RefreshToken,
		TokenExpiresAt: expiresAt,
		ConnectedAt:    now,
	})
	if err != nil {
		return CallbackResult{}, err
	}

	payload, _ := json.Marshal(domain.PlatformConnectedEvent{
		UserID:      conn.UserID,
		Platform:    conn.Platform,
		AccountID:   conn.AccountID,
		ConnectedAt: now,
	})
	s.appendOutbox(ctx, domain.EventPlatformConnected, conn.UserID.String(), payload, now)

	appLogger().InfoContext(ctx, "platform connected",
		"operation", "oauth_callback",
		"outcome", "success",
		"user_id", conn.UserID.String(),
		"platform", conn.Platform,
		"account_id", conn.AccountID,
	)
	return CallbackResult{
		ConnectionID: conn.ConnectionID,
		Platform:     conn.Platform,
		AccountID:    conn.AccountID,
		AccountName:  conn.AccountName,
		Active:       conn.Active,
	}, nil
}
