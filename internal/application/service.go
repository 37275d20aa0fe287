package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// Config carries tunables resolved at bootstrap.
type Config struct {
	StateTTL              time.Duration
	SyncCallTimeout       time.Duration
	AuthorizeRateLimitIP  int
	AuthorizeRateLimitKey int
	AuthorizeRateWindow   time.Duration
}

type Service struct {
	cfg         Config
	users       ports.UserRepository
	connections ports.ConnectionRepository
	campaigns   ports.CampaignRepository
	leads       ports.LeadRepository
	outbox      ports.OutboxRepository
	authState   ports.AuthStateStore
	limiter     ports.RateLimiter
	exchanger   ports.OAuthExchanger
	adapters    ports.AdapterRegistry
	assist      ports.AssistClient
	metrics     ports.MetricsRecorder
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Users       ports.UserRepository
	Connections ports.ConnectionRepository
	Campaigns   ports.CampaignRepository
	Leads       ports.LeadRepository
	Outbox      ports.OutboxRepository
	AuthState   ports.AuthStateStore
	Limiter     ports.RateLimiter
	Exchanger   ports.OAuthExchanger
	Adapters    ports.AdapterRegistry
	Assist      ports.AssistClient
	Metrics     ports.MetricsRecorder
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	if cfg.SyncCallTimeout <= 0 {
		cfg.SyncCallTimeout = 30 * time.Second
	}
	return &Service{
		cfg:         cfg,
		users:       deps.Users,
		connections: deps.Connections,
		campaigns:   deps.Campaigns,
		leads:       deps.Leads,
		outbox:      deps.Outbox,
		authState:   deps.AuthState,
		limiter:     deps.Limiter,
		exchanger:   deps.Exchanger,
		adapters:    deps.Adapters,
		assist:      deps.Assist,
		metrics:     deps.Metrics,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", "marketops",
		"module", "application",
		"layer", "application",
	)
}

func randomToken(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// observePlatformCall feeds the recorder when one is configured.
func (s *Service) observePlatformCall(platform domain.Platform, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObservePlatformCall(platform, start, err)
	}
}

func (s *Service) enforceRateLimit(ctx context.Context, key string, threshold int, window time.Duration) error {
	if s.limiter == nil || threshold <= 0 || window <= 0 || key == "" {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, key, threshold, window)
	if err != nil {
		appLogger().WarnContext(ctx, "rate-limit state unavailable",
			"operation", "rate_limit",
			"outcome", "warning",
			"key", key,
			"error", err,
		)
		return nil
	}
	if !allowed {
		return domain.ErrRateLimited
	}
	return nil
}
