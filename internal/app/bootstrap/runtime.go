package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/adpilot/marketops/internal/adapters/ai"
	cacheadapter "github.com/adpilot/marketops/internal/adapters/cache"
	eventadapter "github.com/adpilot/marketops/internal/adapters/events"
	httpadapter "github.com/adpilot/marketops/internal/adapters/http"
	"github.com/adpilot/marketops/internal/adapters/metrics"
	"github.com/adpilot/marketops/internal/adapters/platforms"
	"github.com/adpilot/marketops/internal/adapters/postgres"
	"github.com/adpilot/marketops/internal/adapters/security"
	"github.com/adpilot/marketops/internal/application"
	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	service    *application.Service
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping marketops service", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var (
		authState ports.AuthStateStore
		limiter   ports.RateLimiter
		closeFn   = func(shutdownCtx context.Context) { _ = sqlDB.Close() }
	)
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		authState = cacheadapter.NewRedisAuthStateStore(redisClient)
		limiter = cacheadapter.NewRedisRateLimiter(redisClient)
		closeFn = func(shutdownCtx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		}
	} else {
		logger.Warn("redis not configured; using in-process state store and rate limiter")
		authState = cacheadapter.NewMemoryAuthStateStore()
		limiter = cacheadapter.NewMemoryRateLimiter()
	}

	repos := postgres.NewRepositories(db)

	providers := security.DefaultProviders()
	for name, cred := range cfg.PlatformCredentials {
		platform, parseErr := domain.ParsePlatform(name)
		if parseErr != nil {
			continue
		}
		p := providers[platform]
		p.ClientID = cred.ClientID
		p.ClientSecret = cred.ClientSecret
		providers[platform] = p
	}
	exchanger := security.NewOAuthExchanger(providers, cfg.PlatformCallTimeout)
	verifier := security.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	registry := platforms.NewRegistry(platforms.Config{
		MetaBaseURL:     cfg.PlatformBaseURLs["meta"],
		GoogleBaseURL:   cfg.PlatformBaseURLs["google"],
		LinkedInBaseURL: cfg.PlatformBaseURLs["linkedin"],
		TikTokBaseURL:   cfg.PlatformBaseURLs["tiktok"],
		ShopifyBaseURL:  cfg.PlatformBaseURLs["shopify"],
		CallTimeout:     cfg.PlatformCallTimeout,
	})

	var assist ports.AssistClient
	if cfg.AssistAPIKey != "" {
		assist = ai.NewClient(cfg.AssistBaseURL, cfg.AssistAPIKey, cfg.AssistModel, cfg.AssistTimeout)
	} else {
		logger.Warn("assist api key not configured; ad copy generation disabled")
	}

	m := metrics.New()
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			StateTTL:              cfg.StateTTL,
			SyncCallTimeout:       cfg.SyncCallTimeout,
			AuthorizeRateLimitIP:  cfg.AuthorizeRateLimitIP,
			AuthorizeRateLimitKey: cfg.AuthorizeRateLimitKey,
			AuthorizeRateWindow:   cfg.AuthorizeRateWindow,
		},
		Users:       repos.Users,
		Connections: repos.Connections,
		Campaigns:   repos.Campaigns,
		Leads:       repos.Leads,
		Outbox:      repos.Outbox,
		AuthState:   authState,
		Limiter:     limiter,
		Exchanger:   exchanger,
		Adapters:    registry,
		Assist:      assist,
		Metrics:     m,
	})

	handler := httpadapter.NewHandler(svc, verifier, m, cfg.CronSecret)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		closeFn(ctx)
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, nil)
		if err != nil {
			closeFn(ctx)
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		publisher = kafkaPublisher
		prevClose := closeFn
		closeFn = func(shutdownCtx context.Context) {
			_ = kafkaPublisher.Close()
			prevClose(shutdownCtx)
		}
	} else {
		logger.Warn("kafka brokers not configured; events are logged instead of published")
		publisher = eventadapter.NewLoggingPublisher(logger)
	}

	outbox := eventadapter.NewOutboxWorker(
		logger,
		repos.Outbox,
		publisher,
		m,
		cfg.OutboxPollInterval,
		cfg.OutboxBatchSize,
		cfg.OutboxClaimTTL,
		cfg.OutboxMaxRetries,
	)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     outbox,
		cleanupFn:  closeFn,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

// RunWorker drives the outbox publisher loop and the periodic sync sweep.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(r.cfg.SyncInterval).Do(func() {
		results, err := r.service.SyncAllUsers(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "scheduled sync sweep failed",
				"operation", "scheduled_sync",
				"outcome", "failure",
				"error", err,
			)
			return
		}
		r.logger.InfoContext(ctx, "scheduled sync sweep completed",
			"operation", "scheduled_sync",
			"outcome", "success",
			"users_synced", len(results),
		)
	}); err != nil {
		return fmt.Errorf("schedule sync sweep: %w", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	r.logger.Info("worker started",
		"sync_interval", r.cfg.SyncInterval.String(),
		"outbox_poll_interval", r.cfg.OutboxPollInterval.String(),
	)
	err := r.outbox.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
