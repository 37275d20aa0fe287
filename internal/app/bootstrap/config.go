package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration. It merges file defaults and
// environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string
	MaxDBConns  int32

	KafkaBrokers []string

	JWTSecret  string
	JWTIssuer  string
	CronSecret string

	PlatformCredentials map[string]PlatformCredential
	PlatformBaseURLs    map[string]string
	PlatformCallTimeout time.Duration

	AssistBaseURL string
	AssistAPIKey  string
	AssistModel   string
	AssistTimeout time.Duration

	StateTTL              time.Duration
	SyncCallTimeout       time.Duration
	SyncInterval          time.Duration
	AuthorizeRateLimitIP  int
	AuthorizeRateLimitKey int
	AuthorizeRateWindow   time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
}

// PlatformCredential is one platform's OAuth application credentials.
type PlatformCredential struct {
	ClientID     string
	ClientSecret string
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		JWTIssuer  string `yaml:"jwt_issuer"`
		CronSecret string `yaml:"cron_secret"`
	} `yaml:"auth"`
	Platforms map[string]struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		BaseURL      string `yaml:"base_url"`
	} `yaml:"platforms"`
	Assist struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"assist"`
	Sync struct {
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"sync"`
}

var platformNames = []string{"meta", "google", "linkedin", "tiktok", "shopify"}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "marketops",
		HTTPPort:              8080,
		GRPCPort:              9090,
		MaxDBConns:            20,
		JWTIssuer:             "marketops",
		PlatformCredentials:   make(map[string]PlatformCredential),
		PlatformBaseURLs:      make(map[string]string),
		PlatformCallTimeout:   15 * time.Second,
		AssistModel:           "gpt-4o-mini",
		AssistTimeout:         30 * time.Second,
		StateTTL:              10 * time.Minute,
		SyncCallTimeout:       30 * time.Second,
		SyncInterval:          15 * time.Minute,
		AuthorizeRateLimitIP:  30,
		AuthorizeRateLimitKey: 10,
		AuthorizeRateWindow:   time.Minute,
		OutboxPollInterval:    2 * time.Second,
		OutboxBatchSize:       100,
		OutboxClaimTTL:        30 * time.Second,
		OutboxMaxRetries:      5,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Auth.JWTSecret != "" {
			cfg.JWTSecret = f.Auth.JWTSecret
		}
		if f.Auth.JWTIssuer != "" {
			cfg.JWTIssuer = f.Auth.JWTIssuer
		}
		if f.Auth.CronSecret != "" {
			cfg.CronSecret = f.Auth.CronSecret
		}
		for name, p := range f.Platforms {
			key := strings.ToLower(name)
			if p.ClientID != "" || p.ClientSecret != "" {
				cfg.PlatformCredentials[key] = PlatformCredential{ClientID: p.ClientID, ClientSecret: p.ClientSecret}
			}
			if p.BaseURL != "" {
				cfg.PlatformBaseURLs[key] = p.BaseURL
			}
		}
		if f.Assist.BaseURL != "" {
			cfg.AssistBaseURL = f.Assist.BaseURL
		}
		if f.Assist.APIKey != "" {
			cfg.AssistAPIKey = f.Assist.APIKey
		}
		if f.Assist.Model != "" {
			cfg.AssistModel = f.Assist.Model
		}
		if f.Sync.IntervalMinutes > 0 {
			cfg.SyncInterval = time.Duration(f.Sync.IntervalMinutes) * time.Minute
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.CronSecret = envOrDefault("CRON_SECRET", cfg.CronSecret)
	cfg.AssistBaseURL = envOrDefault("ASSIST_BASE_URL", cfg.AssistBaseURL)
	cfg.AssistAPIKey = envOrDefault("ASSIST_API_KEY", cfg.AssistAPIKey)
	cfg.AssistModel = envOrDefault("ASSIST_MODEL", cfg.AssistModel)

	for _, name := range platformNames {
		prefix := strings.ToUpper(name)
		cred := cfg.PlatformCredentials[name]
		cred.ClientID = envOrDefault(prefix+"_CLIENT_ID", cred.ClientID)
		cred.ClientSecret = envOrDefault(prefix+"_CLIENT_SECRET", cred.ClientSecret)
		if cred.ClientID != "" || cred.ClientSecret != "" {
			cfg.PlatformCredentials[name] = cred
		}
		if base := os.Getenv(prefix + "_BASE_URL"); base != "" {
			cfg.PlatformBaseURLs[name] = base
		}
	}

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.AuthorizeRateLimitIP = envInt("OAUTH_RATE_LIMIT_IP_THRESHOLD", cfg.AuthorizeRateLimitIP)
	cfg.AuthorizeRateLimitKey = envInt("OAUTH_RATE_LIMIT_USER_THRESHOLD", cfg.AuthorizeRateLimitKey)

	cfg.StateTTL = time.Duration(envInt("OAUTH_STATE_TTL_SECONDS", int(cfg.StateTTL.Seconds()))) * time.Second
	cfg.SyncCallTimeout = time.Duration(envInt("SYNC_CALL_TIMEOUT_SECONDS", int(cfg.SyncCallTimeout.Seconds()))) * time.Second
	cfg.SyncInterval = time.Duration(envInt("SYNC_INTERVAL_MINUTES", int(cfg.SyncInterval.Minutes()))) * time.Minute
	cfg.PlatformCallTimeout = time.Duration(envInt("PLATFORM_CALL_TIMEOUT_SECONDS", int(cfg.PlatformCallTimeout.Seconds()))) * time.Second
	cfg.AssistTimeout = time.Duration(envInt("ASSIST_TIMEOUT_SECONDS", int(cfg.AssistTimeout.Seconds()))) * time.Second
	cfg.AuthorizeRateWindow = time.Duration(envInt("OAUTH_RATE_LIMIT_WINDOW_SECONDS", int(cfg.AuthorizeRateWindow.Seconds()))) * time.Second
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_TTL_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	if cfg.CronSecret == "" {
		return Config{}, fmt.Errorf("missing CRON_SECRET")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
