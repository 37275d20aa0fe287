package platforms

import (
	"fmt"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// Config holds per-platform API endpoints. Base URLs are overridable so tests
// and sandboxes can point adapters at a stub server.
type Config struct {
	MetaBaseURL     string
	GoogleBaseURL   string
	LinkedInBaseURL string
	TikTokBaseURL   string
	ShopifyBaseURL  string
	CallTimeout     time.Duration
}

// Registry maps platforms to their adapters.
type Registry struct {
	adapters map[domain.Platform]ports.PlatformAdapter
}

func NewRegistry(cfg Config) *Registry {
	r := &Registry{adapters: make(map[domain.Platform]ports.PlatformAdapter)}
	r.register(NewMetaAdapter(cfg.MetaBaseURL, cfg.CallTimeout))
	r.register(NewGoogleAdapter(cfg.GoogleBaseURL, cfg.CallTimeout))
	r.register(NewLinkedInAdapter(cfg.LinkedInBaseURL, cfg.CallTimeout))
	r.register(NewTikTokAdapter(cfg.TikTokBaseURL, cfg.CallTimeout))
	r.register(NewShopifyAdapter(cfg.ShopifyBaseURL, cfg.CallTimeout))
	return r
}

func (r *Registry) register(adapter ports.PlatformAdapter) {
	r.adapters[adapter.Platform()] = adapter
}

func (r *Registry) Adapter(platform domain.Platform) (ports.PlatformAdapter, error) {
	adapter, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for platform %q", domain.ErrNotFound, platform)
	}
	return adapter, nil
}
