package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adpilot/marketops/internal/adapters/metrics"
	"github.com/adpilot/marketops/internal/application"
	"github.com/adpilot/marketops/internal/ports"
)

// Handler is the HTTP adapter entrypoint. Keeping only the application and
// verifier dependencies here preserves clean adapter boundaries.
type Handler struct {
	service    *application.Service
	verifier   ports.TokenVerifier
	metrics    *metrics.Metrics
	cronSecret string
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier, m *metrics.Metrics, cronSecret string) *Handler {
	return &Handler{
		service:    service,
		verifier:   verifier,
		metrics:    m,
		cronSecret: cronSecret,
	}
}

// NewRouter registers the HTTP routes and middleware stack. The OAuth callback
// is unauthenticated: the platform redirects the browser there and the state
// token carries the proof of origin. The cron trigger authenticates with a
// shared secret instead of a user token.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(handler.loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	if handler.metrics != nil {
		r.Method(http.MethodGet, "/metrics", handler.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/oauth/{platform}/callback", handler.oauthCallback)
		r.Get("/cron/sync", handler.cronSync)
		r.Post("/cron/sync", handler.cronSync)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Get("/oauth/{platform}/start", handler.oauthStart)
			r.Post("/oauth/{platform}/start", handler.oauthStart)

			r.Get("/connections", handler.listConnections)
			r.Delete("/connections/{connection_id}", handler.disconnect)

			r.Post("/sync/trigger", handler.triggerSync)

			r.Get("/campaigns", handler.listCampaigns)
			r.Post("/campaigns", handler.createCampaign)
			r.Post("/campaigns/{campaign_id}/pause", handler.pauseCampaign)
			r.Post("/campaigns/{campaign_id}/resume", handler.resumeCampaign)
			r.Post("/campaigns/{campaign_id}/creative", handler.publishCreative)
			r.Delete("/campaigns/{campaign_id}", handler.deleteCampaign)

			r.Get("/leads", handler.listLeads)
			r.Post("/leads", handler.createLead)
			r.Post("/leads/import", handler.importLeads)

			r.Post("/assist/ad-copy", handler.generateAdCopy)
			r.Get("/assist/recommendations", handler.recommendations)
		})
	})

	return r
}
