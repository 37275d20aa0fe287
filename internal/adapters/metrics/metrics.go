package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// Metrics holds the service's Prometheus collectors on a private registry so
// tests can construct isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	SyncRuns         *prometheus.CounterVec
	CampaignsSynced  prometheus.Counter
	LeadsSynced      prometheus.Counter
	PlatformCalls    *prometheus.CounterVec
	PlatformLatency  *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	OutboxPublished  prometheus.Counter
	OutboxDeadLetter prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SyncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketops_sync_runs_total",
			Help: "Sync runs by outcome (success, partial, failure).",
		}, []string{"outcome"}),
		CampaignsSynced: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketops_campaigns_synced_total",
			Help: "Campaign rows upserted by sync runs.",
		}),
		LeadsSynced: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketops_leads_synced_total",
			Help: "Lead rows upserted by sync runs.",
		}),
		PlatformCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketops_platform_calls_total",
			Help: "Outbound platform API calls by platform and outcome.",
		}, []string{"platform", "outcome"}),
		PlatformLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketops_platform_call_seconds",
			Help:    "Outbound platform API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketops_http_requests_total",
			Help: "Inbound HTTP requests by route and status class.",
		}, []string{"route", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketops_http_request_seconds",
			Help:    "Inbound HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketops_outbox_published_total",
			Help: "Outbox events delivered to the broker.",
		}),
		OutboxDeadLetter: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketops_outbox_dead_lettered_total",
			Help: "Outbox events moved to the dead letter state.",
		}),
	}
}

var _ ports.MetricsRecorder = (*Metrics)(nil)

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSyncRun records one finished per-user sync.
func (m *Metrics) RecordSyncRun(outcome string, campaignsUpserted, leadsUpserted int) {
	m.SyncRuns.WithLabelValues(outcome).Inc()
	m.CampaignsSynced.Add(float64(campaignsUpserted))
	m.LeadsSynced.Add(float64(leadsUpserted))
}

// ObservePlatformCall records one outbound call.
func (m *Metrics) ObservePlatformCall(platform domain.Platform, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.PlatformCalls.WithLabelValues(string(platform), outcome).Inc()
	m.PlatformLatency.WithLabelValues(string(platform)).Observe(time.Since(start).Seconds())
}

// RecordOutboxBatch records delivery results from one publisher pass.
func (m *Metrics) RecordOutboxBatch(published, deadLettered int) {
	m.OutboxPublished.Add(float64(published))
	m.OutboxDeadLetter.Add(float64(deadLettered))
}
