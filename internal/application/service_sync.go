package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

// SyncUser pulls campaign and lead data for every active connection of one
// user. A failing platform is recorded in the stats and the run continues;
// only the per-connection last_synced_at of successful platforms advances.
func (s *Service) SyncUser(ctx context.Context, userID uuid.UUID) (SyncStats, error) {
	stats := SyncStats{UserID: userID, StartedAt: s.nowFn(), Errors: []PlatformError{}}

	conns, err := s.connections.ListByUser(ctx, userID, true)
	if err != nil {
		return stats, err
	}

	for _, conn := range conns {
		campaigns, leads, syncErr := s.syncConnection(ctx, conn)
		if syncErr != nil {
			stats.Errors = append(stats.Errors, platformError(conn.Platform, syncErr))
			appLogger().WarnContext(ctx, "platform sync failed",
				"operation", "sync_user",
				"outcome", "failure",
				"user_id", userID.String(),
				"platform", conn.Platform,
				"error", syncErr,
			)
			continue
		}
		stats.PlatformsSynced++
		stats.CampaignsUpserted += campaigns
		stats.LeadsUpserted += leads
		if err := s.connections.MarkSynced(ctx, conn.ConnectionID, s.nowFn()); err != nil {
			appLogger().WarnContext(ctx, "mark synced failed",
				"operation", "sync_user",
				"outcome", "warning",
				"connection_id", conn.ConnectionID.String(),
				"error", err,
			)
		}
	}

	stats.FinishedAt = s.nowFn()
	if s.metrics != nil {
		s.metrics.RecordSyncRun(syncOutcome(stats), stats.CampaignsUpserted, stats.LeadsUpserted)
	}
	payload, _ := json.Marshal(domain.SyncCompletedEvent{
		UserID:            userID,
		PlatformsSynced:   stats.PlatformsSynced,
		CampaignsUpserted: stats.CampaignsUpserted,
		LeadsUpserted:     stats.LeadsUpserted,
		ErrorCount:        len(stats.Errors),
		FinishedAt:        stats.FinishedAt,
	})
	s.appendOutbox(ctx, domain.EventSyncCompleted, userID.String(), payload, stats.FinishedAt)

	appLogger().InfoContext(ctx, "user sync completed",
		"operation", "sync_user",
		"outcome", "success",
		"user_id", userID.String(),
		"platforms_synced", stats.PlatformsSynced,
		"campaigns_upserted", stats.CampaignsUpserted,
		"leads_upserted", stats.LeadsUpserted,
		"error_count", len(stats.Errors),
	)
	return stats, nil
}

// SyncAllUsers runs SyncUser for every user holding at least one active
// connection. Each user is an independent unit of work; a failed user is
// reported in their own stats entry and does not stop the sweep.
func (s *Service) SyncAllUsers(ctx context.Context) ([]SyncStats, error) {
	userIDs, err := s.users.ListWithActiveConnections(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]SyncStats, 0, len(userIDs))
	for _, userID := range userIDs {
		stats, err := s.SyncUser(ctx, userID)
		if err != nil {
			stats.Errors = append(stats.Errors, PlatformError{Code: "SYNC_FAILED", Message: err.Error()})
		}
		results = append(results, stats)
	}
	return results, nil
}

// syncConnection fetches and normalizes one platform, bounded per remote call.
func (s *Service) syncConnection(ctx context.Context, conn domain.PlatformConnection) (campaignsUpserted, leadsUpserted int, err error) {
	adapter, err := s.adapters.Adapter(conn.Platform)
	if err != nil {
		return 0, 0, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.SyncCallTimeout)
	callStart := time.Now()
	remote, err := adapter.FetchCampaigns(callCtx, conn, conn.AccountID)
	cancel()
	s.observePlatformCall(conn.Platform, callStart, err)
	if err != nil {
		return 0, 0, err
	}

	now := s.nowFn()
	for _, rc := range remote {
		campaign := domain.Campaign{
			UserID:      conn.UserID,
			Platform:    conn.Platform,
			ExternalID:  rc.ExternalID,
			Name:        rc.Name,
			Status:      rc.Status,
			Budget:      rc.Budget,
			Spend:       rc.Spend,
			Revenue:     rc.Revenue,
			Impressions: rc.Impressions,
			Clicks:      rc.Clicks,
			Conversions: rc.Conversions,
			UpdatedAt:   now,
		}
		campaign.ComputeDerivedMetrics()
		if _, _, err := s.campaigns.Upsert(ctx, campaign); err != nil {
			return campaignsUpserted, leadsUpserted, err
		}
		campaignsUpserted++
	}

	callCtx, cancel = context.WithTimeout(ctx, s.cfg.SyncCallTimeout)
	callStart = time.Now()
	remoteLeads, err := adapter.FetchLeads(callCtx, conn)
	cancel()
	s.observePlatformCall(conn.Platform, callStart, err)
	if err != nil {
		return campaignsUpserted, leadsUpserted, err
	}
	for _, rl := range remoteLeads {
		lead := domain.Lead{
			UserID:     conn.UserID,
			Platform:   conn.Platform,
			ExternalID: rl.ExternalID,
			Name:       rl.Name,
			Email:      rl.Email,
			Phone:      rl.Phone,
			Source:     string(conn.Platform),
			Value:      rl.Value,
			UpdatedAt:  now,
		}
		if _, _, err := s.leads.Upsert(ctx, lead); err != nil {
			return campaignsUpserted, leadsUpserted, err
		}
		leadsUpserted++
	}
	return campaignsUpserted, leadsUpserted, nil
}

func syncOutcome(stats SyncStats) string {
	switch {
	case len(stats.Errors) == 0:
		return "success"
	case stats.PlatformsSynced > 0:
		return "partial"
	default:
		return "failure"
	}
}

func platformError(platform domain.Platform, err error) PlatformError {
	code := "REMOTE_ERROR"
	switch {
	case errors.Is(err, domain.ErrPlatformAuthExpired):
		code = "AUTH_EXPIRED"
	case errors.Is(err, domain.ErrRateLimited):
		code = "RATE_LIMITED"
	case errors.Is(err, context.DeadlineExceeded):
		code = "TIMEOUT"
	}
	return PlatformError{Platform: platform, Code: code, Message: err.Error()}
}
