package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/adapters/cache"
	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

type fixture struct {
	svc         *Service
	users       *fakeUserRepo
	connections *fakeConnectionRepo
	campaigns   *fakeCampaignRepo
	leads       *fakeLeadRepo
	outbox      *fakeOutboxRepo
	exchanger   *fakeExchanger
	adapters    *fakeRegistry
	recorder    *fakeRecorder
	now         time.Time
}

func newFixture() *fixture {
	f := &fixture{
		users:       &fakeUserRepo{records: make(map[uuid.UUID]domain.User)},
		connections: &fakeConnectionRepo{records: make(map[uuid.UUID]domain.PlatformConnection)},
		campaigns:   &fakeCampaignRepo{records: make(map[uuid.UUID]domain.Campaign)},
		leads:       &fakeLeadRepo{records: make(map[uuid.UUID]domain.Lead)},
		outbox:      &fakeOutboxRepo{},
		exchanger:   &fakeExchanger{},
		adapters:    &fakeRegistry{adapters: make(map[domain.Platform]*fakeAdapter)},
		recorder:    &fakeRecorder{calls: make(map[domain.Platform]map[string]int)},
		now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(Dependencies{
		Config: Config{
			StateTTL:              10 * time.Minute,
			SyncCallTimeout:       5 * time.Second,
			AuthorizeRateLimitIP:  30,
			AuthorizeRateLimitKey: 10,
			AuthorizeRateWindow:   time.Minute,
		},
		Users:       f.users,
		Connections: f.connections,
		Campaigns:   f.campaigns,
		Leads:       f.leads,
		Outbox:      f.outbox,
		AuthState:   cache.NewMemoryAuthStateStore(),
		Limiter:     cache.NewMemoryRateLimiter(),
		Exchanger:   f.exchanger,
		Adapters:    f.adapters,
		Metrics:     f.recorder,
	})
	f.svc.nowFn = func() time.Time { return f.now }
	return f
}

func (f *fixture) adapter(platform domain.Platform) *fakeAdapter {
	if a, ok := f.adapters.adapters[platform]; ok {
		return a
	}
	a := &fakeAdapter{platform: platform}
	f.adapters.adapters[platform] = a
	return a
}

func (f *fixture) addConnection(userID uuid.UUID, platform domain.Platform) domain.PlatformConnection {
	conn := domain.PlatformConnection{
		ConnectionID: uuid.New(),
		UserID:       userID,
		Platform:     platform,
		AccountID:    "acct-" + string(platform),
		AccessToken:  "token-" + string(platform),
		Active:       true,
		ConnectedAt:  f.now,
	}
	f.connections.records[conn.ConnectionID] = conn
	return conn
}

type fakeUserRepo struct {
	mu          sync.Mutex
	records     map[uuid.UUID]domain.User
	activeUsers []uuid.UUID
}

func (r *fakeUserRepo) Ensure(_ context.Context, userID uuid.UUID, email string, now time.Time) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[userID]; ok {
		return existing, nil
	}
	user := domain.User{UserID: userID, Email: email, IsActive: true, CreatedAt: now, UpdatedAt: now}
	r.records[userID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.records[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) ListWithActiveConnections(_ context.Context) ([]uuid.UUID, error) {
	return r.activeUsers, nil
}

type fakeConnectionRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]domain.PlatformConnection
}

func (r *fakeConnectionRepo) Upsert(_ context.Context, params ports.ConnectionUpsertParams) (domain.PlatformConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range r.records {
		if conn.UserID == params.UserID && conn.Platform == params.Platform {
			conn.AccountID = params.AccountID
			conn.AccountName = params.AccountName
			conn.AccessToken = params.AccessToken
			conn.RefreshToken = params.RefreshToken
			conn.TokenExpiresAt = params.TokenExpiresAt
			conn.Active = true
			conn.ConnectedAt = params.ConnectedAt
			r.records[id] = conn
			return conn, nil
		}
	}
	conn := domain.PlatformConnection{
		ConnectionID:   uuid.New(),
		UserID:         params.UserID,
		Platform:       params.Platform,
		AccountID:      params.AccountID,
		AccountName:    params.AccountName,
		AccessToken:    params.AccessToken,
		RefreshToken:   params.RefreshToken,
		TokenExpiresAt: params.TokenExpiresAt,
		Active:         true,
		ConnectedAt:    params.ConnectedAt,
		CreatedAt:      params.ConnectedAt,
	}
	r.records[conn.ConnectionID] = conn
	return conn, nil
}

func (r *fakeConnectionRepo) GetByID(_ context.Context, connectionID uuid.UUID) (domain.PlatformConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.records[connectionID]
	if !ok {
		return domain.PlatformConnection{}, domain.ErrNotFound
	}
	return conn, nil
}

func (r *fakeConnectionRepo) ListByUser(_ context.Context, userID uuid.UUID, activeOnly bool) ([]domain.PlatformConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.PlatformConnection, 0)
	for _, conn := range r.records {
		if conn.UserID != userID {
			continue
		}
		if activeOnly && !conn.Active {
			continue
		}
		out = append(out, conn)
	}
	return out, nil
}

func (r *fakeConnectionRepo) MarkSynced(_ context.Context, connectionID uuid.UUID, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.records[connectionID]
	if !ok {
		return domain.ErrNotFound
	}
	conn.LastSyncedAt = &syncedAt
	r.records[connectionID] = conn
	return nil
}

func (r *fakeConnectionRepo) Revoke(_ context.Context, connectionID uuid.UUID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.records[connectionID]
	if !ok {
		return domain.ErrNotFound
	}
	conn.Active = false
	r.records[connectionID] = conn
	return nil
}

type fakeCampaignRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]domain.Campaign
}

func (r *fakeCampaignRepo) Upsert(_ context.Context, campaign domain.Campaign) (domain.Campaign, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.records {
		if existing.UserID == campaign.UserID && existing.Platform == campaign.Platform && existing.ExternalID == campaign.ExternalID {
			campaign.CampaignID = id
			campaign.CreatedAt = existing.CreatedAt
			r.records[id] = campaign
			return campaign, false, nil
		}
	}
	campaign.CampaignID = uuid.New()
	campaign.CreatedAt = campaign.UpdatedAt
	r.records[campaign.CampaignID] = campaign
	return campaign, true, nil
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, userID, campaignID uuid.UUID) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	campaign, ok := r.records[campaignID]
	if !ok || campaign.UserID != userID {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return campaign, nil
}

func (r *fakeCampaignRepo) GetByExternalID(_ context.Context, userID uuid.UUID, platform domain.Platform, externalID string) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, campaign := range r.records {
		if campaign.UserID == userID && campaign.Platform == platform && campaign.ExternalID == externalID {
			return campaign, nil
		}
	}
	return domain.Campaign{}, domain.ErrNotFound
}

func (r *fakeCampaignRepo) ListByUser(_ context.Context, userID uuid.UUID, filter ports.CampaignFilter) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Campaign, 0)
	for _, campaign := range r.records {
		if campaign.UserID != userID {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		if filter.Platform != "" && campaign.Platform != filter.Platform {
			continue
		}
		out = append(out, campaign)
	}
	return out, nil
}

func (r *fakeCampaignRepo) Delete(_ context.Context, userID, campaignID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	campaign, ok := r.records[campaignID]
	if !ok || campaign.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.records, campaignID)
	return nil
}

func (r *fakeCampaignRepo) SetStatus(_ context.Context, userID, campaignID uuid.UUID, status domain.CampaignStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	campaign, ok := r.records[campaignID]
	if !ok || campaign.UserID != userID {
		return domain.ErrNotFound
	}
	campaign.Status = status
	campaign.UpdatedAt = updatedAt
	r.records[campaignID] = campaign
	return nil
}

type fakeLeadRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]domain.Lead
}

func (r *fakeLeadRepo) Insert(_ context.Context, lead domain.Lead) (domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead.LeadID = uuid.New()
	lead.CreatedAt = lead.UpdatedAt
	r.records[lead.LeadID] = lead
	return lead, nil
}

func (r *fakeLeadRepo) Upsert(_ context.Context, lead domain.Lead) (domain.Lead, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lead.ExternalID != "" {
		for id, existing := range r.records {
			if existing.UserID == lead.UserID && existing.Platform == lead.Platform && existing.ExternalID == lead.ExternalID {
				lead.LeadID = id
				lead.CreatedAt = existing.CreatedAt
				r.records[id] = lead
				return lead, false, nil
			}
		}
	}
	lead.LeadID = uuid.New()
	lead.CreatedAt = lead.UpdatedAt
	r.records[lead.LeadID] = lead
	return lead, true, nil
}

func (r *fakeLeadRepo) ListByUser(_ context.Context, userID uuid.UUID, filter ports.LeadFilter) ([]domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Lead, 0)
	for _, lead := range r.records {
		if lead.UserID != userID {
			continue
		}
		if filter.Source != "" && lead.Source != filter.Source {
			continue
		}
		if filter.CampaignID != nil && (lead.CampaignID == nil || *lead.CampaignID != *filter.CampaignID) {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (r *fakeOutboxRepo) Append(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) ClaimUnpublished(_ context.Context, limit int, _ string, _ time.Time) ([]domain.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.OutboxRecord, 0, len(r.events))
	for i, event := range r.events {
		if i >= limit {
			break
		}
		out = append(out, domain.OutboxRecord{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      event.Payload,
			CreatedAt:    event.OccurredAt,
		})
	}
	return out, nil
}

func (r *fakeOutboxRepo) MarkPublished(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ string, _ time.Time) error {
	return nil
}

func (r *fakeOutboxRepo) MarkDeadLettered(_ context.Context, _ uuid.UUID, _ string, _ string, _ time.Time) error {
	return nil
}

func (r *fakeOutboxRepo) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event.EventType)
	}
	return out
}

type fakeRecorder struct {
	mu        sync.Mutex
	runs      []string
	campaigns int
	leads     int
	calls     map[domain.Platform]map[string]int
}

func (r *fakeRecorder) RecordSyncRun(outcome string, campaignsUpserted, leadsUpserted int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, outcome)
	r.campaigns += campaignsUpserted
	r.leads += leadsUpserted
}

func (r *fakeRecorder) ObservePlatformCall(platform domain.Platform, _ time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	if r.calls[platform] == nil {
		r.calls[platform] = make(map[string]int)
	}
	r.calls[platform][outcome]++
}

func (r *fakeRecorder) RecordOutboxBatch(_, _ int) {}

func (r *fakeRecorder) callCount(platform domain.Platform, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[platform][outcome]
}

type fakeExchanger struct {
	exchangeErr error
	result      ports.TokenExchangeResult
	calls       int
}

func (e *fakeExchanger) BuildAuthorizeURL(platform domain.Platform, redirectURI, state string) (string, error) {
	return fmt.Sprintf("https://auth.example/%s?redirect_uri=%s&state=%s", platform, redirectURI, state), nil
}

func (e *fakeExchanger) ExchangeCode(_ context.Context, _ domain.Platform, _, _ string) (ports.TokenExchangeResult, error) {
	e.calls++
	if e.exchangeErr != nil {
		return ports.TokenExchangeResult{}, e.exchangeErr
	}
	result := e.result
	if result.AccessToken == "" {
		result = ports.TokenExchangeResult{
			AccessToken: "access-token",
			AccountID:   "acct-1",
			AccountName: "Test Account",
			ExpiresIn:   3600,
		}
	}
	return result, nil
}

type fakeRegistry struct {
	adapters map[domain.Platform]*fakeAdapter
}

func (r *fakeRegistry) Adapter(platform domain.Platform) (ports.PlatformAdapter, error) {
	adapter, ok := r.adapters[platform]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return adapter, nil
}

type fakeAdapter struct {
	platform     domain.Platform
	campaigns    []ports.RemoteCampaign
	leads        []ports.RemoteLead
	fetchErr     error
	createErr    error
	statusErr    error
	pauseCalls   int
	resumeCalls  int
	deleteCalls  int
	createdDraft domain.CampaignDraft
}

func (a *fakeAdapter) Platform() domain.Platform { return a.platform }

func (a *fakeAdapter) FetchAccounts(_ context.Context, _ domain.PlatformConnection) ([]ports.Account, error) {
	return nil, nil
}

func (a *fakeAdapter) FetchCampaigns(_ context.Context, _ domain.PlatformConnection, _ string) ([]ports.RemoteCampaign, error) {
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	return a.campaigns, nil
}

func (a *fakeAdapter) FetchMetrics(_ context.Context, _ domain.PlatformConnection, externalID string, _ domain.MetricsWindow) (ports.RemoteCampaign, error) {
	return ports.RemoteCampaign{ExternalID: externalID}, nil
}

func (a *fakeAdapter) FetchLeads(_ context.Context, _ domain.PlatformConnection) ([]ports.RemoteLead, error) {
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	return a.leads, nil
}

func (a *fakeAdapter) CreateCampaign(_ context.Context, _ domain.PlatformConnection, draft domain.CampaignDraft) (ports.RemoteCampaign, error) {
	if a.createErr != nil {
		return ports.RemoteCampaign{}, a.createErr
	}
	a.createdDraft = draft
	return ports.RemoteCampaign{
		ExternalID: "ext-created",
		Name:       draft.Name,
		Status:     draft.Status,
		Budget:     draft.Budget,
	}, nil
}

func (a *fakeAdapter) PauseCampaign(_ context.Context, _ domain.PlatformConnection, _ string) error {
	a.pauseCalls++
	return a.statusErr
}

func (a *fakeAdapter) ResumeCampaign(_ context.Context, _ domain.PlatformConnection, _ string) error {
	a.resumeCalls++
	return a.statusErr
}

func (a *fakeAdapter) DeleteCampaign(_ context.Context, _ domain.PlatformConnection, _ string) error {
	a.deleteCalls++
	return a.statusErr
}

func (a *fakeAdapter) PublishCreative(_ context.Context, _ domain.PlatformConnection, _ string, _ domain.Creative) error {
	return a.statusErr
}
