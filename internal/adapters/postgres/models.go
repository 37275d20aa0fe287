package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type connectionModel struct {
	ConnectionID   uuid.UUID  `gorm:"column:connection_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id"`
	Platform       string     `gorm:"column:platform"`
	AccountID      string     `gorm:"column:account_id"`
	AccountName    string     `gorm:"column:account_name"`
	AccessToken    string     `gorm:"column:access_token"`
	RefreshToken   string     `gorm:"column:refresh_token"`
	TokenExpiresAt *time.Time `gorm:"column:token_expires_at"`
	Active         bool       `gorm:"column:active"`
	ConnectedAt    time.Time  `gorm:"column:connected_at"`
	LastSyncedAt   *time.Time `gorm:"column:last_synced_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (connectionModel) TableName() string { return "platform_connections" }

type campaignModel struct {
	CampaignID  uuid.UUID `gorm:"column:campaign_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id"`
	Platform    string    `gorm:"column:platform"`
	ExternalID  string    `gorm:"column:external_id"`
	Name        string    `gorm:"column:name"`
	Status      string    `gorm:"column:status"`
	Budget      float64   `gorm:"column:budget"`
	Spend       float64   `gorm:"column:spend"`
	Revenue     float64   `gorm:"column:revenue"`
	Impressions int64     `gorm:"column:impressions"`
	Clicks      int64     `gorm:"column:clicks"`
	Conversions int64     `gorm:"column:conversions"`
	CTR         float64   `gorm:"column:ctr"`
	CPC         float64   `gorm:"column:cpc"`
	ROAS        float64   `gorm:"column:roas"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string { return "campaigns" }

type leadModel struct {
	LeadID     uuid.UUID  `gorm:"column:lead_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id"`
	CampaignID *uuid.UUID `gorm:"column:campaign_id"`
	Platform   string     `gorm:"column:platform"`
	ExternalID string     `gorm:"column:external_id"`
	Name       string     `gorm:"column:name"`
	Email      string     `gorm:"column:email"`
	Phone      string     `gorm:"column:phone"`
	Source     string     `gorm:"column:source"`
	Value      float64    `gorm:"column:value"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (leadModel) TableName() string { return "leads" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "sync_outbox" }
