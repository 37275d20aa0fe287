package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Platform identifies an external advertising or commerce system.
type Platform string

const (
	PlatformMeta     Platform = "meta"
	PlatformGoogle   Platform = "google"
	PlatformLinkedIn Platform = "linkedin"
	PlatformTikTok   Platform = "tiktok"
	PlatformShopify  Platform = "shopify"
)

// Platforms lists every supported platform in a stable order.
func Platforms() []Platform {
	return []Platform{PlatformMeta, PlatformGoogle, PlatformLinkedIn, PlatformTikTok, PlatformShopify}
}

// ParsePlatform normalizes and validates a platform name.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PlatformMeta, PlatformGoogle, PlatformLinkedIn, PlatformTikTok, PlatformShopify:
		return p, nil
	default:
		return "", ErrInvalidInput
	}
}

// User is the identity record owning connections, campaigns and leads.
// Authentication itself is delegated to the hosted auth provider; only the
// subject id and contact email are kept locally.
type User struct {
	UserID    uuid.UUID
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlatformConnection links a user to one platform account. The (UserID, Platform)
// pair is unique: reconnecting upserts the existing row rather than duplicating it.
// Tokens are the only secret material held by the service.
type PlatformConnection struct {
	ConnectionID   uuid.UUID
	UserID         uuid.UUID
	Platform       Platform
	AccountID      string
	AccountName    string
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt *time.Time
	Active         bool
	ConnectedAt    time.Time
	LastSyncedAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AuthState is the short-lived envelope binding a pending authorization request
// to a user and platform. Single use; expires 10 minutes after creation.
type AuthState struct {
	UserID      uuid.UUID `json:"user_id"`
	Platform    Platform  `json:"platform"`
	RedirectURI string    `json:"redirect_uri"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
