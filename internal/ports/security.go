package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

// AuthClaims is the verified identity extracted from an inbound bearer token.
// Tokens are issued by the hosted auth provider; this service only verifies.
type AuthClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenVerifier validates bearer tokens from the hosted auth provider.
type TokenVerifier interface {
	Verify(tokenString string) (AuthClaims, error)
}

// TokenExchangeResult is the outcome of swapping an authorization code.
type TokenExchangeResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	AccountID    string
	AccountName  string
}

// OAuthExchanger builds platform authorization URLs and exchanges codes for
// tokens. One implementation covers all platforms from per-platform config
// records rather than per-platform code forks.
type OAuthExchanger interface {
	BuildAuthorizeURL(platform domain.Platform, redirectURI, state string) (string, error)
	ExchangeCode(ctx context.Context, platform domain.Platform, code, redirectURI string) (TokenExchangeResult, error)
}

// AssistClient calls the external LLM API for ad copy and recommendations.
type AssistClient interface {
	GenerateAdCopy(ctx context.Context, platform domain.Platform, product, audience string) (domain.Creative, error)
	Recommend(ctx context.Context, prompt string) (string, error)
}
