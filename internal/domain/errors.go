package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidState signals an OAuth callback whose state token is unknown,
	// expired or bound to a different platform. The flow must not proceed.
	ErrInvalidState = errors.New("invalid oauth state")
	// ErrOAuthExchangeFailed is returned when the platform token endpoint rejects
	// the authorization code. The user restarts the flow; there is no retry.
	ErrOAuthExchangeFailed = errors.New("oauth code exchange failed")
	// ErrPlatformAuthExpired signals that a stored platform token was rejected by
	// the remote API. Surfaced to the user as "reconnect required".
	ErrPlatformAuthExpired = errors.New("platform authorization expired")
	// ErrRateLimited covers both remote platform throttling and local request limits.
	ErrRateLimited = errors.New("rate limited")
	// ErrRemote is any unexpected platform-side failure, timeouts included.
	ErrRemote       = errors.New("remote platform error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
