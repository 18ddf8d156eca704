package driven

import (
	"context"

	"github.com/contactmirror/contactmirror/internal/core/domain"
)

// AuthorizationProvider produces a refresh token for an account, possibly
// blocking on external operator action.
//
// The production implementation runs the browser-based authorization-code
// flow against a loopback listener; tests substitute a canned provider so
// the provisioning logic stays testable.
type AuthorizationProvider interface {
	// Authorize runs the flow for the given OAuth app credentials and
	// returns the resulting token. The token's RefreshToken is the only
	// part callers persist.
	Authorize(ctx context.Context, account *domain.Account) (*domain.OAuthToken, error)
}

// TokenProvider supplies a valid access token for API calls, refreshing
// silently when the cached token is missing or expiring. There is no retry
// loop: a failed refresh surfaces as domain.ErrCredentialsInvalid.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}
