package domain

import "time"

// OAuthToken represents a short-lived access token derived from an
// account's refresh token. It is never persisted; only the refresh token
// in Account is durable.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens. The token
	// endpoint may rotate it; callers must persist a non-empty value.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the token has expired.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}

// ExpiresWithin returns true if the token expires within d. Used to
// refresh slightly ahead of the deadline so in-flight requests do not
// race the expiry.
func (t *OAuthToken) ExpiresWithin(d time.Duration) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Until(t.Expiry) < d
}
