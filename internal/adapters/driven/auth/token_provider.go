// Package auth implements the TokenProvider port: short-lived access
// tokens minted from an account's stored refresh token, with an in-memory
// cache and no retry loop.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// Ensure OAuthTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*OAuthTokenProvider)(nil)

// refreshBuffer is how far ahead of expiry a cached token is discarded.
const refreshBuffer = 5 * time.Minute

// OAuthTokenProvider exchanges a stored refresh token for access tokens on
// demand. The access token lives only in memory; the refresh token in the
// account record is the durable credential.
type OAuthTokenProvider struct {
	account  *domain.Account
	tokenURL string
	client   *http.Client

	mu     sync.Mutex
	cached *domain.OAuthToken
}

// NewOAuthTokenProvider creates a provider for one account against the
// Google token endpoint.
func NewOAuthTokenProvider(account *domain.Account) *OAuthTokenProvider {
	return &OAuthTokenProvider{
		account:  account,
		tokenURL: google.Endpoint.TokenURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewOAuthTokenProviderFor creates a provider against a custom token
// endpoint. Used by tests.
func NewOAuthTokenProviderFor(account *domain.Account, tokenURL string, client *http.Client) *OAuthTokenProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &OAuthTokenProvider{account: account, tokenURL: tokenURL, client: client}
}

// GetToken returns a valid access token, refreshing when the cached one is
// missing or close to expiry. A refresh token that cannot be exchanged is a
// domain.ErrCredentialsInvalid: there is no retry.
func (p *OAuthTokenProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && !p.cached.IsExpired() && !p.cached.ExpiresWithin(refreshBuffer) {
		return p.cached.AccessToken, nil
	}

	if !p.account.HasClientCredentials() || !p.account.HasRefreshToken() {
		return "", fmt.Errorf("%w: account %s has no stored refresh token", domain.ErrCredentialsInvalid, p.account.Name)
	}

	token, err := p.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCredentialsInvalid, err)
	}

	p.cached = token
	return token.AccessToken, nil
}

// refresh performs the refresh_token grant against the token endpoint.
func (p *OAuthTokenProvider) refresh(ctx context.Context) (*domain.OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", p.account.RefreshToken)
	data.Set("client_id", p.account.ClientID)
	data.Set("client_secret", p.account.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("token refresh: %s - %s", errResp.Error, errResp.Description)
		}
		return nil, fmt.Errorf("token refresh failed with status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token response carried no access token")
	}

	token := &domain.OAuthToken{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
	}
	if tokenResp.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	return token, nil
}

// InvalidateCache clears the cached access token.
func (p *OAuthTokenProvider) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
}
