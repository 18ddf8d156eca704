package oauth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// Scope is the People API scope this tool requests: read/write access to
// the user's contacts.
const Scope = "https://www.googleapis.com/auth/contacts"

// authTimeout is how long the flow waits for the operator to complete
// sign-in in the browser.
const authTimeout = 5 * time.Minute

// Ensure Flow implements the AuthorizationProvider interface.
var _ driven.AuthorizationProvider = (*Flow)(nil)

// Flow runs the browser-based authorization-code flow against a loopback
// callback listener. It blocks until the operator finishes sign-in, the
// flow errors, or the timeout elapses.
type Flow struct {
	log      zerolog.Logger
	out      io.Writer
	endpoint oauth2.Endpoint
	timeout  time.Duration
	// openBrowser is swappable so tests can drive the callback directly.
	openBrowser func(url string) error
}

// NewFlow creates an interactive flow writing operator prompts to stdout.
func NewFlow(log zerolog.Logger) *Flow {
	return &Flow{
		log:         log,
		out:         os.Stdout,
		endpoint:    google.Endpoint,
		timeout:     authTimeout,
		openBrowser: OpenBrowser,
	}
}

// Authorize obtains a token for the account. The returned token's
// RefreshToken is what callers persist; failure of any step surfaces as
// domain.ErrAuthorizationFailed.
func (f *Flow) Authorize(ctx context.Context, account *domain.Account) (*domain.OAuthToken, error) {
	if !account.HasClientCredentials() {
		return nil, fmt.Errorf("%w: account %s has no client credentials", domain.ErrAuthorizationFailed, account.Name)
	}

	state := uuid.New().String()
	server := NewCallbackServer(0, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthorizationFailed, err)
	}
	defer func() { _ = server.Stop() }()

	cfg := &oauth2.Config{
		ClientID:     account.ClientID,
		ClientSecret: account.ClientSecret,
		RedirectURL:  server.RedirectURI(),
		Scopes:       []string{Scope},
		Endpoint:     f.endpoint,
	}

	// access_type=offline and prompt=consent make Google return a refresh
	// token even when the app was authorized before.
	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	fmt.Fprintf(f.out, "Log in with your %s Google account.\n", account.Name)
	f.log.Info().Str("account", account.Name).Msg("starting authorization flow")

	if err := f.openBrowser(authURL); err != nil {
		f.log.Warn().Err(err).Msg("could not open browser")
		fmt.Fprintf(f.out, "Open this URL in a browser to continue:\n\n  %s\n\n", authURL)
	}

	code, err := server.WaitForCode(ctx, f.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthorizationFailed, err)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", domain.ErrAuthorizationFailed, err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token response carried no refresh token", domain.ErrAuthorizationFailed)
	}

	f.log.Info().Str("account", account.Name).Msg("refresh token generated")

	return &domain.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}, nil
}
