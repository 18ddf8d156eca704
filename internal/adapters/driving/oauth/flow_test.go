package oauth

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/contactmirror/contactmirror/internal/core/domain"
)

// fakeBrowser immediately completes the callback as the operator's browser
// would, reusing the state the flow put in the auth URL.
func fakeBrowser(t *testing.T, code string) func(string) error {
	t.Helper()
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		redirect := u.Query().Get("redirect_uri")
		state := u.Query().Get("state")
		go func() {
			cb := fmt.Sprintf("%s?state=%s&code=%s", redirect, url.QueryEscape(state), url.QueryEscape(code))
			resp, err := http.Get(cb) //nolint:noctx
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func testFlow(t *testing.T, tokenSrv *httptest.Server, browser func(string) error) *Flow {
	t.Helper()
	return &Flow{
		log:     zerolog.Nop(),
		out:     &bytes.Buffer{},
		timeout: 5 * time.Second,
		endpoint: oauth2.Endpoint{
			AuthURL:  tokenSrv.URL + "/auth",
			TokenURL: tokenSrv.URL + "/token",
		},
		openBrowser: browser,
	}
}

func TestFlow_Authorize(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	flow := testFlow(t, tokenSrv, fakeBrowser(t, "the-code"))
	account := &domain.Account{Name: "Account1", ClientID: "id", ClientSecret: "secret"}

	token, err := flow.Authorize(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "rt", token.RefreshToken)
	assert.Equal(t, "at", token.AccessToken)
}

func TestFlow_Authorize_NoClientCredentials(t *testing.T) {
	flow := &Flow{log: zerolog.Nop(), out: &bytes.Buffer{}, timeout: time.Second, openBrowser: func(string) error { return nil }}

	_, err := flow.Authorize(context.Background(), &domain.Account{Name: "Account1"})
	assert.ErrorIs(t, err, domain.ErrAuthorizationFailed)
}

func TestFlow_Authorize_UserDenied(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer tokenSrv.Close()

	denyBrowser := func(authURL string) error {
		u, _ := url.Parse(authURL)
		redirect := u.Query().Get("redirect_uri")
		go func() {
			resp, err := http.Get(redirect + "?error=access_denied&error_description=denied") //nolint:noctx
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}

	flow := testFlow(t, tokenSrv, denyBrowser)
	account := &domain.Account{Name: "Account1", ClientID: "id", ClientSecret: "secret"}

	_, err := flow.Authorize(context.Background(), account)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthorizationFailed)
}

func TestFlow_Authorize_NoRefreshTokenInResponse(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	flow := testFlow(t, tokenSrv, fakeBrowser(t, "the-code"))
	account := &domain.Account{Name: "Account1", ClientID: "id", ClientSecret: "secret"}

	_, err := flow.Authorize(context.Background(), account)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthorizationFailed)
	assert.Contains(t, err.Error(), "no refresh token")
}
