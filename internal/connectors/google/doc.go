// Package google provides shared infrastructure for the People API
// connector.
//
// This package contains the pieces the contacts connector builds on:
//   - TokenSource adapter to bridge the TokenProvider port to oauth2.TokenSource
//   - Service factory for the authenticated People API client
//   - Error handling for common Google API errors (401, 403, 410, 429)
//   - Rate limiting to respect People API quotas
//
// # Usage
//
//	ts := google.NewTokenSource(ctx, tokenProvider)
//	svc, err := google.NewPeopleService(ctx, ts)
//
// # OAuth2 Scope
//
// The connector uses a single scope:
//   - https://www.googleapis.com/auth/contacts (sensitive)
package google
