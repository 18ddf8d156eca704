package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
	"github.com/contactmirror/contactmirror/internal/core/ports/driving"
)

// Ensure ProvisionerService implements the interface.
var _ driving.Provisioner = (*ProvisionerService)(nil)

// ProvisionerService manages the refresh-token lifecycle for the fixed
// accounts.
type ProvisionerService struct {
	store      driven.ConfigStore
	authorizer driven.AuthorizationProvider
	log        zerolog.Logger
}

// NewProvisionerService creates a provisioner service.
func NewProvisionerService(store driven.ConfigStore, authorizer driven.AuthorizationProvider, log zerolog.Logger) *ProvisionerService {
	return &ProvisionerService{
		store:      store,
		authorizer: authorizer,
		log:        log,
	}
}

// EnsureRefreshToken runs the interactive flow for the account when no
// refresh token is stored, and persists the result before returning. An
// account that already has a token is left untouched.
func (s *ProvisionerService) EnsureRefreshToken(ctx context.Context, name string) error {
	acct := s.store.Config().Account(name)

	if acct.HasRefreshToken() {
		s.log.Info().Str("account", name).Msg("refresh token present")
		return nil
	}

	if !acct.HasClientCredentials() {
		return fmt.Errorf("%w: account %s has no client credentials in %s",
			domain.ErrAuthorizationFailed, name, s.store.Path())
	}

	s.log.Warn().Str("account", name).Msg("no refresh token stored, starting authorization flow")

	token, err := s.authorizer.Authorize(ctx, acct)
	if err != nil {
		s.log.Error().Err(err).Str("account", name).Msg("authorization flow failed")
		return err
	}

	acct.RefreshToken = token.RefreshToken
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("persist refresh token for %s: %w", name, err)
	}

	s.log.Info().Str("account", name).Msg("refresh token stored")
	return nil
}
