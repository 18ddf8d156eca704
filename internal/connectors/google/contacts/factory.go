package contacts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/contactmirror/contactmirror/internal/connectors/google"
	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.DirectoryFactory = (*Factory)(nil)

// TokenProviderFunc builds a TokenProvider for one account. Injected so
// this package does not depend on the auth adapter.
type TokenProviderFunc func(account *domain.Account) driven.TokenProvider

// Factory builds People API clients bound to one account's credentials.
type Factory struct {
	log    zerolog.Logger
	tokens TokenProviderFunc
}

// NewFactory creates a directory client factory.
func NewFactory(log zerolog.Logger, tokens TokenProviderFunc) *Factory {
	return &Factory{log: log, tokens: tokens}
}

// ClientFor builds an authenticated client for the account.
func (f *Factory) ClientFor(ctx context.Context, account *domain.Account) (driven.DirectoryClient, error) {
	ts := google.NewTokenSource(ctx, f.tokens(account))
	svc, err := google.NewPeopleService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create people service: %w", err)
	}
	return NewClient(svc, f.log.With().Str("account", account.Name).Logger()), nil
}
