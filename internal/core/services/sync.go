package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
	"github.com/contactmirror/contactmirror/internal/core/ports/driving"
)

// Ensure SyncService implements the interface.
var _ driving.Syncer = (*SyncService)(nil)

// SyncService runs the full fetch-and-snapshot sequence: provision both
// accounts, then for each account list contacts (persisting raw pages and
// sync tokens as they arrive), hydrate, list groups, and write the final
// snapshots. Accounts are processed strictly sequentially.
//
// A failure on one account does not abort the other: each account's error
// is collected and the joined result is returned, so the process still
// exits non-zero while the healthy account keeps its daily snapshot.
type SyncService struct {
	store       driven.ConfigStore
	provisioner driving.Provisioner
	factory     driven.DirectoryFactory
	snapshots   driven.SnapshotStore
	log         zerolog.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(
	store driven.ConfigStore,
	provisioner driving.Provisioner,
	factory driven.DirectoryFactory,
	snapshots driven.SnapshotStore,
	log zerolog.Logger,
) *SyncService {
	return &SyncService{
		store:       store,
		provisioner: provisioner,
		factory:     factory,
		snapshots:   snapshots,
		log:         log,
	}
}

// SyncAll processes both accounts: tokens first (so all interactive
// prompts happen up front), then the fetches.
func (s *SyncService) SyncAll(ctx context.Context) error {
	var errs []error

	for _, name := range domain.AccountNames {
		if err := s.provisioner.EnsureRefreshToken(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	for _, name := range domain.AccountNames {
		if err := s.syncAccount(ctx, name); err != nil {
			s.log.Error().Err(err).Str("account", name).Msg("account sync failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// syncAccount fetches and persists one account's contacts and groups.
func (s *SyncService) syncAccount(ctx context.Context, name string) error {
	acct := s.store.Config().Account(name)
	if !acct.HasRefreshToken() {
		return fmt.Errorf("%w: account %s has no refresh token", domain.ErrCredentialsInvalid, name)
	}

	client, err := s.factory.ClientFor(ctx, acct)
	if err != nil {
		return err
	}

	contacts, err := s.listContacts(ctx, client, acct)
	if err != nil {
		return err
	}
	if err := s.snapshots.Write(domain.SnapshotContacts, name, contacts); err != nil {
		return err
	}
	s.log.Info().Str("account", name).Int("contacts", len(contacts)).Msg("contacts snapshot written")

	groups, err := s.listGroups(ctx, client, acct)
	if err != nil {
		return err
	}
	if err := s.snapshots.Write(domain.SnapshotGroups, name, groups); err != nil {
		return err
	}
	s.log.Info().Str("account", name).Int("groups", len(groups)).Msg("groups snapshot written")

	return nil
}

// listContacts runs the paginated listing. Every raw page is persisted and
// every sync token flushed to the settings file before the next page is
// requested, so an interrupted run resumes from the furthest point
// reached. An expired stored token is cleared and the listing retried once
// as a full sync.
func (s *SyncService) listContacts(ctx context.Context, client driven.DirectoryClient, acct *domain.Account) ([]json.RawMessage, error) {
	onPage := func(page driven.ContactPage) error {
		if err := s.snapshots.Write(domain.SnapshotRawContacts, acct.Name, page.Raw); err != nil {
			return err
		}
		if page.NextSyncToken != "" {
			acct.ContactsSyncToken = page.NextSyncToken
			if err := s.store.Save(); err != nil {
				return fmt.Errorf("persist contacts sync token: %w", err)
			}
			s.log.Info().Str("account", acct.Name).Msg("contacts sync token saved")
		}
		return nil
	}

	contacts, err := client.ListContacts(ctx, acct.ContactsSyncToken, onPage)
	if errors.Is(err, domain.ErrSyncTokenExpired) && acct.ContactsSyncToken != "" {
		s.log.Warn().Str("account", acct.Name).Msg("stored contacts sync token expired, full resync")
		acct.ContactsSyncToken = ""
		if saveErr := s.store.Save(); saveErr != nil {
			return nil, fmt.Errorf("clear expired contacts sync token: %w", saveErr)
		}
		contacts, err = client.ListContacts(ctx, "", onPage)
	}
	return contacts, err
}

// listGroups performs the single groups listing and persists the raw
// response and sync token, mirroring listContacts' expiry handling.
func (s *SyncService) listGroups(ctx context.Context, client driven.DirectoryClient, acct *domain.Account) ([]json.RawMessage, error) {
	result, err := client.ListGroups(ctx, acct.GroupsSyncToken)
	if errors.Is(err, domain.ErrSyncTokenExpired) && acct.GroupsSyncToken != "" {
		s.log.Warn().Str("account", acct.Name).Msg("stored groups sync token expired, full resync")
		acct.GroupsSyncToken = ""
		if saveErr := s.store.Save(); saveErr != nil {
			return nil, fmt.Errorf("clear expired groups sync token: %w", saveErr)
		}
		result, err = client.ListGroups(ctx, "")
	}
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.Write(domain.SnapshotRawGroups, acct.Name, result.Raw); err != nil {
		return nil, err
	}
	if result.NextSyncToken != "" {
		acct.GroupsSyncToken = result.NextSyncToken
		if err := s.store.Save(); err != nil {
			return nil, fmt.Errorf("persist groups sync token: %w", err)
		}
		s.log.Info().Str("account", acct.Name).Msg("groups sync token saved")
	}

	return result.Groups, nil
}
