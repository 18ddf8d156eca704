package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// fakeConfigStore is an in-memory ConfigStore recording every Save.
type fakeConfigStore struct {
	rec     *recorder
	cfg     domain.Config
	saves   int
	saveErr error

	// saved receives a deep copy of the relevant account fields at each
	// Save, so tests can assert what was on disk at a given point.
	saved []domain.Account
}

func (f *fakeConfigStore) Config() *domain.Config { return &f.cfg }

func (f *fakeConfigStore) Save() error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	if f.rec != nil {
		f.rec.add(event{op: "save", detail: f.cfg.Account("Account1").ContactsSyncToken})
	}
	for _, name := range domain.AccountNames {
		f.saved = append(f.saved, *f.cfg.Account(name))
	}
	return nil
}

func (f *fakeConfigStore) Path() string { return "/tmp/settings.toml" }

// fakeAuthorizer returns a canned token, or an error.
type fakeAuthorizer struct {
	token *domain.OAuthToken
	err   error
	calls int
}

func (f *fakeAuthorizer) Authorize(_ context.Context, _ *domain.Account) (*domain.OAuthToken, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

// event records one observable step during a sync run, in order.
type event struct {
	op      string // "page", "save", "write", "list", "groups"
	account string
	detail  string
}

// recorder is shared by the fakes so tests can assert cross-component
// ordering, e.g. that a sync token was saved before the next request.
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) add(e event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.op + ":" + e.detail
	}
	return out
}

// scriptedPage is one page the fake client will deliver.
type scriptedPage struct {
	raw       string
	syncToken string
}

// fakeDirectoryClient replays scripted pages through onPage and returns
// canned hydrated contacts and groups.
type fakeDirectoryClient struct {
	rec *recorder

	pages    []scriptedPage
	contacts []json.RawMessage
	// listErrs are popped one per ListContacts call, nil meaning success.
	listErrs []error

	groups    *driven.GroupsResult
	groupErrs []error

	// tokens passed to each ListContacts / ListGroups call.
	contactTokens []string
	groupTokens   []string
}

func (f *fakeDirectoryClient) ListContacts(_ context.Context, syncToken string, onPage driven.PageFunc) ([]json.RawMessage, error) {
	f.contactTokens = append(f.contactTokens, syncToken)
	f.rec.add(event{op: "list", detail: syncToken})

	var err error
	if len(f.listErrs) > 0 {
		err, f.listErrs = f.listErrs[0], f.listErrs[1:]
	}
	if err != nil {
		return nil, err
	}

	for _, p := range f.pages {
		f.rec.add(event{op: "page", detail: p.syncToken})
		if cbErr := onPage(driven.ContactPage{
			Raw:           json.RawMessage(p.raw),
			NextSyncToken: p.syncToken,
		}); cbErr != nil {
			return nil, cbErr
		}
	}
	return f.contacts, nil
}

func (f *fakeDirectoryClient) ListGroups(_ context.Context, syncToken string) (*driven.GroupsResult, error) {
	f.groupTokens = append(f.groupTokens, syncToken)
	f.rec.add(event{op: "groups", detail: syncToken})

	var err error
	if len(f.groupErrs) > 0 {
		err, f.groupErrs = f.groupErrs[0], f.groupErrs[1:]
	}
	if err != nil {
		return nil, err
	}
	return f.groups, nil
}

// fakeFactory hands out per-account fake clients.
type fakeFactory struct {
	clients map[string]*fakeDirectoryClient
	errs    map[string]error
}

func (f *fakeFactory) ClientFor(_ context.Context, acct *domain.Account) (driven.DirectoryClient, error) {
	if err := f.errs[acct.Name]; err != nil {
		return nil, err
	}
	return f.clients[acct.Name], nil
}

// snapshotWrite records one SnapshotStore.Write call.
type snapshotWrite struct {
	kind    domain.SnapshotKind
	account string
	data    any
}

// fakeSnapshotStore records every write.
type fakeSnapshotStore struct {
	rec    *recorder
	writes []snapshotWrite
	err    error
}

func (f *fakeSnapshotStore) Write(kind domain.SnapshotKind, account string, data any) error {
	if f.err != nil {
		return f.err
	}
	if f.rec != nil {
		f.rec.add(event{op: "write", account: account, detail: string(kind)})
	}
	f.writes = append(f.writes, snapshotWrite{kind: kind, account: account, data: data})
	return nil
}

// fakeProvisioner records EnsureRefreshToken calls.
type fakeProvisioner struct {
	calls []string
	errs  map[string]error
}

func (f *fakeProvisioner) EnsureRefreshToken(_ context.Context, account string) error {
	f.calls = append(f.calls, account)
	return f.errs[account]
}
