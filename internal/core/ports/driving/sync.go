package driving

import "context"

// Syncer runs the full fetch-and-snapshot sequence for the fixed pair of
// accounts: ensure refresh tokens, list contacts, list groups, persist.
// Accounts are processed strictly sequentially.
type Syncer interface {
	// SyncAll processes both accounts. A failure on one account does not
	// abort the other; the returned error joins every per-account
	// failure.
	SyncAll(ctx context.Context) error
}

// Provisioner manages the refresh-token lifecycle.
type Provisioner interface {
	// EnsureRefreshToken runs the interactive authorization flow for the
	// named account if and only if no refresh token is stored, and
	// persists the result before returning.
	EnsureRefreshToken(ctx context.Context, account string) error
}
