// Package domain defines the core business entities for contactmirror.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Account: One of the two synced Google accounts and its stored tokens
//   - Config: The full on-disk configuration (all accounts)
//   - OAuthToken: Short-lived access token with expiry
//   - SnapshotKind: The four dated JSON artifacts written per account
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
