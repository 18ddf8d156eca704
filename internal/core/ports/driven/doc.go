// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them:
//
//   - ConfigStore: settings.toml persistence (tokens are flushed through it)
//   - AuthorizationProvider: interactive flow producing a refresh token
//   - TokenProvider: access tokens with silent refresh
//   - DirectoryClient: paginated People API listings and batch hydration
//   - DirectoryFactory: builds a DirectoryClient for one account
//   - SnapshotStore: dated JSON snapshot files
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
