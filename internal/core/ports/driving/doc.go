// Package driving defines the interfaces through which the outside world
// drives the core: the CLI commands call these, services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driving
