// Package services contains the core application logic, wired together
// through the ports in core/ports. Two services exist:
//
//   - ProvisionerService: the refresh-token lifecycle (interactive
//     authorization on first run, no-op afterwards)
//   - SyncService: the fetch-and-snapshot sequence for both accounts
//
// Services depend only on domain types and port interfaces, never on
// adapters, so every policy here is testable with fakes.
package services
