// Package file implements the ConfigStore port on a TOML settings file.
//
// The file holds one table per account with the OAuth app credentials,
// refresh token and sync cursors. On first run the embedded template is
// written out and the store reports domain.ErrSetupRequired so the process
// can halt for the operator to fill in credentials.
package file
