package driven

import "github.com/contactmirror/contactmirror/internal/core/domain"

// ConfigStore persists the account configuration.
//
// The file is read once at startup; this process is the only writer, so no
// cross-process locking is required. Save rewrites the whole file and is
// called every time a token-bearing response arrives, so a retried run
// resumes from the furthest sync token reached.
type ConfigStore interface {
	// Config returns the in-memory configuration loaded at startup.
	Config() *domain.Config

	// Save serialises the full configuration back to disk.
	Save() error

	// Path returns the settings file path, for diagnostics.
	Path() string
}
