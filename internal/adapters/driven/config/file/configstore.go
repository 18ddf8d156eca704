package file

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

//go:embed settings.toml.template
var settingsTemplate []byte

// ConfigStore is a file-based implementation of driven.ConfigStore using
// TOML. One table per account; unknown tables are preserved in memory but
// only the fixed accounts are exposed.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
	config   *domain.Config
}

// NewConfigStore loads the settings file at path.
//
// When the file does not exist, the embedded template is written in its
// place and domain.ErrSetupRequired is returned: the operator must fill in
// client credentials before the tool can do anything useful. A file that
// exists but fails to parse returns domain.ErrConfigMalformed.
func NewConfigStore(path string) (*ConfigStore, error) {
	s := &ConfigStore{filePath: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		if err := s.bootstrap(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSetupRequired, path)
	}

	var raw map[string]domain.Account
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigMalformed, err)
	}

	cfg := &domain.Config{Accounts: make(map[string]*domain.Account, len(raw))}
	for name, acct := range raw {
		a := acct
		a.Name = name
		cfg.Accounts[name] = &a
	}
	s.config = cfg

	return s, nil
}

// bootstrap writes the embedded template beside where the settings file
// should live.
func (s *ConfigStore) bootstrap() error {
	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.filePath, settingsTemplate, 0o600); err != nil {
		return fmt.Errorf("write settings template: %w", err)
	}
	return nil
}

// Config returns the loaded configuration.
func (s *ConfigStore) Config() *domain.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Save serialises the full configuration back to disk with restricted
// permissions. The refresh token is a credential, hence 0600.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := make(map[string]*domain.Account, len(s.config.Accounts))
	for name, acct := range s.config.Accounts {
		tables[name] = acct
	}

	data, err := toml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
