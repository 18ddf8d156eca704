package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contactmirror/contactmirror/internal/adapters/driven/auth"
	"github.com/contactmirror/contactmirror/internal/adapters/driven/config/file"
	"github.com/contactmirror/contactmirror/internal/adapters/driven/snapshot"
	"github.com/contactmirror/contactmirror/internal/adapters/driving/oauth"
	"github.com/contactmirror/contactmirror/internal/connectors/google/contacts"
	"github.com/contactmirror/contactmirror/internal/core/domain"
	"github.com/contactmirror/contactmirror/internal/core/ports/driven"
	"github.com/contactmirror/contactmirror/internal/core/ports/driving"
	"github.com/contactmirror/contactmirror/internal/core/services"
	"github.com/contactmirror/contactmirror/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by setup. Tests substitute mocks directly.
var (
	syncService        driving.Syncer
	provisionerService driving.Provisioner
)

// Persistent flags.
var (
	configPath string
	dataDir    string
	logDir     string
	verbose    bool
)

// closeLogger flushes and closes the log file. Set by setup.
var closeLogger func()

var rootCmd = &cobra.Command{
	Use:   "contactmirror",
	Short: "Mirror Google Contacts from two accounts into dated snapshots",
	Long: `contactmirror fetches contacts and contact groups from two Google
accounts via the People API and writes dated JSON snapshots of each.

On first run it creates a settings file and exits; fill in the OAuth
client credentials for both accounts, then run again. Missing refresh
tokens are obtained interactively through the browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "", "Settings file path (default ~/.contactmirror/settings.toml)")
	rootCmd.PersistentFlags().StringVar(
		&dataDir, "data-dir", "", "Snapshot output directory (default ~/.contactmirror/data)")
	rootCmd.PersistentFlags().StringVar(
		&logDir, "log-dir", "", "Log file directory (default ~/.contactmirror/logs)")
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "Show debug output on the console")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if closeLogger != nil {
			closeLogger()
		}
	}()
	return rootCmd.Execute()
}

// baseDir resolves the default application directory.
func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".contactmirror"), nil
}

// setup builds the full service graph behind the commands: logger, config
// store, token provider, authorization flow, People API factory, snapshot
// writer, and the two core services. Called by commands that need them;
// tests bypass it by setting the service globals.
func setup(cmd *cobra.Command) error {
	if syncService != nil && provisionerService != nil {
		return nil
	}

	base, err := baseDir()
	if err != nil {
		return err
	}
	if configPath == "" {
		configPath = filepath.Join(base, "settings.toml")
	}
	if dataDir == "" {
		dataDir = filepath.Join(base, "data")
	}
	if logDir == "" {
		logDir = filepath.Join(base, "logs")
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	log, closer, err := logger.New(logger.Options{
		Dir:     logDir,
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("initialise logging: %w", err)
	}
	closeLogger = closer

	store, err := file.NewConfigStore(configPath)
	if err != nil {
		if errors.Is(err, domain.ErrSetupRequired) {
			cmd.PrintErrf("Created %s\n", configPath)
			cmd.PrintErrln("Fill in the OAuth client credentials for both accounts and run again.")
		}
		return err
	}

	flow := oauth.NewFlow(log)
	factory := contacts.NewFactory(log, func(acct *domain.Account) driven.TokenProvider {
		return auth.NewOAuthTokenProvider(acct)
	})
	snapshots := snapshot.NewWriter(dataDir)

	provisionerService = services.NewProvisionerService(store, flow, log)
	syncService = services.NewSyncService(store, provisionerService, factory, snapshots, log)
	return nil
}
