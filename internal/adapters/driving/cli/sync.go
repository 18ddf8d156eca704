package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch contacts and groups from both accounts",
	Long: `Runs the full synchronisation: ensures both accounts have refresh
tokens (starting the browser flow for any that do not), then fetches each
account's contacts and contact groups and writes dated JSON snapshots.

A failure on one account does not stop the other; the command exits
non-zero if either account failed.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := setup(cmd); err != nil {
		return err
	}
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	cmd.Println("Synchronising both accounts...")

	if err := syncService.SyncAll(context.Background()); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Println("Snapshots written.")
	return nil
}
