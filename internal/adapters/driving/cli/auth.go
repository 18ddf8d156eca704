package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contactmirror/contactmirror/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth [account]",
	Short: "Provision refresh tokens without syncing",
	Long: `Runs the browser-based authorization flow for any account that has
no stored refresh token, and exits. Useful for provisioning credentials
on a machine with a browser before moving the settings file to a
headless one.

With an account argument (Account1 or Account2), only that account is
provisioned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	if err := setup(cmd); err != nil {
		return err
	}
	if provisionerService == nil {
		return errors.New("provisioner service not configured")
	}

	names := domain.AccountNames
	if len(args) > 0 {
		name := args[0]
		valid := false
		for _, n := range domain.AccountNames {
			if n == name {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown account %q (expected Account1 or Account2)", name)
		}
		names = []string{name}
	}

	ctx := context.Background()
	var errs []error
	for _, name := range names {
		cmd.Printf("Checking %s...\n", name)
		if err := provisionerService.EnsureRefreshToken(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		cmd.Printf("%s is provisioned.\n", name)
	}
	return errors.Join(errs...)
}
