package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/contactmirror/contactmirror/internal/adapters/driving/cli"
	"github.com/contactmirror/contactmirror/internal/core/domain"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// A freshly bootstrapped settings file is not a failure of the
		// tool, but the run did not sync anything: exit distinctly so
		// wrapping scripts can tell the two apart.
		if errors.Is(err, domain.ErrSetupRequired) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
