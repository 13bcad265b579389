package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds a fresh command tree. Tests build their own so flag
// state never leaks between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Operator tooling for the fleet dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newTripCodeCmd(), newExpiryCmd())
	return root
}
