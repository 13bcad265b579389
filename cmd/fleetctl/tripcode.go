package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetdash/backend/internal/tripcode"
)

func newTripCodeCmd() *cobra.Command {
	var (
		at     string
		prefix string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "tripcode",
		Short: "Print freshly generated trip codes",
		Long: `Generates trip codes the same way the API does when a trip is created.
Codes are not reserved; the API retries on collision when it stores a trip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			when := time.Now()
			if at != "" {
				t, err := time.Parse(time.DateOnly, at)
				if err != nil {
					return fmt.Errorf("--at must be YYYY-MM-DD: %w", err)
				}
				when = t
			}
			if !tripcode.ValidPrefix(prefix) {
				return fmt.Errorf("invalid prefix %q", prefix)
			}
			if count < 1 {
				return fmt.Errorf("-n must be at least 1")
			}

			g := tripcode.New(tripcode.WithPrefix(prefix))
			for range count {
				fmt.Fprintln(cmd.OutOrStdout(), g.Generate(when))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "creation date to encode, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&prefix, "prefix", tripcode.DefaultPrefix, "code prefix")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of codes to print")
	return cmd
}
