package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/fleetdash/backend/internal/expiry"
)

func newExpiryCmd() *cobra.Command {
	var (
		now  string
		lang string
	)

	cmd := &cobra.Command{
		Use:   "expiry DATE...",
		Short: "Classify expiry dates the way the dashboard does",
		Example: `  fleetctl expiry 2026-02-01
  fleetctl expiry --now 2026-01-15 --lang id 2026-01-20 2025-12-31`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if now != "" {
				t, err := time.Parse(time.DateOnly, now)
				if err != nil {
					return fmt.Errorf("--now must be YYYY-MM-DD: %w", err)
				}
				at = t
			}
			tag, err := language.Parse(lang)
			if err != nil {
				return fmt.Errorf("--lang: %w", err)
			}

			labels := expiry.NewLabels(tag)
			for _, arg := range args {
				res := labels.Classify(expiry.FromString(arg), at)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", arg, res.Status, res.ColorClass, res.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "evaluation date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&lang, "lang", "en", "label language (en, id)")
	return cmd
}
