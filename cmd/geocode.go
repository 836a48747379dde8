package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/export"
	"github.com/sells-group/trialmap/internal/pipeline"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve facility coordinates for assembled rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rows, raceKeys, err := export.ReadDataset(cfg.Output.DatasetCSV)
		if err != nil {
			return err
		}

		rules, err := loadRules()
		if err != nil {
			return err
		}

		client, closeCache, err := geocoder(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		stats := pipeline.GeocodeRows(ctx, rows, client, rules)
		if err := export.WriteDataset(cfg.Output.DatasetCSV, rows, raceKeys); err != nil {
			return err
		}

		calls, hits, misses := client.Stats()
		zap.L().Info("geocode complete",
			zap.Int("planned", stats.Planned),
			zap.Int("skipped", stats.Skipped),
			zap.Int("resolved", stats.Resolved),
			zap.Int("no_results", stats.NoResults),
			zap.Int("failed", stats.Failed),
			zap.Int("external_calls", calls),
			zap.Int("cache_hits", hits),
			zap.Int("cache_misses", misses),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
