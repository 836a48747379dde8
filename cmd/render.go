package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/export"
	"github.com/sells-group/trialmap/internal/render"
)

var renderTitle string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the interactive map and GeoJSON from the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, raceKeys, err := export.ReadDataset(cfg.Output.DatasetCSV)
		if err != nil {
			return err
		}

		locations := render.GroupLocations(rows)
		if err := render.WriteMap(cfg.Output.MapHTML, renderTitle, locations, raceKeys); err != nil {
			return err
		}
		if err := render.WriteGeoJSON(cfg.Output.GeoJSON, locations); err != nil {
			return err
		}

		zap.L().Info("render complete",
			zap.Int("rows", len(rows)),
			zap.Int("locations", len(locations)),
			zap.String("map", cfg.Output.MapHTML),
			zap.String("geojson", cfg.Output.GeoJSON),
		)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderTitle, "title", "Fitzpatrick Skin Type Trials", "map page title")
	rootCmd.AddCommand(renderCmd)
}
