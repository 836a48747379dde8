package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/export"
	"github.com/sells-group/trialmap/internal/model"
	"github.com/sells-group/trialmap/internal/pipeline"
	"github.com/sells-group/trialmap/internal/render"
	"github.com/sells-group/trialmap/pkg/ctgov"
)

var (
	runRefresh bool
	runNoGeo   bool
	runMapName string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: fetch, classify, geocode, render, export",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Reuse a previously fetched raw file unless asked to refresh.
		var studies []model.StudyRecord
		if _, statErr := os.Stat(cfg.Output.RawJSON); statErr == nil && !runRefresh {
			var err error
			studies, err = ctgov.LoadRaw(cfg.Output.RawJSON)
			if err != nil {
				return err
			}
			zap.L().Info("reusing fetched studies",
				zap.Int("studies", len(studies)),
				zap.String("path", cfg.Output.RawJSON),
			)
		} else {
			var err error
			studies, err = registryClient().Search(ctx, cfg.Pipeline.Keyword, cfg.Pipeline.Country)
			if err != nil {
				if len(studies) == 0 {
					return eris.Wrap(err, "search registry")
				}
				zap.L().Warn("search ended early, continuing with partial results",
					zap.Int("studies", len(studies)),
					zap.Error(err),
				)
			}
			if err := ctgov.SaveRaw(cfg.Output.RawJSON, studies); err != nil {
				return err
			}
		}

		rules, err := loadRules()
		if err != nil {
			return err
		}

		p := pipeline.New(rules, detailOptions(), nil)
		if !runNoGeo {
			client, closeCache, err := geocoder(ctx)
			if err != nil {
				return err
			}
			defer closeCache()
			p = pipeline.New(rules, detailOptions(), client)
		}

		rows, summary := p.Run(ctx, studies)

		if err := export.WriteDataset(cfg.Output.DatasetCSV, rows, summary.Assembly.RaceKeys); err != nil {
			return err
		}
		unparsed := pipeline.UnparsedRowsOf(studies, detailOptions(), rules)
		if err := export.WriteUnparsed(cfg.Output.UnparsedCSV, unparsed); err != nil {
			return err
		}
		if err := export.WriteDatasetXLSX(cfg.Output.DatasetXLSX, rows, summary.Assembly.RaceKeys); err != nil {
			return err
		}

		locations := render.GroupLocations(rows)
		if err := render.WriteMap(cfg.Output.MapHTML, runMapName, locations, summary.Assembly.RaceKeys); err != nil {
			return err
		}
		if err := render.WriteGeoJSON(cfg.Output.GeoJSON, locations); err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, pipeline.FormatReport(summary))
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runRefresh, "refresh", false, "re-fetch studies even if the raw file already exists")
	runCmd.Flags().BoolVar(&runNoGeo, "no-geocode", false, "skip the geocoding stage")
	runCmd.Flags().StringVar(&runMapName, "title", "Fitzpatrick Skin Type Trials", "map page title")
	rootCmd.AddCommand(runCmd)
}
