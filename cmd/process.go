package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/export"
	"github.com/sells-group/trialmap/internal/pipeline"
	"github.com/sells-group/trialmap/pkg/ctgov"
)

var processIn string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Classify and assemble rows from fetched studies",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := processIn
		if in == "" {
			in = cfg.Output.RawJSON
		}
		studies, err := ctgov.LoadRaw(in)
		if err != nil {
			return err
		}

		rules, err := loadRules()
		if err != nil {
			return err
		}

		result := pipeline.AssembleRows(studies, detailOptions(), rules)
		if err := export.WriteDataset(cfg.Output.DatasetCSV, result.Rows, result.RaceKeys); err != nil {
			return err
		}

		unparsed := pipeline.UnparsedRowsOf(studies, detailOptions(), rules)
		if err := export.WriteUnparsed(cfg.Output.UnparsedCSV, unparsed); err != nil {
			return err
		}

		zap.L().Info("process complete",
			zap.Int("studies", result.StudiesIn),
			zap.Int("rows", len(result.Rows)),
			zap.Int("unparsed", len(unparsed)),
			zap.String("dataset", cfg.Output.DatasetCSV),
		)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processIn, "in", "", "raw studies JSON path (default from config)")
	rootCmd.AddCommand(processCmd)
}
