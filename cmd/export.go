package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dataset as a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, raceKeys, err := export.ReadDataset(cfg.Output.DatasetCSV)
		if err != nil {
			return err
		}

		if err := export.WriteDatasetXLSX(cfg.Output.DatasetXLSX, rows, raceKeys); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.Int("rows", len(rows)),
			zap.String("path", cfg.Output.DatasetXLSX),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
