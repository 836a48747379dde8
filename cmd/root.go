package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trialmap",
	Short: "Fitzpatrick skin-type clinical trial mapping pipeline",
	Long:  "Fetches clinical trials whose eligibility criteria mention Fitzpatrick skin types, classifies the required types, geocodes trial facilities, and renders an interactive map.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
