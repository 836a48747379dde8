package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trialmap/pkg/ctgov"
)

var (
	fetchOut   string
	fetchForce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch matching studies from ClinicalTrials.gov",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		out := fetchOut
		if out == "" {
			out = cfg.Output.RawJSON
		}
		if !fetchForce {
			if _, err := os.Stat(out); err == nil {
				zap.L().Info("raw studies file exists, skipping fetch",
					zap.String("path", out),
				)
				return nil
			}
		}

		client := registryClient()
		studies, err := client.Search(ctx, cfg.Pipeline.Keyword, cfg.Pipeline.Country)
		if err != nil {
			if len(studies) == 0 {
				return eris.Wrap(err, "search registry")
			}
			// Partial results are still worth keeping.
			zap.L().Warn("search ended early, saving partial results",
				zap.Int("studies", len(studies)),
				zap.Error(err),
			)
		}

		if err := ctgov.SaveRaw(out, studies); err != nil {
			return err
		}

		zap.L().Info("fetch complete",
			zap.Int("studies", len(studies)),
			zap.String("path", out),
		)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "output path (default from config)")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "fetch even if the output file already exists")
	rootCmd.AddCommand(fetchCmd)
}
