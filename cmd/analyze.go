package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/report"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <ticker>",
	Short: "Run the credit assessment for a single ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Analyzer.Analyze(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		zap.L().Info("analysis complete",
			zap.String("ticker", result.Ticker),
			zap.String("decision", string(result.Final.Decision)),
		)

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		report.NewRenderer(os.Stdout).Detail(result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON instead of a report")
	rootCmd.AddCommand(analyzeCmd)
}
