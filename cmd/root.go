package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "credit-risk-cli",
	Short: "Corporate credit risk assessment",
	Long:  "Assesses corporate credit risk by combining the Altman Z-Score with the Merton structural model and merging both into a conservative credit decision.",
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
