package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/store"
)

var pruneMaxAgeHours int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the market-data payload cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cached payloads older than the TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := store.Open(cfg.Cache.Path)
		if err != nil {
			return eris.Wrap(err, "open cache")
		}
		defer cache.Close()

		if err := cache.Migrate(cmd.Context()); err != nil {
			return eris.Wrap(err, "migrate cache")
		}

		maxAge := time.Duration(pruneMaxAgeHours) * time.Hour
		if pruneMaxAgeHours == 0 {
			maxAge = time.Duration(cfg.Cache.TTLHours) * time.Hour
		}

		n, err := cache.Prune(cmd.Context(), maxAge)
		if err != nil {
			return eris.Wrap(err, "prune cache")
		}

		zap.L().Info("cache pruned",
			zap.Int64("removed", n),
			zap.Duration("max_age", maxAge),
		)
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().IntVar(&pruneMaxAgeHours, "max-age-hours", 0, "age cutoff in hours (default from config TTL)")
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
