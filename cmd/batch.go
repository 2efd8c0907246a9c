package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/credit-risk-cli/internal/model"
	"github.com/sells-group/credit-risk-cli/internal/report"
)

var (
	batchTickers string
	batchFile    string
	batchXLSX    string
	batchJSON    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assess a list of tickers",
	Long:  "Assesses every ticker from --tickers or a watchlist file. One ticker failing never aborts the batch; results keep the input order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		tickers, err := collectTickers(batchTickers, batchFile)
		if err != nil {
			return err
		}
		if len(tickers) == 0 {
			zap.L().Info("no tickers to analyze")
			return nil
		}

		env, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		items := runBatch(ctx, tickers, cfg.Batch.MaxConcurrentTickers, env.Analyzer.Analyze)

		var succeeded, failed int
		for _, item := range items {
			if item.Failed() {
				failed++
			} else {
				succeeded++
			}
		}
		zap.L().Info("batch complete",
			zap.Int("succeeded", succeeded),
			zap.Int("failed", failed),
		)

		if batchXLSX != "" {
			if err := report.WriteXLSX(batchXLSX, items); err != nil {
				return eris.Wrap(err, "write xlsx")
			}
			zap.L().Info("xlsx written", zap.String("path", batchXLSX))
		}

		if batchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		report.NewRenderer(os.Stdout).Summary(items)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchTickers, "tickers", "", "comma-separated ticker symbols")
	batchCmd.Flags().StringVar(&batchFile, "file", "", "watchlist YAML file")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "also write results to this XLSX file")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print results as JSON instead of a summary table")
	batchCmd.MarkFlagsOneRequired("tickers", "file")
	rootCmd.AddCommand(batchCmd)
}

// watchlist is the on-disk batch input format.
type watchlist struct {
	Tickers []string `yaml:"tickers"`
}

// collectTickers merges the --tickers flag and the watchlist file,
// normalizing and deduplicating while preserving first-seen order.
func collectTickers(flagValue, path string) ([]string, error) {
	var raw []string

	for _, t := range strings.Split(flagValue, ",") {
		raw = append(raw, t)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "read watchlist")
		}
		var wl watchlist
		if err := yaml.Unmarshal(data, &wl); err != nil {
			return nil, eris.Wrap(err, "parse watchlist")
		}
		raw = append(raw, wl.Tickers...)
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, t := range raw {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	return tickers, nil
}

// analyzeFunc is the callback signature for assessing one ticker.
type analyzeFunc func(ctx context.Context, ticker string) (*model.AnalysisResult, error)

// runBatch assesses tickers with bounded concurrency. Each result lands at
// its ticker's input index, and a failed ticker becomes an error record
// instead of aborting the batch.
func runBatch(ctx context.Context, tickers []string, concurrency int, analyze analyzeFunc) []model.BatchItem {
	zap.L().Info("processing batch",
		zap.Int("tickers", len(tickers)),
		zap.Int("concurrency", concurrency),
	)

	items := make([]model.BatchItem, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, ticker := range tickers {
		g.Go(func() error {
			result, err := analyze(gctx, ticker)
			if err != nil {
				zap.L().Error("ticker failed", zap.String("ticker", ticker), zap.Error(err))
				items[i] = model.BatchItem{Ticker: ticker, Error: err.Error()}
				return nil // don't abort batch on individual failure
			}
			items[i] = model.BatchItem{Ticker: ticker, Result: result}
			return nil
		})
	}

	_ = g.Wait()
	return items
}
