package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/fetcher"
	"github.com/sells-group/credit-risk-cli/internal/risk"
	"github.com/sells-group/credit-risk-cli/internal/store"
	"github.com/sells-group/credit-risk-cli/pkg/yahoo"
)

// analyzerEnv holds the cache, data source, and analyzer shared by the
// analyze/batch/serve commands.
type analyzerEnv struct {
	Cache    *store.Cache // nil when caching is disabled
	Analyzer *risk.Analyzer
}

// Close releases resources held by the environment.
func (ae *analyzerEnv) Close() {
	if ae.Cache != nil {
		_ = ae.Cache.Close()
	}
}

// initAnalyzer validates config, opens the payload cache, and wires the
// Yahoo client through the fetcher into an Analyzer. Callers should defer
// env.Close().
func initAnalyzer(ctx context.Context) (*analyzerEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithUserAgent(cfg.Yahoo.UserAgent),
		yahoo.WithMaxRetries(cfg.Yahoo.MaxRetries),
		yahoo.WithRateLimit(cfg.Yahoo.RequestsPerSec),
		yahoo.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Yahoo.TimeoutSecs) * time.Second,
		}),
	)

	var cache *store.Cache
	if !cfg.Cache.Disabled && cfg.Cache.Path != "" {
		c, err := store.Open(cfg.Cache.Path)
		if err != nil {
			return nil, eris.Wrap(err, "open cache")
		}
		if err := c.Migrate(ctx); err != nil {
			_ = c.Close()
			return nil, eris.Wrap(err, "migrate cache")
		}
		cache = c
	} else {
		zap.L().Debug("payload cache disabled")
	}

	source := fetcher.NewMarketDataSource(fetcher.Options{
		Client:           client,
		Cache:            cache,
		CacheTTL:         time.Duration(cfg.Cache.TTLHours) * time.Hour,
		TreasuryTicker:   cfg.Yahoo.TreasuryTicker,
		FallbackRiskFree: cfg.Yahoo.FallbackRiskFree,
	})

	return &analyzerEnv{
		Cache:    cache,
		Analyzer: risk.NewAnalyzer(cfg.Risk, source),
	}, nil
}
