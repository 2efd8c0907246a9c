// Package fetcher assembles core-facing financial facts from the Yahoo
// Finance API. All field-fallback policy lives here, outside the core: the
// core only ever sees complete, validated inputs.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/model"
	"github.com/sells-group/credit-risk-cli/internal/risk"
	"github.com/sells-group/credit-risk-cli/internal/store"
	"github.com/sells-group/credit-risk-cli/pkg/yahoo"
)

const cacheKindQuoteSummary = "quote_summary"

// Options configures the market data source.
type Options struct {
	Client           yahoo.Client
	Cache            *store.Cache // nil disables caching
	CacheTTL         time.Duration
	TreasuryTicker   string  // symbol quoting the 10Y yield, e.g. ^TNX
	FallbackRiskFree float64 // used when the treasury quote is unavailable
}

// MarketDataSource implements risk.DataSource over the Yahoo Finance
// quote-summary endpoint with an optional SQLite payload cache.
type MarketDataSource struct {
	opts Options
}

// NewMarketDataSource creates a market data source.
func NewMarketDataSource(opts Options) *MarketDataSource {
	if opts.TreasuryTicker == "" {
		opts.TreasuryTicker = "^TNX"
	}
	if opts.FallbackRiskFree == 0 {
		opts.FallbackRiskFree = 0.04
	}
	return &MarketDataSource{opts: opts}
}

// Fundamentals fetches and validates the Z-Score inputs for one ticker.
// Every required field must resolve to a number; anything still missing
// after the documented fallbacks fails the ticker before the core runs.
func (s *MarketDataSource) Fundamentals(ctx context.Context, ticker string) (*risk.Fundamentals, error) {
	qs, err := s.quoteSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}
	log := zap.L().With(zap.String("ticker", ticker))

	var missing []string

	name := ticker
	industry := ""
	if qs.Price != nil && qs.Price.LongName != "" {
		name = qs.Price.LongName
	}
	if qs.AssetProfile != nil {
		industry = qs.AssetProfile.Industry
	}

	facts := model.FinancialFacts{}

	if qs.Price == nil || qs.Price.MarketCap == nil {
		missing = append(missing, "market_cap")
	} else {
		facts.MarketCap = qs.Price.MarketCap.Raw
	}

	bs := latestBalanceSheet(qs)
	if bs == nil {
		missing = append(missing, "total_assets", "total_liabilities")
	} else {
		if bs.TotalAssets == nil {
			missing = append(missing, "total_assets")
		} else {
			facts.TotalAssets = bs.TotalAssets.Raw
		}
		if bs.TotalLiab == nil {
			missing = append(missing, "total_liabilities")
		} else {
			facts.TotalLiabilities = bs.TotalLiab.Raw
		}

		// Working capital does not exist for banks: approximate with
		// CA-CL, else fall back to zero.
		switch {
		case bs.TotalCurrentAssets != nil && bs.TotalCurrentLiabilities != nil:
			facts.WorkingCapital = bs.TotalCurrentAssets.Raw - bs.TotalCurrentLiabilities.Raw
		default:
			facts.WorkingCapital = 0
			log.Warn("fetcher: working capital unavailable, using 0")
		}

		if bs.RetainedEarnings != nil {
			facts.RetainedEarnings = bs.RetainedEarnings.Raw
		} else {
			facts.RetainedEarnings = 0
			log.Warn("fetcher: retained earnings unavailable, using 0")
		}
	}

	is := latestIncomeStatement(qs)
	if is == nil {
		missing = append(missing, "ebit", "sales")
	} else {
		// EBIT fallback chain: banks report neither EBIT nor operating
		// income, so pretax income stands in. The source used is recorded
		// so the decision reasoning can be weighed accordingly.
		switch {
		case is.EBIT != nil:
			facts.EBIT = is.EBIT.Raw
			facts.EBITSource = model.EBITSourceReported
		case is.OperatingIncome != nil:
			facts.EBIT = is.OperatingIncome.Raw
			facts.EBITSource = model.EBITSourceOperatingIncome
			log.Info("fetcher: EBIT approximated with operating income")
		case is.IncomeBeforeTax != nil:
			facts.EBIT = is.IncomeBeforeTax.Raw
			facts.EBITSource = model.EBITSourcePretaxIncome
			log.Warn("fetcher: EBIT approximated with pretax income")
		default:
			missing = append(missing, "ebit")
		}

		if is.TotalRevenue != nil {
			facts.Sales = is.TotalRevenue.Raw
		} else {
			missing = append(missing, "sales")
		}
	}

	if len(missing) > 0 {
		return nil, eris.Wrapf(risk.ErrMissingData,
			"[%s] missing fields: [%s], verify the ticker has published financial statements",
			ticker, strings.Join(missing, " "))
	}

	return &risk.Fundamentals{
		Ticker:      ticker,
		CompanyName: name,
		Industry:    industry,
		Facts:       facts,
	}, nil
}

// AssetHistory fetches the multi-year total-assets series (oldest first)
// plus the latest liabilities and the risk-free rate.
func (s *MarketDataSource) AssetHistory(ctx context.Context, ticker string) (*risk.AssetHistory, error) {
	qs, err := s.quoteSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if qs.BalanceSheetHistory == nil || len(qs.BalanceSheetHistory.Statements) == 0 {
		return nil, eris.Wrapf(risk.ErrMissingData, "[%s] no balance sheet history", ticker)
	}
	statements := qs.BalanceSheetHistory.Statements

	// Yahoo returns newest first; the estimator wants oldest first. Years
	// without a reported figure are dropped, mirroring a dropna.
	var assets []float64
	for i := len(statements) - 1; i >= 0; i-- {
		if statements[i].TotalAssets != nil {
			assets = append(assets, statements[i].TotalAssets.Raw)
		}
	}

	if statements[0].TotalLiab == nil {
		return nil, eris.Wrapf(risk.ErrMissingData, "[%s] latest total liabilities not reported", ticker)
	}

	return &risk.AssetHistory{
		TotalAssets:       assets,
		LatestLiabilities: statements[0].TotalLiab.Raw,
		RiskFreeRate:      s.riskFreeRate(ctx),
	}, nil
}

// riskFreeRate quotes the 10Y treasury yield. Failure downgrades to the
// configured fallback with a warning rather than failing the analysis.
func (s *MarketDataSource) riskFreeRate(ctx context.Context) float64 {
	qs, err := s.quoteSummary(ctx, s.opts.TreasuryTicker)
	if err == nil && qs.Price != nil && qs.Price.RegularMarketPrice != nil {
		return qs.Price.RegularMarketPrice.Raw / 100.0
	}

	zap.L().Warn("fetcher: treasury yield unavailable, using fallback risk-free rate",
		zap.String("treasury_ticker", s.opts.TreasuryTicker),
		zap.Float64("fallback", s.opts.FallbackRiskFree),
		zap.Error(err),
	)
	return s.opts.FallbackRiskFree
}

// quoteSummary fetches all modules for a symbol, serving from and feeding
// the payload cache when one is configured.
func (s *MarketDataSource) quoteSummary(ctx context.Context, symbol string) (*yahoo.QuoteSummary, error) {
	if s.opts.Cache != nil {
		payload, ok, err := s.opts.Cache.Get(ctx, symbol, cacheKindQuoteSummary, s.opts.CacheTTL)
		if err != nil {
			zap.L().Warn("fetcher: cache read failed", zap.String("symbol", symbol), zap.Error(err))
		} else if ok {
			var qs yahoo.QuoteSummary
			if err := json.Unmarshal(payload, &qs); err == nil {
				return &qs, nil
			}
			zap.L().Warn("fetcher: discarding corrupt cache entry", zap.String("symbol", symbol))
		}
	}

	qs, err := s.opts.Client.QuoteSummary(ctx, symbol, []string{
		yahoo.ModulePrice,
		yahoo.ModuleAssetProfile,
		yahoo.ModuleBalanceSheetHistory,
		yahoo.ModuleIncomeStatementHistory,
	})
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("fetch quote summary for %s", symbol))
	}

	if s.opts.Cache != nil {
		payload, err := json.Marshal(qs)
		if err == nil {
			if err := s.opts.Cache.Put(ctx, symbol, cacheKindQuoteSummary, payload); err != nil {
				zap.L().Warn("fetcher: cache write failed", zap.String("symbol", symbol), zap.Error(err))
			}
		}
	}

	return qs, nil
}

func latestBalanceSheet(qs *yahoo.QuoteSummary) *yahoo.BalanceSheetStatement {
	if qs.BalanceSheetHistory == nil || len(qs.BalanceSheetHistory.Statements) == 0 {
		return nil
	}
	return &qs.BalanceSheetHistory.Statements[0]
}

func latestIncomeStatement(qs *yahoo.QuoteSummary) *yahoo.IncomeStatement {
	if qs.IncomeStatementHistory == nil || len(qs.IncomeStatementHistory.Statements) == 0 {
		return nil
	}
	return &qs.IncomeStatementHistory.Statements[0]
}
