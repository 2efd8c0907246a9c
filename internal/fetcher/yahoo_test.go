package fetcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/credit-risk-cli/internal/model"
	"github.com/sells-group/credit-risk-cli/internal/risk"
	"github.com/sells-group/credit-risk-cli/internal/store"
	"github.com/sells-group/credit-risk-cli/pkg/yahoo"
)

type fakeYahoo struct {
	summaries map[string]*yahoo.QuoteSummary
	errs      map[string]error
	calls     map[string]int
}

func (f *fakeYahoo) QuoteSummary(_ context.Context, symbol string, _ []string) (*yahoo.QuoteSummary, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[symbol]++
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	qs, ok := f.summaries[symbol]
	if !ok {
		return nil, eris.Wrapf(yahoo.ErrSymbolNotFound, "%s", symbol)
	}
	return qs, nil
}

func v(x float64) *yahoo.Value { return &yahoo.Value{Raw: x} }

func fullSummary() *yahoo.QuoteSummary {
	return &yahoo.QuoteSummary{
		Price: &yahoo.Price{
			LongName:  "Acme Industries Inc.",
			MarketCap: v(3000),
		},
		AssetProfile: &yahoo.AssetProfile{Industry: "Specialty Industrial Machinery"},
		BalanceSheetHistory: &yahoo.BalanceSheetHistory{
			Statements: []yahoo.BalanceSheetStatement{
				{
					TotalAssets:             v(5000),
					TotalLiab:               v(2000),
					TotalCurrentAssets:      v(1500),
					TotalCurrentLiabilities: v(1000),
					RetainedEarnings:        v(1000),
				},
				{TotalAssets: v(4500), TotalLiab: v(1900)},
				{TotalAssets: v(4200), TotalLiab: v(1800)},
			},
		},
		IncomeStatementHistory: &yahoo.IncomeStatementHistory{
			Statements: []yahoo.IncomeStatement{
				{TotalRevenue: v(7000), EBIT: v(600)},
			},
		},
	}
}

func TestFundamentals(t *testing.T) {
	src := NewMarketDataSource(Options{
		Client: &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{"ACME": fullSummary()}},
	})

	f, err := src.Fundamentals(context.Background(), "ACME")
	require.NoError(t, err)

	assert.Equal(t, "Acme Industries Inc.", f.CompanyName)
	assert.Equal(t, "Specialty Industrial Machinery", f.Industry)
	assert.InDelta(t, 500, f.Facts.WorkingCapital, 1e-9)
	assert.InDelta(t, 5000, f.Facts.TotalAssets, 1e-9)
	assert.InDelta(t, 1000, f.Facts.RetainedEarnings, 1e-9)
	assert.InDelta(t, 600, f.Facts.EBIT, 1e-9)
	assert.InDelta(t, 3000, f.Facts.MarketCap, 1e-9)
	assert.InDelta(t, 2000, f.Facts.TotalLiabilities, 1e-9)
	assert.InDelta(t, 7000, f.Facts.Sales, 1e-9)
	assert.Equal(t, model.EBITSourceReported, f.Facts.EBITSource)
}

func TestFundamentalsEBITFallbackChain(t *testing.T) {
	qs := fullSummary()
	qs.IncomeStatementHistory.Statements[0].EBIT = nil
	qs.IncomeStatementHistory.Statements[0].OperatingIncome = v(550)

	src := NewMarketDataSource(Options{
		Client: &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{"ACME": qs}},
	})

	f, err := src.Fundamentals(context.Background(), "ACME")
	require.NoError(t, err)
	assert.InDelta(t, 550, f.Facts.EBIT, 1e-9)
	assert.Equal(t, model.EBITSourceOperatingIncome, f.Facts.EBITSource)

	qs.IncomeStatementHistory.Statements[0].OperatingIncome = nil
	qs.IncomeStatementHistory.Statements[0].IncomeBeforeTax = v(480)

	f, err = src.Fundamentals(context.Background(), "ACME")
	require.NoError(t, err)
	assert.InDelta(t, 480, f.Facts.EBIT, 1e-9)
	assert.Equal(t, model.EBITSourcePretaxIncome, f.Facts.EBITSource)
}

func TestFundamentalsBankFallbacks(t *testing.T) {
	qs := fullSummary()
	bs := &qs.BalanceSheetHistory.Statements[0]
	bs.TotalCurrentAssets = nil
	bs.TotalCurrentLiabilities = nil
	bs.RetainedEarnings = nil

	src := NewMarketDataSource(Options{
		Client: &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{"BANK": qs}},
	})

	f, err := src.Fundamentals(context.Background(), "BANK")
	require.NoError(t, err)
	assert.Zero(t, f.Facts.WorkingCapital)
	assert.Zero(t, f.Facts.RetainedEarnings)
}

func TestFundamentalsMissingRequiredFields(t *testing.T) {
	qs := fullSummary()
	qs.Price.MarketCap = nil
	qs.IncomeStatementHistory.Statements[0].TotalRevenue = nil

	src := NewMarketDataSource(Options{
		Client: &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{"ACME": qs}},
	})

	_, err := src.Fundamentals(context.Background(), "ACME")
	require.Error(t, err)
	assert.True(t, eris.Is(err, risk.ErrMissingData))
	assert.Contains(t, err.Error(), "market_cap")
	assert.Contains(t, err.Error(), "sales")
}

func TestAssetHistoryOrdering(t *testing.T) {
	src := NewMarketDataSource(Options{
		Client: &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{
			"ACME": fullSummary(),
			"^TNX": {Price: &yahoo.Price{RegularMarketPrice: v(4.25)}},
		}},
	})

	h, err := src.AssetHistory(context.Background(), "ACME")
	require.NoError(t, err)

	// Statements come newest first from the API; the series flips to
	// oldest first.
	assert.Equal(t, []float64{4200, 4500, 5000}, h.TotalAssets)
	assert.InDelta(t, 2000, h.LatestLiabilities, 1e-9)
	assert.InDelta(t, 0.0425, h.RiskFreeRate, 1e-9)
}

func TestAssetHistorySkipsMissingYears(t *testing.T) {
	qs := fullSummary()
	qs.BalanceSheetHistory.Statements[1].TotalAssets = nil

	src := NewMarketDataSource(Options{
		Client: &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{"ACME": qs}},
	})

	h, err := src.AssetHistory(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, []float64{4200, 5000}, h.TotalAssets)
}

func TestAssetHistoryRiskFreeFallback(t *testing.T) {
	src := NewMarketDataSource(Options{
		Client:           &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{"ACME": fullSummary()}},
		FallbackRiskFree: 0.04,
	})

	h, err := src.AssetHistory(context.Background(), "ACME")
	require.NoError(t, err)
	assert.InDelta(t, 0.04, h.RiskFreeRate, 1e-9)
}

func TestQuoteSummaryCaching(t *testing.T) {
	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	require.NoError(t, cache.Migrate(context.Background()))

	client := &fakeYahoo{summaries: map[string]*yahoo.QuoteSummary{"ACME": fullSummary()}}
	src := NewMarketDataSource(Options{
		Client:   client,
		Cache:    cache,
		CacheTTL: time.Hour,
	})

	_, err = src.Fundamentals(context.Background(), "ACME")
	require.NoError(t, err)
	_, err = src.Fundamentals(context.Background(), "ACME")
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls["ACME"])
}

func TestFundamentalsPropagatesNotFound(t *testing.T) {
	src := NewMarketDataSource(Options{Client: &fakeYahoo{}})

	_, err := src.Fundamentals(context.Background(), "GONE")
	require.Error(t, err)
	assert.True(t, eris.Is(err, yahoo.ErrSymbolNotFound))
}
