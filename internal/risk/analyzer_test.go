package risk

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/credit-risk-cli/internal/model"
)

// stubSource is an in-memory DataSource for orchestration tests.
type stubSource struct {
	fundamentals map[string]*Fundamentals
	history      map[string]*AssetHistory
	fundErr      map[string]error
	histErr      map[string]error
}

func (s *stubSource) Fundamentals(_ context.Context, ticker string) (*Fundamentals, error) {
	if err, ok := s.fundErr[ticker]; ok {
		return nil, err
	}
	f, ok := s.fundamentals[ticker]
	if !ok {
		return nil, eris.Wrapf(ErrMissingData, "no fundamentals for %s", ticker)
	}
	return f, nil
}

func (s *stubSource) AssetHistory(_ context.Context, ticker string) (*AssetHistory, error) {
	if err, ok := s.histErr[ticker]; ok {
		return nil, err
	}
	h, ok := s.history[ticker]
	if !ok {
		return nil, eris.Wrapf(ErrMissingData, "no asset history for %s", ticker)
	}
	return h, nil
}

func healthyManufacturer(ticker string) *Fundamentals {
	return &Fundamentals{
		Ticker:      ticker,
		CompanyName: ticker + " Industries",
		Industry:    "Specialty Industrial Machinery",
		Facts: model.FinancialFacts{
			WorkingCapital:   2000,
			TotalAssets:      10000,
			RetainedEarnings: 4000,
			EBIT:             1500,
			MarketCap:        20000,
			TotalLiabilities: 4000,
			Sales:            12000,
		},
	}
}

func steadyHistory() *AssetHistory {
	return &AssetHistory{
		TotalAssets:       []float64{9000, 9500, 9200, 10000},
		LatestLiabilities: 4000,
		RiskFreeRate:      0.04,
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	src := &stubSource{
		fundamentals: map[string]*Fundamentals{"ACME": healthyManufacturer("ACME")},
		history:      map[string]*AssetHistory{"ACME": steadyHistory()},
	}
	analyzer := NewAnalyzer(testRiskConfig(), src)

	result, err := analyzer.Analyze(context.Background(), "acme ")
	require.NoError(t, err)

	assert.Equal(t, "ACME", result.Ticker)
	assert.Equal(t, "ACME Industries", result.CompanyName)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, model.CompanyTypeManufacturing, result.Profile.CompanyType)
	assert.Equal(t, model.ModelVersionZ, result.ZScore.ModelVersion)
	assert.Positive(t, result.ZScore.Score)
	require.NotNil(t, result.Merton)
	assert.Equal(t, 1.0, result.Merton.Result.Horizon)
	assert.NotEmpty(t, result.Final.Decision)
	assert.Contains(t, result.Final.Basis, "Z-Score")
	assert.Contains(t, result.Final.Basis, "Merton")
}

func TestAnalyzeMertonInapplicable(t *testing.T) {
	// Negative liabilities: Z'' still computes (X4 over a negative
	// denominator) but Merton has no default barrier to work with.
	f := &Fundamentals{
		Ticker:      "NOLIAB",
		CompanyName: "No Liabilities Corp",
		Industry:    "Software - Application",
		Facts: model.FinancialFacts{
			WorkingCapital:   500,
			TotalAssets:      2000,
			RetainedEarnings: 300,
			EBIT:             250,
			MarketCap:        5000,
			TotalLiabilities: -100,
			Sales:            1000,
		},
	}
	src := &stubSource{fundamentals: map[string]*Fundamentals{"NOLIAB": f}}
	analyzer := NewAnalyzer(testRiskConfig(), src)

	result, err := analyzer.Analyze(context.Background(), "NOLIAB")
	require.NoError(t, err)

	assert.False(t, result.Profile.MertonApplicable)
	assert.Nil(t, result.Merton)
	assert.Equal(t, "Z-Score only (Merton not applicable)", result.Final.Basis)
	assert.Equal(t, result.ZDecision.Decision, result.Final.Decision)
}

func TestAnalyzeDegenerateInputPropagates(t *testing.T) {
	f := healthyManufacturer("ZERO")
	f.Facts.TotalAssets = 0
	src := &stubSource{fundamentals: map[string]*Fundamentals{"ZERO": f}}
	analyzer := NewAnalyzer(testRiskConfig(), src)

	_, err := analyzer.Analyze(context.Background(), "ZERO")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrDegenerateInput))
}

func TestAnalyzeThinHistoryCarriesWarning(t *testing.T) {
	src := &stubSource{
		fundamentals: map[string]*Fundamentals{"ACME": healthyManufacturer("ACME")},
		history: map[string]*AssetHistory{"ACME": {
			TotalAssets:       []float64{9000, 10000},
			LatestLiabilities: 4000,
			RiskFreeRate:      0.04,
		}},
	}
	analyzer := NewAnalyzer(testRiskConfig(), src)

	result, err := analyzer.Analyze(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "may not be robust")
}

func TestAnalyzeManyIsolatesFailures(t *testing.T) {
	src := &stubSource{
		fundamentals: map[string]*Fundamentals{
			"GOOD1": healthyManufacturer("GOOD1"),
			"GOOD2": healthyManufacturer("GOOD2"),
		},
		history: map[string]*AssetHistory{
			"GOOD1": steadyHistory(),
			"GOOD2": steadyHistory(),
		},
		fundErr: map[string]error{
			"BAD": eris.Wrap(ErrMissingData, "missing fields: [ebit market_cap]"),
		},
	}
	analyzer := NewAnalyzer(testRiskConfig(), src)

	items := analyzer.AnalyzeMany(context.Background(), []string{"GOOD1", "BAD", "GOOD2"})
	require.Len(t, items, 3)

	// Input order preserved, only the middle ticker degraded.
	assert.Equal(t, "GOOD1", items[0].Ticker)
	assert.False(t, items[0].Failed())
	require.NotNil(t, items[0].Result)

	assert.Equal(t, "BAD", items[1].Ticker)
	assert.True(t, items[1].Failed())
	assert.Nil(t, items[1].Result)
	assert.Contains(t, items[1].Error, "missing fields")

	assert.Equal(t, "GOOD2", items[2].Ticker)
	assert.False(t, items[2].Failed())
}

func TestAnalyzeManyEmptyInput(t *testing.T) {
	analyzer := NewAnalyzer(testRiskConfig(), &stubSource{})
	items := analyzer.AnalyzeMany(context.Background(), nil)
	assert.Empty(t, items)
}
