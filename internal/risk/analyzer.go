package risk

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/config"
	"github.com/sells-group/credit-risk-cli/internal/model"
)

// Fundamentals is the fetcher-side contract for the Z-Score stage: company
// identity plus a complete snapshot of accounting facts. Fetchers must fail
// on missing required fields before handing data over.
type Fundamentals struct {
	Ticker      string
	CompanyName string
	Industry    string
	Facts       model.FinancialFacts
}

// AssetHistory is the fetcher-side contract for the Merton stage: the
// multi-year total-assets series (oldest first), the latest liabilities, and
// the risk-free rate carried for reporting.
type AssetHistory struct {
	TotalAssets       []float64
	LatestLiabilities float64
	RiskFreeRate      float64
}

// DataSource retrieves raw financial data for one ticker. Implementations
// own all I/O, retries, and field-fallback policy; the core only computes.
type DataSource interface {
	Fundamentals(ctx context.Context, ticker string) (*Fundamentals, error)
	AssetHistory(ctx context.Context, ticker string) (*AssetHistory, error)
}

// Analyzer sequences classification, Z-Score, Merton, and reconciliation for
// one or many tickers. Stages run in a strict order; the Merton stage can be
// skipped but never reordered.
type Analyzer struct {
	cfg  config.RiskConfig
	data DataSource
}

// NewAnalyzer creates an Analyzer over the given data source.
func NewAnalyzer(cfg config.RiskConfig, data DataSource) *Analyzer {
	return &Analyzer{cfg: cfg, data: data}
}

// Analyze runs the full assessment for a single ticker. Any stage error
// aborts this ticker's analysis and propagates to the caller unmodified.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (*model.AnalysisResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	log := zap.L().With(zap.String("ticker", ticker))
	log.Info("analyze: starting credit assessment")

	fundamentals, err := a.data.Fundamentals(ctx, ticker)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze %s: fetch fundamentals", ticker)
	}

	profile := Classify(fundamentals.Industry, fundamentals.Facts.TotalLiabilities)
	log.Info("analyze: classified",
		zap.String("company_type", string(profile.CompanyType)),
		zap.String("model_version", string(profile.ModelVersion)),
	)

	zEngine, err := NewZScoreEngine(a.cfg, profile.ModelVersion)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze %s", ticker)
	}
	zResult, err := zEngine.Compute(fundamentals.Facts)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze %s: z-score", ticker)
	}
	zDecision, err := EvaluateZScore(zResult, a.cfg)
	if err != nil {
		return nil, eris.Wrapf(err, "analyze %s: z-score decision", ticker)
	}
	log.Info("analyze: z-score computed",
		zap.Float64("z_score", zResult.Score),
		zap.String("decision", string(zDecision.Decision)),
	)

	result := &model.AnalysisResult{
		RunID:       uuid.New().String(),
		Ticker:      ticker,
		CompanyName: fundamentals.CompanyName,
		Profile:     profile,
		ZScore:      zResult,
		ZDecision:   zDecision,
		AnalyzedAt:  time.Now().UTC(),
	}

	if profile.MertonApplicable {
		history, err := a.data.AssetHistory(ctx, ticker)
		if err != nil {
			return nil, eris.Wrapf(err, "analyze %s: fetch asset history", ticker)
		}

		dynamics, warnings, err := EstimateAssetDynamics(
			ticker, history.TotalAssets, history.LatestLiabilities, history.RiskFreeRate, a.cfg)
		if err != nil {
			return nil, eris.Wrapf(err, "analyze %s: asset dynamics", ticker)
		}
		result.Warnings = append(result.Warnings, warnings...)

		mResult, err := ComputeMerton(dynamics)
		if err != nil {
			return nil, eris.Wrapf(err, "analyze %s: merton", ticker)
		}
		mDecision := EvaluateMerton(mResult, a.cfg)
		log.Info("analyze: merton computed",
			zap.Float64("dd", mResult.DD),
			zap.Float64("pd_pct", mResult.PDPct),
			zap.String("decision", string(mDecision.Decision)),
		)

		result.Merton = &model.MertonAssessment{Result: mResult, Decision: mDecision}
		result.Final = Combine(zDecision, &mDecision)
	} else {
		log.Info("analyze: merton not applicable, skipping")
		result.Final = Combine(zDecision, nil)
	}

	log.Info("analyze: complete", zap.String("final_decision", string(result.Final.Decision)))
	return result, nil
}

// AnalyzeMany runs Analyze for each ticker in input order, converting any
// per-ticker failure into an error record instead of aborting the batch.
// This is the only layer that catches core errors.
func (a *Analyzer) AnalyzeMany(ctx context.Context, tickers []string) []model.BatchItem {
	items := make([]model.BatchItem, 0, len(tickers))
	for _, ticker := range tickers {
		normalized := strings.ToUpper(strings.TrimSpace(ticker))
		result, err := a.Analyze(ctx, normalized)
		if err != nil {
			zap.L().Error("analyze: ticker failed",
				zap.String("ticker", normalized),
				zap.Error(err),
			)
			items = append(items, model.BatchItem{Ticker: normalized, Error: err.Error()})
			continue
		}
		items = append(items, model.BatchItem{Ticker: normalized, Result: result})
	}
	return items
}
