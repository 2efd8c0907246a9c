package risk

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/credit-risk-cli/internal/config"
	"github.com/sells-group/credit-risk-cli/internal/model"
)

// ZScoreEngine computes the weighted Altman score for one variant. The
// variant is fixed at construction; an unrecognized variant is rejected
// there, before any computation.
type ZScoreEngine struct {
	version model.ModelVersion
	coeffs  config.ZScoreCoefficients
}

// NewZScoreEngine builds an engine for the given variant using the
// configured coefficient set.
func NewZScoreEngine(cfg config.RiskConfig, version model.ModelVersion) (*ZScoreEngine, error) {
	switch version {
	case model.ModelVersionZ:
		return &ZScoreEngine{version: version, coeffs: cfg.ZCoefficients}, nil
	case model.ModelVersionZDoublePrime:
		return &ZScoreEngine{version: version, coeffs: cfg.ZDoublePrimeCoefficients}, nil
	default:
		return nil, eris.Wrapf(ErrInvalidConfiguration, "unknown Z-Score variant %q", version)
	}
}

// Compute derives the five ratios and the weighted score from one snapshot
// of accounting facts. Zero total assets or liabilities is a degenerate
// input, checked before any ratio is formed. Reported values round to 4
// decimals; the weighted sum itself runs at full precision.
func (e *ZScoreEngine) Compute(facts model.FinancialFacts) (model.ZScoreResult, error) {
	if facts.TotalAssets == 0 {
		return model.ZScoreResult{}, eris.Wrap(ErrDegenerateInput, "total assets is zero")
	}
	if facts.TotalLiabilities == 0 {
		return model.ZScoreResult{}, eris.Wrap(ErrDegenerateInput, "total liabilities is zero")
	}

	x1 := facts.WorkingCapital / facts.TotalAssets
	x2 := facts.RetainedEarnings / facts.TotalAssets
	x3 := facts.EBIT / facts.TotalAssets
	x4 := facts.MarketCap / facts.TotalLiabilities
	x5 := 0.0
	if e.version == model.ModelVersionZ {
		x5 = facts.Sales / facts.TotalAssets
	}

	score := e.coeffs.X1*x1 + e.coeffs.X2*x2 + e.coeffs.X3*x3 + e.coeffs.X4*x4 + e.coeffs.X5*x5

	return model.ZScoreResult{
		ModelVersion: e.version,
		X1:           round4(x1),
		X2:           round4(x2),
		X3:           round4(x3),
		X4:           round4(x4),
		X5:           round4(x5),
		Score:        round4(score),
	}, nil
}
