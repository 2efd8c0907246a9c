package risk

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/config"
	"github.com/sells-group/credit-risk-cli/internal/model"
)

// ComputeMerton evaluates the balance-sheet Merton model:
//
//	DD = [ln(V_A/D) + (mu - sigma^2/2)*T] / (sigma*sqrt(T))
//	PD = 1 - Phi(DD)
//
// Preconditions D > 0, V_A > 0, sigma > 0 are fatal, surfaced as the
// specific violated condition rather than clamped.
func ComputeMerton(facts model.AssetDynamicsFacts) (model.MertonResult, error) {
	if facts.Debt <= 0 {
		return model.MertonResult{}, eris.Wrap(ErrDegenerateInput, "D (liabilities) must be > 0")
	}
	if facts.AssetValue <= 0 {
		return model.MertonResult{}, eris.Wrap(ErrDegenerateInput, "V_A (assets) must be > 0")
	}
	if facts.Volatility <= 0 {
		return model.MertonResult{}, eris.Wrap(ErrDegenerateInput, "sigma must be > 0")
	}

	dd := (math.Log(facts.AssetValue/facts.Debt) + (facts.Drift-facts.Volatility*facts.Volatility/2)*facts.Horizon) /
		(facts.Volatility * math.Sqrt(facts.Horizon))
	pd := 1.0 - normalCDF(dd)

	return model.MertonResult{
		AssetValue: round2(facts.AssetValue),
		Debt:       round2(facts.Debt),
		Drift:      round4(facts.Drift),
		Volatility: round4(facts.Volatility),
		Horizon:    facts.Horizon,
		DD:         round4(dd),
		PD:         round6(pd),
		PDPct:      round4(pd * 100),
	}, nil
}

// EstimateAssetDynamics derives the Merton inputs from a multi-year total
// assets series (oldest first). Drift is the mean annual fractional change,
// volatility its sample standard deviation (single-change series fall back
// to the absolute change). Returned warnings flag estimates built on thin
// history.
func EstimateAssetDynamics(ticker string, assets []float64, latestLiabilities, riskFreeRate float64, cfg config.RiskConfig) (model.AssetDynamicsFacts, []string, error) {
	if len(assets) < cfg.MinHistoryYears {
		return model.AssetDynamicsFacts{}, nil, eris.Wrapf(ErrInsufficientHistory,
			"only %d years of total assets available, minimum is %d", len(assets), cfg.MinHistoryYears)
	}

	var warnings []string
	if len(assets) < cfg.PreferredHistoryYears {
		warnings = append(warnings, fmt.Sprintf(
			"drift/volatility estimated from %d years of data (fewer than %d), may not be robust",
			len(assets), cfg.PreferredHistoryYears))
		zap.L().Warn("merton: thin asset history",
			zap.String("ticker", ticker),
			zap.Int("years", len(assets)),
		)
	}

	// Annual fractional changes, skipping steps with a zero base year.
	var changes []float64
	for i := 1; i < len(assets); i++ {
		prev := assets[i-1]
		if prev == 0 {
			continue
		}
		changes = append(changes, (assets[i]-prev)/math.Abs(prev))
	}
	if len(changes) == 0 {
		return model.AssetDynamicsFacts{}, nil, eris.Wrap(ErrInsufficientHistory,
			"no usable annual changes to estimate drift and volatility")
	}

	mu := mean(changes)
	sigma := math.Abs(changes[0])
	if len(changes) > 1 {
		sigma = sampleStdDev(changes, mu)
	}

	return model.AssetDynamicsFacts{
		Ticker:       ticker,
		AssetValue:   assets[len(assets)-1],
		Debt:         latestLiabilities,
		Drift:        mu,
		Volatility:   sigma,
		Horizon:      cfg.HorizonYears,
		RiskFreeRate: riskFreeRate,
		YearsUsed:    len(assets),
	}, warnings, nil
}

// normalCDF is the standard normal CDF via the error function identity,
// avoiding a statistics dependency.
func normalCDF(x float64) float64 {
	return (1.0 + math.Erf(x/math.Sqrt2)) / 2.0
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev is Bessel-corrected (divisor n-1). Callers guarantee n >= 2.
func sampleStdDev(xs []float64, mu float64) float64 {
	sum := 0.0
	for _, x := range xs {
		d := x - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
