package risk

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/credit-risk-cli/internal/config"
	"github.com/sells-group/credit-risk-cli/internal/model"
)

// Both models share one three-zone state machine: SAFE maps to APPROVED,
// DISTRESS to DENIED, and the grey band in between to APPROVED WITH WARNING.
// Comparisons are strict, so a score sitting exactly on a threshold lands in
// the grey zone.
func zoneFor(value float64, th config.ZoneThresholds) model.Zone {
	switch {
	case value > th.Safe:
		return model.ZoneSafe
	case value < th.Distress:
		return model.ZoneDistress
	default:
		return model.ZoneGrey
	}
}

func decisionFor(zone model.Zone) model.Decision {
	switch zone {
	case model.ZoneSafe:
		return model.DecisionApproved
	case model.ZoneDistress:
		return model.DecisionDenied
	default:
		return model.DecisionApprovedWarning
	}
}

// EvaluateZScore places a computed score in its variant's zones. The
// reasoning string embeds the score, both thresholds, and the resulting
// zone, and is reproducible from those inputs alone.
func EvaluateZScore(result model.ZScoreResult, cfg config.RiskConfig) (model.ZoneDecision, error) {
	var th config.ZoneThresholds
	var label string
	switch result.ModelVersion {
	case model.ModelVersionZ:
		th, label = cfg.ZThresholds, "Z-Score"
	case model.ModelVersionZDoublePrime:
		th, label = cfg.ZDoublePrimeThresholds, "Z''-Score"
	default:
		return model.ZoneDecision{}, eris.Wrapf(ErrInvalidConfiguration,
			"unknown Z-Score variant %q", result.ModelVersion)
	}

	zone := zoneFor(result.Score, th)
	return model.ZoneDecision{
		Zone:     zone,
		Decision: decisionFor(zone),
		Reasoning: fmt.Sprintf("%s = %.4f | Safe zone: >%g | Distress zone: <%g | Result: %s",
			label, result.Score, th.Safe, th.Distress, zone),
	}, nil
}

// EvaluateMerton places a probability of default in the fixed PD zones.
// Lower PD is safer, so the distress comparison inverts: distress sits above
// the upper threshold.
func EvaluateMerton(result model.MertonResult, cfg config.RiskConfig) model.ZoneDecision {
	var zone model.Zone
	switch {
	case result.PD < cfg.PDSafe:
		zone = model.ZoneSafe
	case result.PD > cfg.PDDistress:
		zone = model.ZoneDistress
	default:
		zone = model.ZoneGrey
	}

	return model.ZoneDecision{
		Zone:     zone,
		Decision: decisionFor(zone),
		Reasoning: fmt.Sprintf("PD = %.4f%% | DD = %.4f | Safe threshold: <%.0f%% | Distress threshold: >%.0f%% | Result: %s",
			result.PD*100, result.DD, cfg.PDSafe*100, cfg.PDDistress*100, zone),
	}
}
