package risk

import (
	"fmt"

	"github.com/sells-group/credit-risk-cli/internal/model"
)

// Combine merges the two per-model decisions into one conservative final
// decision: any DENIED denies, both APPROVED approves, anything else is an
// approval with warning. A nil Merton decision means the model was
// inapplicable and the Z-Score decision stands verbatim.
func Combine(zDecision model.ZoneDecision, mertonDecision *model.ZoneDecision) model.FinalDecision {
	if mertonDecision == nil {
		return model.FinalDecision{
			Decision: zDecision.Decision,
			Basis:    "Z-Score only (Merton not applicable)",
		}
	}

	var final model.Decision
	switch {
	case zDecision.Decision == model.DecisionDenied || mertonDecision.Decision == model.DecisionDenied:
		final = model.DecisionDenied
	case zDecision.Decision == model.DecisionApproved && mertonDecision.Decision == model.DecisionApproved:
		final = model.DecisionApproved
	default:
		final = model.DecisionApprovedWarning
	}

	return model.FinalDecision{
		Decision: final,
		Basis:    fmt.Sprintf("Z-Score: %s | Merton: %s", zDecision.Decision, mertonDecision.Decision),
	}
}
