package model

import "time"

// Zone is the three-band risk classification shared by both models.
type Zone string

const (
	ZoneSafe     Zone = "SAFE"
	ZoneGrey     Zone = "GREY ZONE"
	ZoneDistress Zone = "DISTRESS"
)

// Decision is the credit decision a zone maps to.
type Decision string

const (
	DecisionApproved        Decision = "APPROVED"
	DecisionApprovedWarning Decision = "APPROVED WITH WARNING"
	DecisionDenied          Decision = "DENIED"
)

// ZScoreResult holds the five accounting ratios and the weighted score.
// Ratios and score are rounded to 4 decimals for reporting; X5 is forced to
// zero under the Z'' variant.
type ZScoreResult struct {
	ModelVersion ModelVersion `json:"model_version"`
	X1           float64      `json:"x1"` // working capital / total assets
	X2           float64      `json:"x2"` // retained earnings / total assets
	X3           float64      `json:"x3"` // EBIT / total assets
	X4           float64      `json:"x4"` // market cap / total liabilities
	X5           float64      `json:"x5"` // sales / total assets (Z only)
	Score        float64      `json:"z_score"`
}

// MertonResult holds distance-to-default, probability-of-default, and the
// echoed inputs. V_A and D round to 2 decimals, mu/sigma/DD to 4, PD to 6,
// and PDPct to 4.
type MertonResult struct {
	AssetValue float64 `json:"asset_value"`
	Debt       float64 `json:"debt"`
	Drift      float64 `json:"drift"`
	Volatility float64 `json:"volatility"`
	Horizon    float64 `json:"horizon_years"`
	DD         float64 `json:"distance_to_default"`
	PD         float64 `json:"probability_of_default"`
	PDPct      float64 `json:"probability_of_default_pct"`
}

// ZoneDecision is one model's threshold evaluation: the zone, the decision it
// maps to, and a reasoning string reproducible from score and thresholds.
type ZoneDecision struct {
	Zone      Zone     `json:"zone"`
	Decision  Decision `json:"decision"`
	Reasoning string   `json:"reasoning"`
}

// FinalDecision is the conservative merge of the per-model decisions.
type FinalDecision struct {
	Decision Decision `json:"decision"`
	Basis    string   `json:"basis"`
}

// MertonAssessment pairs the Merton numbers with their zone decision. Nil on
// an AnalysisResult means Merton was inapplicable for that company.
type MertonAssessment struct {
	Result   MertonResult `json:"result"`
	Decision ZoneDecision `json:"decision"`
}

// AnalysisResult is the full outcome of one successful company analysis.
type AnalysisResult struct {
	RunID       string            `json:"run_id"`
	Ticker      string            `json:"ticker"`
	CompanyName string            `json:"company_name"`
	Profile     IndustryProfile   `json:"profile"`
	ZScore      ZScoreResult      `json:"zscore"`
	ZDecision   ZoneDecision      `json:"zscore_decision"`
	Merton      *MertonAssessment `json:"merton,omitempty"`
	Final       FinalDecision     `json:"final_decision"`
	Warnings    []string          `json:"warnings,omitempty"`
	AnalyzedAt  time.Time         `json:"analyzed_at"`
}

// BatchItem is one entry of a batch run: either a populated result or an
// error record for a ticker whose analysis failed. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Ticker string          `json:"ticker"`
	Result *AnalysisResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Failed reports whether this item degraded to an error record.
func (b BatchItem) Failed() bool {
	return b.Error != ""
}
