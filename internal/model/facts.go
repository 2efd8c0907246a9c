package model

// CompanyType classifies a company for Z-Score variant selection.
type CompanyType string

const (
	CompanyTypeManufacturing    CompanyType = "manufacturing"
	CompanyTypeNonManufacturing CompanyType = "non_manufacturing"
	CompanyTypeFinancial        CompanyType = "financial"
)

// ModelVersion selects the Z-Score coefficient set.
type ModelVersion string

const (
	// ModelVersionZ is the original Altman Z-Score for public manufacturers.
	ModelVersionZ ModelVersion = "Z"
	// ModelVersionZDoublePrime is the Z'' variant for non-manufacturing and
	// financial firms. The sales ratio (X5) is excluded.
	ModelVersionZDoublePrime ModelVersion = "Z_double_prime"
)

// EBITSource records which income-statement field actually backed the EBIT
// input. Banks rarely report EBIT, so the fetcher falls back to Operating
// Income and then Pretax Income; downstream consumers of the decision
// reasoning need to know when an approximation was used.
type EBITSource string

const (
	EBITSourceReported        EBITSource = "ebit"
	EBITSourceOperatingIncome EBITSource = "operating_income"
	EBITSourcePretaxIncome    EBITSource = "pretax_income"
)

// FinancialFacts is an immutable snapshot of the accounting inputs for one
// company at its most recent fiscal point. All fields are required by the
// Z-Score engine; the fetcher validates presence before handing the snapshot
// over.
type FinancialFacts struct {
	WorkingCapital   float64    `json:"working_capital"`
	TotalAssets      float64    `json:"total_assets"`
	RetainedEarnings float64    `json:"retained_earnings"`
	EBIT             float64    `json:"ebit"`
	MarketCap        float64    `json:"market_cap"`
	TotalLiabilities float64    `json:"total_liabilities"`
	Sales            float64    `json:"sales"`
	EBITSource       EBITSource `json:"ebit_source,omitempty"`
}

// AssetDynamicsFacts holds the Merton model inputs derived from a multi-year
// total-assets series: latest asset value, latest liabilities, and the drift
// and volatility of the annual fractional asset change.
type AssetDynamicsFacts struct {
	Ticker       string  `json:"ticker"`
	AssetValue   float64 `json:"asset_value"`    // V_A, most recent total assets
	Debt         float64 `json:"debt"`           // D, most recent total liabilities
	Drift        float64 `json:"drift"`          // mu
	Volatility   float64 `json:"volatility"`     // sigma
	Horizon      float64 `json:"horizon_years"`  // T
	RiskFreeRate float64 `json:"risk_free_rate"` // reported only, not used in DD
	YearsUsed    int     `json:"years_used"`     // observations behind mu/sigma
}

// IndustryProfile is the classifier output for one company.
type IndustryProfile struct {
	Industry         string       `json:"industry"`
	CompanyType      CompanyType  `json:"company_type"`
	ModelVersion     ModelVersion `json:"model_version"`
	MertonApplicable bool         `json:"merton_applicable"`
}
