package risk

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/credit-risk-cli/internal/model"
)

// manufacturingKeywords identify industries scored with the original Z
// variant. Substring match against the lower-cased industry descriptor.
var manufacturingKeywords = []string{
	"manufactur", "auto", "aerospace", "defense", "steel", "chemical",
	"semiconductor", "electronic", "machinery", "equipment", "textile",
	"paper", "packaging", "rubber", "plastic", "metal", "mining",
	"oil", "gas", "energy", "pharmaceutical", "drug", "food", "beverage",
	"tobacco", "furniture", "appliance", "vehicle", "aircraft", "ship",
}

// financialKeywords identify the financial sector. Checked before the
// manufacturing list, so "auto insurance" classifies as financial.
var financialKeywords = []string{
	"bank", "insurance", "financial", "asset management", "investment",
	"credit", "mortgage", "reit", "fund", "brokerage", "capital markets",
}

// Classify maps a free-text industry descriptor and the reported total
// liabilities to a company type, Z-Score variant, and Merton applicability.
// An empty descriptor falls back to non-manufacturing / Z''.
func Classify(industry string, totalLiabilities float64) model.IndustryProfile {
	normalized := strings.ToLower(strings.TrimSpace(industry))

	profile := model.IndustryProfile{
		Industry:         industry,
		MertonApplicable: MertonApplicable(totalLiabilities),
	}

	switch {
	case normalized == "":
		zap.L().Info("classify: industry unavailable, defaulting to Z''")
		profile.CompanyType = model.CompanyTypeNonManufacturing
		profile.ModelVersion = model.ModelVersionZDoublePrime

	case containsAny(normalized, financialKeywords):
		zap.L().Warn("classify: financial sector, Z-Score has limited interpretability, using Z''",
			zap.String("industry", normalized),
		)
		profile.CompanyType = model.CompanyTypeFinancial
		profile.ModelVersion = model.ModelVersionZDoublePrime

	case containsAny(normalized, manufacturingKeywords):
		profile.CompanyType = model.CompanyTypeManufacturing
		profile.ModelVersion = model.ModelVersionZ

	default:
		profile.CompanyType = model.CompanyTypeNonManufacturing
		profile.ModelVersion = model.ModelVersionZDoublePrime
	}

	return profile
}

// MertonApplicable reports whether the Merton model can run: it needs a
// positive debt level for the default barrier.
func MertonApplicable(totalLiabilities float64) bool {
	if totalLiabilities <= 0 {
		zap.L().Warn("classify: no reported liabilities, Merton not applicable")
		return false
	}
	return true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
