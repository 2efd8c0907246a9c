package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/credit-risk-cli/internal/model"
)

func TestClassifyManufacturing(t *testing.T) {
	p := Classify("Semiconductor Equipment & Materials", 1000)

	assert.Equal(t, model.CompanyTypeManufacturing, p.CompanyType)
	assert.Equal(t, model.ModelVersionZ, p.ModelVersion)
	assert.True(t, p.MertonApplicable)
}

func TestClassifyNonManufacturing(t *testing.T) {
	p := Classify("Internet Content & Information", 1000)

	assert.Equal(t, model.CompanyTypeNonManufacturing, p.CompanyType)
	assert.Equal(t, model.ModelVersionZDoublePrime, p.ModelVersion)
}

func TestClassifyFinancial(t *testing.T) {
	p := Classify("Banks - Diversified", 1000)

	assert.Equal(t, model.CompanyTypeFinancial, p.CompanyType)
	assert.Equal(t, model.ModelVersionZDoublePrime, p.ModelVersion)
}

func TestClassifyFinancialBeatsManufacturing(t *testing.T) {
	// "auto" is a manufacturing keyword, but the financial check runs first.
	p := Classify("Auto Insurance", 1000)

	assert.Equal(t, model.CompanyTypeFinancial, p.CompanyType)
	assert.Equal(t, model.ModelVersionZDoublePrime, p.ModelVersion)
}

func TestClassifyEmptyIndustryDefaults(t *testing.T) {
	for _, industry := range []string{"", "   "} {
		p := Classify(industry, 1000)

		assert.Equal(t, model.CompanyTypeNonManufacturing, p.CompanyType)
		assert.Equal(t, model.ModelVersionZDoublePrime, p.ModelVersion)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	p := Classify("OIL & GAS MIDSTREAM", 1000)

	assert.Equal(t, model.CompanyTypeManufacturing, p.CompanyType)
}

func TestMertonApplicable(t *testing.T) {
	assert.True(t, MertonApplicable(1))
	assert.False(t, MertonApplicable(0))
	assert.False(t, MertonApplicable(-500))
}

func TestClassifyNoLiabilitiesFlagsMertonInapplicable(t *testing.T) {
	p := Classify("Software - Infrastructure", 0)

	assert.False(t, p.MertonApplicable)
}
