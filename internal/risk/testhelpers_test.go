package risk

import "github.com/sells-group/credit-risk-cli/internal/config"

// testRiskConfig mirrors the viper defaults so core tests do not depend on
// config file discovery.
func testRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		ZCoefficients:            config.ZScoreCoefficients{X1: 1.2, X2: 1.4, X3: 3.3, X4: 0.6, X5: 1.0},
		ZDoublePrimeCoefficients: config.ZScoreCoefficients{X1: 6.56, X2: 3.26, X3: 6.72, X4: 1.05, X5: 0.0},
		ZThresholds:              config.ZoneThresholds{Safe: 2.99, Distress: 1.81},
		ZDoublePrimeThresholds:   config.ZoneThresholds{Safe: 2.60, Distress: 1.10},
		PDSafe:                   0.02,
		PDDistress:               0.05,
		MinHistoryYears:          2,
		PreferredHistoryYears:    3,
		HorizonYears:             1.0,
	}
}
