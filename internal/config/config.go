package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Yahoo  YahooConfig  `yaml:"yahoo" mapstructure:"yahoo"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Risk   RiskConfig   `yaml:"risk" mapstructure:"risk"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// YahooConfig configures the Yahoo Finance market-data client.
type YahooConfig struct {
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent        string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries       int     `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSec   float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	TreasuryTicker   string  `yaml:"treasury_ticker" mapstructure:"treasury_ticker"`
	FallbackRiskFree float64 `yaml:"fallback_risk_free" mapstructure:"fallback_risk_free"`
}

// CacheConfig configures the fundamentals cache.
type CacheConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	Disabled bool   `yaml:"disabled" mapstructure:"disabled"`
}

// ZScoreCoefficients holds one variant's weights for the five ratios.
type ZScoreCoefficients struct {
	X1 float64 `yaml:"x1" mapstructure:"x1"`
	X2 float64 `yaml:"x2" mapstructure:"x2"`
	X3 float64 `yaml:"x3" mapstructure:"x3"`
	X4 float64 `yaml:"x4" mapstructure:"x4"`
	X5 float64 `yaml:"x5" mapstructure:"x5"`
}

// ZoneThresholds holds one variant's zone cut-offs. Scores strictly above
// Safe are safe, strictly below Distress are distressed, anything else is
// grey.
type ZoneThresholds struct {
	Safe     float64 `yaml:"safe" mapstructure:"safe"`
	Distress float64 `yaml:"distress" mapstructure:"distress"`
}

// RiskConfig names every model constant so none hides as a literal: Z / Z''
// coefficient sets, zone thresholds, Merton PD thresholds, history minimums,
// and the default horizon.
type RiskConfig struct {
	ZCoefficients            ZScoreCoefficients `yaml:"z_coefficients" mapstructure:"z_coefficients"`
	ZDoublePrimeCoefficients ZScoreCoefficients `yaml:"z_double_prime_coefficients" mapstructure:"z_double_prime_coefficients"`
	ZThresholds              ZoneThresholds     `yaml:"z_thresholds" mapstructure:"z_thresholds"`
	ZDoublePrimeThresholds   ZoneThresholds     `yaml:"z_double_prime_thresholds" mapstructure:"z_double_prime_thresholds"`
	PDSafe                   float64            `yaml:"pd_safe" mapstructure:"pd_safe"`
	PDDistress               float64            `yaml:"pd_distress" mapstructure:"pd_distress"`
	MinHistoryYears          int                `yaml:"min_history_years" mapstructure:"min_history_years"`
	PreferredHistoryYears    int                `yaml:"preferred_history_years" mapstructure:"preferred_history_years"`
	HorizonYears             float64            `yaml:"horizon_years" mapstructure:"horizon_years"`
}

// BatchConfig configures batch analysis.
type BatchConfig struct {
	MaxConcurrentTickers int `yaml:"max_concurrent_tickers" mapstructure:"max_concurrent_tickers"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CREDITRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_tickers", 4)
	v.SetDefault("yahoo.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("yahoo.user_agent", "credit-risk-cli/1.0")
	v.SetDefault("yahoo.timeout_secs", 30)
	v.SetDefault("yahoo.max_retries", 3)
	v.SetDefault("yahoo.requests_per_sec", 2)
	v.SetDefault("yahoo.treasury_ticker", "^TNX")
	v.SetDefault("yahoo.fallback_risk_free", 0.04)
	v.SetDefault("cache.path", "creditrisk.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.disabled", false)

	// Altman coefficient sets and zone thresholds.
	v.SetDefault("risk.z_coefficients.x1", 1.2)
	v.SetDefault("risk.z_coefficients.x2", 1.4)
	v.SetDefault("risk.z_coefficients.x3", 3.3)
	v.SetDefault("risk.z_coefficients.x4", 0.6)
	v.SetDefault("risk.z_coefficients.x5", 1.0)
	v.SetDefault("risk.z_double_prime_coefficients.x1", 6.56)
	v.SetDefault("risk.z_double_prime_coefficients.x2", 3.26)
	v.SetDefault("risk.z_double_prime_coefficients.x3", 6.72)
	v.SetDefault("risk.z_double_prime_coefficients.x4", 1.05)
	v.SetDefault("risk.z_double_prime_coefficients.x5", 0.0)
	v.SetDefault("risk.z_thresholds.safe", 2.99)
	v.SetDefault("risk.z_thresholds.distress", 1.81)
	v.SetDefault("risk.z_double_prime_thresholds.safe", 2.60)
	v.SetDefault("risk.z_double_prime_thresholds.distress", 1.10)

	// Merton PD thresholds and history requirements.
	v.SetDefault("risk.pd_safe", 0.02)
	v.SetDefault("risk.pd_distress", 0.05)
	v.SetDefault("risk.min_history_years", 2)
	v.SetDefault("risk.preferred_history_years", 3)
	v.SetDefault("risk.horizon_years", 1.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if c.Batch.MaxConcurrentTickers < 1 || c.Batch.MaxConcurrentTickers > 32 {
		errs = append(errs, "batch.max_concurrent_tickers must be between 1 and 32")
	}
	if c.Yahoo.TimeoutSecs <= 0 {
		errs = append(errs, "yahoo.timeout_secs must be > 0")
	}
	if c.Yahoo.RequestsPerSec <= 0 {
		errs = append(errs, "yahoo.requests_per_sec must be > 0")
	}
	if c.Risk.PDSafe <= 0 || c.Risk.PDDistress <= c.Risk.PDSafe {
		errs = append(errs, "risk.pd_distress must be > risk.pd_safe > 0")
	}
	for _, t := range []struct {
		name string
		th   ZoneThresholds
	}{
		{"risk.z_thresholds", c.Risk.ZThresholds},
		{"risk.z_double_prime_thresholds", c.Risk.ZDoublePrimeThresholds},
	} {
		if t.th.Safe <= t.th.Distress {
			errs = append(errs, fmt.Sprintf("%s.safe must be > %s.distress", t.name, t.name))
		}
	}
	if c.Risk.MinHistoryYears < 2 {
		errs = append(errs, "risk.min_history_years must be >= 2")
	}
	if c.Risk.PreferredHistoryYears < c.Risk.MinHistoryYears {
		errs = append(errs, "risk.preferred_history_years must be >= risk.min_history_years")
	}
	if c.Risk.HorizonYears <= 0 {
		errs = append(errs, "risk.horizon_years must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
