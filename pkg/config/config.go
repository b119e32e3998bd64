package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv            = "STOREFRONT_APP_ENV"
	EnvLogLevel          = "STOREFRONT_LOG_LEVEL"
	EnvSourceBaseURL     = "STOREFRONT_SOURCE_BASE_URL"
	EnvSourceToken       = "STOREFRONT_SOURCE_TOKEN"
	EnvSourceTimeout     = "STOREFRONT_SOURCE_TIMEOUT"
	EnvSourceMaxRetries  = "STOREFRONT_SOURCE_MAX_RETRIES"
	EnvSourceFixture     = "STOREFRONT_SOURCE_FIXTURE"
	EnvReportsTopN       = "STOREFRONT_REPORTS_TOP_N"
	EnvReportsCommission = "STOREFRONT_REPORTS_COMMISSION_RATE"
	EnvReportsLiqPct     = "STOREFRONT_REPORTS_LIQUIDATION_DISCOUNT_PCT"
	EnvReportsPartial    = "STOREFRONT_REPORTS_ALLOW_PARTIAL"
)

type Config struct {
	App     AppConfig
	Source  SourceConfig
	Reports ReportsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Source.validateURL(); err != nil {
		return nil, err
	}
	if err := cfg.Reports.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SourceConfig points the data-fetching layer at the storefront REST API, or at a JSON
// fixture standing in for it.
type SourceConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_SOURCE_BASE_URL"`
	Fixture        string        `envconfig:"STOREFRONT_SOURCE_FIXTURE"`
	Token          string        `envconfig:"STOREFRONT_SOURCE_TOKEN"`
	Timeout        time.Duration `envconfig:"STOREFRONT_SOURCE_TIMEOUT" default:"10s"`
	MaxRetries     uint64        `envconfig:"STOREFRONT_SOURCE_MAX_RETRIES" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"STOREFRONT_SOURCE_RETRY_BASE_DELAY" default:"200ms"`
}

// Validate checks that exactly one usable upstream is configured.
func (s SourceConfig) Validate() error {
	if s.UsesFixture() {
		return nil
	}
	if strings.TrimSpace(s.BaseURL) == "" {
		return fmt.Errorf("either %s or %s is required", EnvSourceBaseURL, EnvSourceFixture)
	}
	return s.validateURL()
}

// UsesFixture reports whether records come from a JSON fixture instead of the API.
func (s SourceConfig) UsesFixture() bool {
	return strings.TrimSpace(s.Fixture) != ""
}

func (s SourceConfig) validateURL() error {
	if s.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", EnvSourceBaseURL, s.BaseURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvSourceTimeout)
	}
	return nil
}

// ReportsConfig carries the report policies. Rates and percentages stay strings here and
// are parsed as decimals so configuration never introduces float rounding.
type ReportsConfig struct {
	TopN                    int    `envconfig:"STOREFRONT_REPORTS_TOP_N" default:"5"`
	LiquidationLimit        int    `envconfig:"STOREFRONT_REPORTS_LIQUIDATION_LIMIT" default:"5"`
	LiquidationDiscountPct  string `envconfig:"STOREFRONT_REPORTS_LIQUIDATION_DISCOUNT_PCT" default:"20"`
	LowStockThreshold       int64  `envconfig:"STOREFRONT_REPORTS_LOW_STOCK_THRESHOLD" default:"5"`
	CommissionRate          string `envconfig:"STOREFRONT_REPORTS_COMMISSION_RATE"`
	TrendWindowDays         int    `envconfig:"STOREFRONT_REPORTS_TREND_WINDOW_DAYS" default:"30"`
	AllowPartial            bool   `envconfig:"STOREFRONT_REPORTS_ALLOW_PARTIAL" default:"true"`
	CompareToPreviousPeriod bool   `envconfig:"STOREFRONT_REPORTS_COMPARE_PREVIOUS" default:"true"`
}

// LiquidationDiscount returns the configured flat markdown percentage.
func (r ReportsConfig) LiquidationDiscount() (decimal.Decimal, error) {
	pct, err := decimal.NewFromString(strings.TrimSpace(r.LiquidationDiscountPct))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", EnvReportsLiqPct, err)
	}
	return pct, nil
}

// Commission returns the configured commission rate, or nil when none is set and amounts
// owed fall back to full revenue pass-through.
func (r ReportsConfig) Commission() (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.CommissionRate)
	if raw == "" {
		return nil, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvReportsCommission, err)
	}
	return &rate, nil
}

// TrendWindow is the length of the current and the previous comparison period.
func (r ReportsConfig) TrendWindow() time.Duration {
	return time.Duration(r.TrendWindowDays) * 24 * time.Hour
}

func (r ReportsConfig) validate() error {
	if r.TopN < 0 || r.LiquidationLimit < 0 || r.LowStockThreshold < 0 {
		return fmt.Errorf("report limits must not be negative")
	}
	if r.TrendWindowDays <= 0 {
		return fmt.Errorf("trend window must be at least one day")
	}
	pct, err := r.LiquidationDiscount()
	if err != nil {
		return err
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%s must be between 0 and 100", EnvReportsLiqPct)
	}
	rate, err := r.Commission()
	if err != nil {
		return err
	}
	if rate != nil && (rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("%s must be between 0 and 1", EnvReportsCommission)
	}
	return nil
}
