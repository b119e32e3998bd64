package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Source.BaseURL != "https://api.example.com/v1" {
		t.Fatalf("unexpected base URL %q", cfg.Source.BaseURL)
	}
	if got := cfg.Source.Timeout; got != 10*time.Second {
		t.Fatalf("expected default timeout 10s, got %v", got)
	}
	if cfg.Reports.TopN != 5 {
		t.Fatalf("expected default top N 5, got %d", cfg.Reports.TopN)
	}
	if !cfg.Reports.AllowPartial {
		t.Fatal("expected partial reports to be allowed by default")
	}
	if got := cfg.Reports.TrendWindow(); got != 30*24*time.Hour {
		t.Fatalf("unexpected trend window %v", got)
	}
	pct, err := cfg.Reports.LiquidationDiscount()
	if err != nil || pct.String() != "20" {
		t.Fatalf("unexpected liquidation discount %v (%v)", pct, err)
	}
	rate, err := cfg.Reports.Commission()
	if err != nil || rate != nil {
		t.Fatalf("expected no commission by default, got %v (%v)", rate, err)
	}
}

func TestSourceValidate_RequiresUpstream(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvSourceBaseURL); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvSourceBaseURL, err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if err := cfg.Source.Validate(); err == nil {
		t.Fatal("expected missing upstream to return an error")
	}

	cfg.Source.Fixture = "testdata/report.json"
	if err := cfg.Source.Validate(); err != nil {
		t.Fatalf("expected fixture to satisfy validation, got %v", err)
	}
	if !cfg.Source.UsesFixture() {
		t.Fatal("expected fixture mode")
	}
}

func TestLoad_RejectsRelativeBaseURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSourceBaseURL, "/api")

	if _, err := Load(); err == nil {
		t.Fatal("expected relative base URL to be rejected")
	}
}

func TestLoad_ReportPolicies(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvReportsCommission, "0.15")
	t.Setenv(EnvReportsPartial, "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	rate, err := cfg.Reports.Commission()
	if err != nil || rate == nil || rate.String() != "0.15" {
		t.Fatalf("unexpected commission %v (%v)", rate, err)
	}
	if cfg.Reports.AllowPartial {
		t.Fatal("expected partial reports to be disabled")
	}

	t.Setenv(EnvReportsCommission, "1.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected commission above 1 to be rejected")
	}

	t.Setenv(EnvReportsCommission, "")
	t.Setenv(EnvReportsLiqPct, "abc")
	if _, err := Load(); err == nil {
		t.Fatal("expected malformed discount to be rejected")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvSourceBaseURL, "https://api.example.com/v1")
	t.Setenv(EnvSourceToken, "token")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
