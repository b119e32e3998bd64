package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports"
	"github.com/angelmondragon/storefront-analytics/internal/source"
	"github.com/angelmondragon/storefront-analytics/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-analytics/pkg/errors"
	"github.com/angelmondragon/storefront-analytics/pkg/logger"
	"github.com/angelmondragon/storefront-analytics/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const serviceName = "report"

func main() {
	// logs go to stderr so stdout carries only the report
	logg := logger.New(logger.Options{ServiceName: serviceName, Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cmd := flag.String("cmd", "report", "command: report|coupons")
	input := flag.String("input", "", "JSON fixture to read instead of the storefront API")
	now := flag.String("now", "", "evaluation instant (RFC3339); defaults to the current time")
	pretty := flag.Bool("pretty", false, "indent JSON output (always on in dev)")
	dumpMetrics := flag.Bool("metrics", false, "write collected metrics to stderr on exit")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(logg, "config", err)
	if *input != "" {
		cfg.Source.Fixture = *input
	}
	requireResource(logg, "source config", cfg.Source.Validate())

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	asOf := time.Now().UTC()
	if *now != "" {
		asOf, err = time.Parse(time.RFC3339, *now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -now %q: %v\n", *now, err)
			os.Exit(2)
		}
		asOf = asOf.UTC()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	src, err := newSource(cfg, asOf)
	requireResource(logg, "source", err)

	registry := prometheus.NewRegistry()
	svc, err := reports.NewService(reports.ServiceParams{
		Source:  src,
		Logger:  logg,
		Metrics: metrics.NewReportMetrics(registry),
		Config:  cfg.Reports,
		Clock:   func() time.Time { return asOf },
	})
	requireResource(logg, "report service", err)

	var result any
	switch *cmd {
	case "report":
		result, err = svc.BuildAt(ctx, asOf)
	case "coupons":
		result, err = svc.Coupons(ctx, asOf)
	default:
		fmt.Fprintf(os.Stderr, "unknown -cmd %q (want report|coupons)\n", *cmd)
		os.Exit(2)
	}
	if *dumpMetrics {
		defer writeMetrics(logg, registry, os.Stderr)
	}
	if err != nil {
		logg.Error(logg.WithField(ctx, "error_dump", pkgerrors.Dump(err)), "command failed", err)
		if *dumpMetrics {
			writeMetrics(logg, registry, os.Stderr)
		}
		os.Exit(1)
	}

	if err := writeJSON(os.Stdout, result, *pretty || cfg.App.IsDev()); err != nil {
		logg.Error(ctx, "failed to write output", err)
		os.Exit(1)
	}
}

func newSource(cfg *config.Config, asOf time.Time) (source.Source, error) {
	if cfg.Source.UsesFixture() {
		return source.LoadFile(cfg.Source.Fixture, source.WindowEndingAt(asOf, cfg.Reports.TrendWindow()))
	}
	return source.NewHTTPClient(cfg.Source)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

func writeMetrics(logg *logger.Logger, gatherer prometheus.Gatherer, w io.Writer) {
	families, err := gatherer.Gather()
	if err != nil {
		logg.Error(context.Background(), "failed to gather metrics", err)
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			logg.Error(context.Background(), "failed to write metrics", err)
			return
		}
	}
}

func requireResource(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("failed to initialize %s", name), err)
	os.Exit(1)
}
