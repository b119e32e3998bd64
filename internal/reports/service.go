package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/coupons"
	"github.com/angelmondragon/storefront-analytics/internal/reports/aggregate"
	"github.com/angelmondragon/storefront-analytics/internal/reports/inventory"
	"github.com/angelmondragon/storefront-analytics/internal/reports/normalize"
	"github.com/angelmondragon/storefront-analytics/internal/reports/suppliers"
	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/internal/source"
	"github.com/angelmondragon/storefront-analytics/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-analytics/pkg/errors"
	"github.com/angelmondragon/storefront-analytics/pkg/logger"
	"github.com/angelmondragon/storefront-analytics/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	reportName       = "storefront"
	couponReportName = "coupons"

	kindPreviousSale = "previous_sale"
)

// ServiceParams wires a Service.
type ServiceParams struct {
	Source  source.Source
	Logger  *logger.Logger
	Metrics *metrics.ReportMetrics
	Config  config.ReportsConfig
	// Pricing optionally replaces the flat liquidation markdown.
	Pricing inventory.PricingRule
	// Clock supplies the evaluation instant for Build; defaults to time.Now.
	Clock func() time.Time
}

// Service fetches raw batches, normalizes them and assembles reports.
type Service struct {
	source       source.Source
	logg         *logger.Logger
	metrics      *metrics.ReportMetrics
	policies     Policies
	window       time.Duration
	comparePrev  bool
	allowPartial bool
	clock        func() time.Time
}

// CouponReport is the resolved coupon list at one instant.
type CouponReport struct {
	AsOf     time.Time          `json:"as_of"`
	Coupons  []coupons.Resolved `json:"coupons"`
	Summary  coupons.Summary    `json:"summary"`
	Rejected []types.Rejection  `json:"rejected,omitempty"`
}

// NewService validates params and turns the report configuration into policies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	discount, err := params.Config.LiquidationDiscount()
	if err != nil {
		return nil, err
	}
	rate, err := params.Config.Commission()
	if err != nil {
		return nil, err
	}
	var commission suppliers.CommissionRule
	if rate != nil {
		commission = suppliers.FlatCommission(*rate)
	}
	window := params.Config.TrendWindow()
	if window <= 0 {
		return nil, fmt.Errorf("trend window must be positive")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		source:  params.Source,
		logg:    params.Logger,
		metrics: params.Metrics,
		policies: Policies{
			TopN:                   params.Config.TopN,
			LiquidationLimit:       params.Config.LiquidationLimit,
			LowStockThreshold:      params.Config.LowStockThreshold,
			LiquidationDiscountPct: &discount,
			Pricing:                params.Pricing,
			Commission:             commission,
		},
		window:       window,
		comparePrev:  params.Config.CompareToPreviousPeriod,
		allowPartial: params.Config.AllowPartial,
		clock:        clock,
	}, nil
}

// Build assembles the report as of the service clock.
func (s *Service) Build(ctx context.Context) (*types.Report, error) {
	return s.BuildAt(ctx, s.clock().UTC())
}

// BuildAt assembles the report for the trend window ending at asOf. Rejected records are
// reported on the result unless partial reports are disabled, in which case any rejection
// fails the build.
func (s *Service) BuildAt(ctx context.Context, asOf time.Time) (report *types.Report, err error) {
	started := time.Now()
	reportID := uuid.NewString()
	ctx = s.logg.WithReportID(ctx, reportID)
	ctx = s.logg.WithAsOf(ctx, asOf)
	outcome := metrics.OutcomeComplete
	defer func() {
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		s.metrics.ObserveDuration(reportName, time.Since(started))
		s.metrics.IncBuild(reportName, outcome)
	}()

	s.logg.Info(ctx, "building report")
	window := source.WindowEndingAt(asOf, s.window)

	var rawSales, rawPrevious, rawProducts []types.RawRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var ferr error
		rawSales, ferr = s.source.Sales(gctx, window)
		return ferr
	})
	g.Go(func() error {
		var ferr error
		rawProducts, ferr = s.source.Products(gctx)
		return ferr
	})
	if s.comparePrev {
		g.Go(func() error {
			var ferr error
			rawPrevious, ferr = s.source.Sales(gctx, window.Previous())
			return ferr
		})
	}
	if err := g.Wait(); err != nil {
		s.logg.Error(ctx, "failed to fetch report data", err)
		return nil, wrapDependency(err, "fetch report data")
	}

	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"raw_sales":          len(rawSales),
		"raw_previous_sales": len(rawPrevious),
		"raw_products":       len(rawProducts),
	}), "fetched raw batches")

	sales := normalize.Sales(rawSales)
	products := normalize.Products(rawProducts)
	previous := normalize.Sales(rawPrevious)
	for i := range previous.Rejected {
		previous.Rejected[i].Kind = kindPreviousSale
	}

	rejected := make([]types.Rejection, 0, len(sales.Rejected)+len(products.Rejected)+len(previous.Rejected))
	rejected = append(rejected, sales.Rejected...)
	rejected = append(rejected, products.Rejected...)
	rejected = append(rejected, previous.Rejected...)
	if len(rejected) > 0 {
		s.recordRejections(ctx, rejected)
		if err := unexpectedRejections(rejected); err != nil {
			s.logg.Error(ctx, "normalizer failed on report input", err)
			return nil, err
		}
		if !s.allowPartial {
			combined := multierr.Combine(sales.Err(), products.Err(), previous.Err())
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, combined, "report input contains rejected records").
				WithDetails(map[string]any{"rejected": len(rejected)})
		}
		outcome = metrics.OutcomePartial
	}

	in := Input{Sales: sales.Records, Products: products.Records}
	if s.comparePrev && len(previous.Records) > 0 {
		totals := aggregate.Totals(previous.Records, nil)
		in.Previous = &totals
	}

	assembled := Assemble(in, asOf, s.policies)
	assembled.ID = reportID
	assembled.Rejected = rejected
	for _, anomaly := range assembled.Inventory.Anomalies {
		actx := s.logg.WithFields(ctx, map[string]any{
			"product_id": anomaly.ProductID,
			"created_at": anomaly.CreatedAt.Format(time.RFC3339),
		})
		s.logg.Warn(actx, "product created after evaluation instant; age clamped to zero")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"sales":    len(sales.Records),
		"products": len(products.Records),
		"rejected": len(rejected),
	}), "report built")
	return &assembled, nil
}

// Coupons resolves every coupon against asOf.
func (s *Service) Coupons(ctx context.Context, asOf time.Time) (report *CouponReport, err error) {
	started := time.Now()
	ctx = s.logg.WithAsOf(ctx, asOf)
	outcome := metrics.OutcomeComplete
	defer func() {
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		s.metrics.ObserveDuration(couponReportName, time.Since(started))
		s.metrics.IncBuild(couponReportName, outcome)
	}()

	raw, err := s.source.Coupons(ctx)
	if err != nil {
		s.logg.Error(ctx, "failed to fetch coupons", err)
		return nil, wrapDependency(err, "fetch coupons")
	}
	batch := normalize.Coupons(raw)
	if len(batch.Rejected) > 0 {
		s.recordRejections(ctx, batch.Rejected)
		if err := unexpectedRejections(batch.Rejected); err != nil {
			s.logg.Error(ctx, "normalizer failed on coupon input", err)
			return nil, err
		}
		if !s.allowPartial {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, batch.Err(), "coupon input contains rejected records").
				WithDetails(map[string]any{"rejected": len(batch.Rejected)})
		}
		outcome = metrics.OutcomePartial
	}

	resolved := coupons.Evaluate(batch.Records, asOf)
	return &CouponReport{
		AsOf:     asOf,
		Coupons:  resolved,
		Summary:  coupons.Summarize(resolved),
		Rejected: batch.Rejected,
	}, nil
}

func (s *Service) recordRejections(ctx context.Context, rejected []types.Rejection) {
	counts := make(map[[2]string]int)
	for _, r := range rejected {
		counts[[2]string{r.Kind, r.Code}]++
		rctx := s.logg.WithFields(ctx, map[string]any{
			"kind":  r.Kind,
			"index": r.Index,
			"code":  r.Code,
			"field": r.Field,
		})
		s.logg.Warn(rctx, "record rejected")
	}
	for key, n := range counts {
		s.metrics.AddRejected(key[0], key[1], n)
	}
}

// unexpectedRejections fails the build on rejections whose code is not record-level: those
// come from the normalizer itself, not from bad input, so a partial report would hide them.
func unexpectedRejections(rejected []types.Rejection) error {
	var combined error
	count := 0
	for _, r := range rejected {
		if pkgerrors.MetadataFor(pkgerrors.Code(r.Code)).RecordLevel {
			continue
		}
		count++
		combined = multierr.Append(combined, fmt.Errorf("%s record %d: %w", r.Kind, r.Index, r.Err))
	}
	if combined == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, combined, "normalization failed").
		WithDetails(map[string]any{"rejected": count})
}

func wrapDependency(err error, message string) error {
	if pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
