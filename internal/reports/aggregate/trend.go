package aggregate

import (
	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/pkg/enums"
	"github.com/angelmondragon/storefront-analytics/pkg/money"
	"github.com/shopspring/decimal"
)

// Trend returns (current - previous) / previous rounded to money.RatioScale,
// or nil when previous is zero and no ratio exists.
func Trend(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	delta := current.Sub(previous).DivRound(previous, money.RatioScale)
	return &delta
}

// Direction classifies a trend delta. A nil delta is flat.
func Direction(delta *decimal.Decimal) enums.TrendDirection {
	switch {
	case delta == nil || delta.IsZero():
		return enums.TrendDirectionFlat
	case delta.IsPositive():
		return enums.TrendDirectionUp
	default:
		return enums.TrendDirectionDown
	}
}

// WithTrend fills the KPI's trend against previous. A nil previous means no baseline,
// which leaves TrendDelta nil.
func WithTrend(kpi types.KPI, previous *decimal.Decimal) types.KPI {
	kpi.TrendDelta = nil
	if previous != nil {
		kpi.TrendDelta = Trend(kpi.Value, *previous)
	}
	kpi.TrendDirection = Direction(kpi.TrendDelta)
	return kpi
}
