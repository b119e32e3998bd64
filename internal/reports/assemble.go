// Package reports assembles the storefront report from canonical records.
package reports

import (
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/aggregate"
	"github.com/angelmondragon/storefront-analytics/internal/reports/inventory"
	"github.com/angelmondragon/storefront-analytics/internal/reports/suppliers"
	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/shopspring/decimal"
)

// Policies are the tunable business rules applied while assembling a report.
// The zero value uses every documented default.
type Policies struct {
	TopN                   int
	LiquidationLimit       int
	LowStockThreshold      int64
	LiquidationDiscountPct *decimal.Decimal
	Pricing                inventory.PricingRule
	Commission             suppliers.CommissionRule
}

// Input is the canonical data for one report.
type Input struct {
	Sales    []types.CanonicalSaleRecord
	Products []types.CanonicalProductRecord
	// Previous is the prior-period baseline; nil leaves every trend empty.
	Previous *aggregate.PeriodTotals
}

// Assemble runs every report stage over the same input. It is pure: the result depends
// only on its arguments.
func Assemble(in Input, asOf time.Time, p Policies) types.Report {
	return types.Report{
		AsOf: asOf,
		Sales: aggregate.Aggregate(in.Sales, in.Products, aggregate.Options{
			TopN:     p.TopN,
			Previous: in.Previous,
		}),
		Inventory: inventory.Build(in.Products, asOf, inventory.Options{
			LowStockThreshold: p.LowStockThreshold,
			Liquidation: inventory.LiquidationOptions{
				Limit:             p.LiquidationLimit,
				Rule:              p.Pricing,
				PolicyDiscountPct: p.LiquidationDiscountPct,
			},
		}),
		Suppliers: suppliers.Build(in.Products, p.Commission),
	}
}
