package inventory

import (
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/aggregate"
	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the stock level at or below which a product counts as low.
const DefaultLowStockThreshold int64 = 5

// KPI labels.
const (
	LabelProductCount = "product_count"
	LabelUnitsInStock = "units_in_stock"
	LabelLowStock     = "low_stock"
	LabelOutOfStock   = "out_of_stock"
	LabelStockValue   = "stock_value"
)

// Options tunes Build.
type Options struct {
	// LowStockThreshold; zero means DefaultLowStockThreshold.
	LowStockThreshold int64
	Liquidation       LiquidationOptions
}

// Build assembles the inventory fragment.
func Build(products []types.CanonicalProductRecord, asOf time.Time, opts Options) types.InventoryFragment {
	threshold := opts.LowStockThreshold
	if threshold == 0 {
		threshold = DefaultLowStockThreshold
	}

	fragment := types.InventoryFragment{StockValue: decimal.Zero}
	for _, product := range products {
		fragment.ProductCount++
		fragment.UnitsInStock += product.Stock
		if product.Stock <= threshold {
			fragment.LowStockCount++
		}
		if product.Stock == 0 {
			fragment.OutOfStockCount++
		}
		if product.Price == nil {
			fragment.UnpricedProducts++
			continue
		}
		fragment.StockValue = fragment.StockValue.Add(product.Price.Mul(decimal.NewFromInt(product.Stock)))
	}
	fragment.StockValue = money.Currency(fragment.StockValue)

	fragment.Aging, fragment.Anomalies = Classify(products, asOf)
	liquidation := SelectLiquidation(products, asOf, opts.Liquidation)
	fragment.Liquidation = liquidation.Candidates
	fragment.DiscountIsPlaceholder = liquidation.DiscountIsPlaceholder

	for _, kpi := range []types.KPI{
		{Label: LabelProductCount, Value: decimal.NewFromInt(fragment.ProductCount)},
		{Label: LabelUnitsInStock, Value: decimal.NewFromInt(fragment.UnitsInStock)},
		{Label: LabelLowStock, Value: decimal.NewFromInt(fragment.LowStockCount)},
		{Label: LabelOutOfStock, Value: decimal.NewFromInt(fragment.OutOfStockCount)},
		{Label: LabelStockValue, Value: fragment.StockValue},
	} {
		fragment.KPIs = append(fragment.KPIs, aggregate.WithTrend(kpi, nil))
	}
	return fragment
}
