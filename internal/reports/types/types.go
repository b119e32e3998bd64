package types

import (
	"time"

	"github.com/angelmondragon/storefront-analytics/pkg/enums"
	"github.com/shopspring/decimal"
)

// RawRecord is a loosely typed record as delivered by the data-fetching layer.
type RawRecord map[string]any

const (
	// UncategorizedName replaces a missing product category.
	UncategorizedName = "Uncategorized"
	// UnbrandedName replaces a missing product brand.
	UnbrandedName = "Unbranded"
)

// CanonicalSaleRecord is one normalized day of sales.
type CanonicalSaleRecord struct {
	Date       time.Time       `json:"date"`
	Revenue    decimal.Decimal `json:"revenue" validate:"gte=0"`
	OrderCount int64           `json:"order_count" validate:"gte=0"`
}

// CanonicalProductRecord is one normalized catalog item with its sales totals.
type CanonicalProductRecord struct {
	ID           string           `json:"id" validate:"required"`
	Name         string           `json:"name"`
	CategoryName string           `json:"category_name"`
	Brand        string           `json:"brand"`
	Stock        int64            `json:"stock" validate:"gte=0"`
	TotalSold    int64            `json:"total_sold" validate:"gte=0"`
	Revenue      decimal.Decimal  `json:"revenue" validate:"gte=0"`
	Price        *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CanonicalCoupon is a normalized coupon definition. Its lifecycle status is never stored.
type CanonicalCoupon struct {
	ID            string             `json:"id" validate:"required"`
	Code          string             `json:"code" validate:"required"`
	Description   string             `json:"description,omitempty"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	Value         decimal.Decimal    `json:"value" validate:"gte=0"`
	MinOrderValue decimal.Decimal    `json:"min_order_value" validate:"gte=0"`
	UsageLimit    int64              `json:"usage_limit" validate:"gte=0"`
	UsageCount    int64              `json:"usage_count" validate:"gte=0"`
	StartDate     *time.Time         `json:"start_date,omitempty"`
	EndDate       *time.Time         `json:"end_date,omitempty"`
	ManualStatus  enums.ManualStatus `json:"manual_status"`
	IsMain        bool               `json:"is_main"`
}

// Unlimited reports whether the coupon has no usage cap.
func (c CanonicalCoupon) Unlimited() bool {
	return c.UsageLimit == 0
}

// KPI is a labelled headline figure with an optional prior-period comparison.
type KPI struct {
	Label          string               `json:"label"`
	Value          decimal.Decimal      `json:"value"`
	TrendDelta     *decimal.Decimal     `json:"trend_delta"`
	TrendDirection enums.TrendDirection `json:"trend_direction"`
}

// CategoryRevenue is one slice of the revenue-by-category distribution.
type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	SharePct decimal.Decimal `json:"share_pct"`
}

// RankedProduct is one entry of the top-N products list.
type RankedProduct struct {
	Rank      int             `json:"rank"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	TotalSold int64           `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// RevenuePoint is one day of the revenue series.
type RevenuePoint struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// SalesFragment is the revenue/orders section of a report.
type SalesFragment struct {
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	TotalOrders       int64             `json:"total_orders"`
	AverageTicket     decimal.Decimal   `json:"average_ticket"`
	UnitsSold         int64             `json:"units_sold"`
	KPIs              []KPI             `json:"kpis"`
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`
	TopProducts       []RankedProduct   `json:"top_products"`
	RevenueSeries     []RevenuePoint    `json:"revenue_series"`
}

// AgingBucket counts stocked units whose age falls in [MinDays, MaxDays].
// A nil MaxDays marks the open-ended last bucket.
type AgingBucket struct {
	RangeLabel   string `json:"range_label"`
	MinDays      int64  `json:"min_days"`
	MaxDays      *int64 `json:"max_days"`
	UnitsInStock int64  `json:"units_in_stock"`
}

// AgingAnomaly records a product whose creation time lies after the evaluation instant.
type AgingAnomaly struct {
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	AsOf      time.Time `json:"as_of"`
}

// LiquidationCandidate is stocked, never-sold inventory proposed for a markdown.
type LiquidationCandidate struct {
	ProductID             string           `json:"product_id"`
	Name                  string           `json:"name"`
	DaysInStock           int64            `json:"days_in_stock"`
	Stock                 int64            `json:"stock"`
	CurrentPrice          *decimal.Decimal `json:"current_price"`
	SuggestedDiscountPct  decimal.Decimal  `json:"suggested_discount_pct"`
	DiscountIsPlaceholder bool             `json:"discount_is_placeholder"`
}

// InventoryFragment is the stock section of a report.
type InventoryFragment struct {
	KPIs                  []KPI                  `json:"kpis"`
	ProductCount          int64                  `json:"product_count"`
	UnitsInStock          int64                  `json:"units_in_stock"`
	LowStockCount         int64                  `json:"low_stock_count"`
	OutOfStockCount       int64                  `json:"out_of_stock_count"`
	StockValue            decimal.Decimal        `json:"stock_value"`
	UnpricedProducts      int64                  `json:"unpriced_products"`
	Aging                 []AgingBucket          `json:"aging"`
	Anomalies             []AgingAnomaly         `json:"anomalies,omitempty"`
	Liquidation           []LiquidationCandidate `json:"liquidation"`
	DiscountIsPlaceholder bool                   `json:"discount_is_placeholder"`
}

// SupplierExtract is the per-supplier rollup of sold items.
type SupplierExtract struct {
	SupplierKey             string               `json:"supplier_key"`
	UnitsSold               int64                `json:"units_sold"`
	Revenue                 decimal.Decimal      `json:"revenue"`
	AmountOwed              decimal.Decimal      `json:"amount_owed"`
	AmountOwedIsPlaceholder bool                 `json:"amount_owed_is_placeholder"`
	Status                  enums.SupplierStatus `json:"status"`
}

// SupplierFragment is the finance section of a report.
type SupplierFragment struct {
	Extracts                []SupplierExtract `json:"extracts"`
	TotalOwed               decimal.Decimal   `json:"total_owed"`
	AmountOwedIsPlaceholder bool              `json:"amount_owed_is_placeholder"`
}

// Rejection describes one raw record the normalizer refused.
type Rejection struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
	Field  string `json:"field"`
	Value  any    `json:"value"`
	Err    error  `json:"-"`
}

// Report is the assembled output of one aggregation call.
type Report struct {
	ID        string            `json:"id,omitempty"`
	AsOf      time.Time         `json:"as_of"`
	Sales     SalesFragment     `json:"sales"`
	Inventory InventoryFragment `json:"inventory"`
	Suppliers SupplierFragment  `json:"suppliers"`
	Rejected  []Rejection       `json:"rejected,omitempty"`
}
