// Package aggregate rolls canonical sales and products up into the sales section of a report.
package aggregate

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultTopN is the length of the top products list when Options.TopN is zero.
const DefaultTopN = 5

// KPI labels.
const (
	LabelRevenue       = "revenue"
	LabelOrders        = "orders"
	LabelAverageTicket = "average_ticket"
	LabelUnitsSold     = "units_sold"
)

// Options tunes Aggregate. The zero value is usable.
type Options struct {
	// TopN caps the top products list; zero means DefaultTopN.
	TopN int
	// Previous is the prior-period baseline. Without it every KPI trend stays nil.
	Previous *PeriodTotals
}

// PeriodTotals are the headline sums of one period, used as a trend baseline.
type PeriodTotals struct {
	Revenue       decimal.Decimal
	Orders        int64
	AverageTicket decimal.Decimal
	UnitsSold     int64
}

// Totals sums a period's sales and products.
func Totals(sales []types.CanonicalSaleRecord, products []types.CanonicalProductRecord) PeriodTotals {
	var totals PeriodTotals
	totals.Revenue = decimal.Zero
	for _, sale := range sales {
		totals.Revenue = totals.Revenue.Add(sale.Revenue)
		totals.Orders += sale.OrderCount
	}
	totals.AverageTicket = AverageTicket(totals.Revenue, totals.Orders)
	for _, product := range products {
		totals.UnitsSold += product.TotalSold
	}
	return totals
}

// AverageTicket is revenue per order rounded to cents, and zero when there are no orders.
func AverageTicket(revenue decimal.Decimal, orders int64) decimal.Decimal {
	if orders == 0 {
		return decimal.Zero
	}
	return money.Div(revenue, decimal.NewFromInt(orders), money.CurrencyScale)
}

// Aggregate builds the sales fragment. It never fails on data; a negative TopN is a
// programming error and panics.
func Aggregate(sales []types.CanonicalSaleRecord, products []types.CanonicalProductRecord, opts Options) types.SalesFragment {
	if opts.TopN < 0 {
		panic(fmt.Sprintf("aggregate: negative top N %d", opts.TopN))
	}
	topN := opts.TopN
	if topN == 0 {
		topN = DefaultTopN
	}

	totals := Totals(sales, products)
	return types.SalesFragment{
		TotalRevenue:      totals.Revenue,
		TotalOrders:       totals.Orders,
		AverageTicket:     totals.AverageTicket,
		UnitsSold:         totals.UnitsSold,
		KPIs:              KPIs(totals, opts.Previous),
		RevenueByCategory: RevenueByCategory(products),
		TopProducts:       TopProducts(products, topN),
		RevenueSeries:     RevenueSeries(sales),
	}
}

// KPIs renders the headline figures, comparing against previous when it is non-nil.
func KPIs(current PeriodTotals, previous *PeriodTotals) []types.KPI {
	kpis := []types.KPI{
		{Label: LabelRevenue, Value: current.Revenue},
		{Label: LabelOrders, Value: decimal.NewFromInt(current.Orders)},
		{Label: LabelAverageTicket, Value: current.AverageTicket},
		{Label: LabelUnitsSold, Value: decimal.NewFromInt(current.UnitsSold)},
	}
	var baseline []decimal.Decimal
	if previous != nil {
		baseline = []decimal.Decimal{
			previous.Revenue,
			decimal.NewFromInt(previous.Orders),
			previous.AverageTicket,
			decimal.NewFromInt(previous.UnitsSold),
		}
	}
	for i := range kpis {
		if baseline == nil {
			kpis[i] = WithTrend(kpis[i], nil)
			continue
		}
		kpis[i] = WithTrend(kpis[i], &baseline[i])
	}
	return kpis
}

// RevenueByCategory sums product revenue per category, largest first and then by name.
// Shares are percentages of the overall total; the group sums are exact.
func RevenueByCategory(products []types.CanonicalProductRecord) []types.CategoryRevenue {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, product := range products {
		current, ok := sums[product.CategoryName]
		if !ok {
			current = decimal.Zero
		}
		sums[product.CategoryName] = current.Add(product.Revenue)
		total = total.Add(product.Revenue)
	}

	out := make([]types.CategoryRevenue, 0, len(sums))
	for name, revenue := range sums {
		out = append(out, types.CategoryRevenue{
			Category: name,
			Revenue:  revenue,
			SharePct: money.Percent(revenue, total),
		})
	}
	slices.SortFunc(out, func(a, b types.CategoryRevenue) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// TopProducts ranks products by units sold, then revenue, then id, and keeps the first n.
func TopProducts(products []types.CanonicalProductRecord, n int) []types.RankedProduct {
	if n < 0 {
		panic(fmt.Sprintf("aggregate: negative top N %d", n))
	}
	ranked := slices.Clone(products)
	slices.SortFunc(ranked, compareBestSelling)
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]types.RankedProduct, 0, len(ranked))
	for i, product := range ranked {
		out = append(out, types.RankedProduct{
			Rank:      i + 1,
			ProductID: product.ID,
			Name:      product.Name,
			TotalSold: product.TotalSold,
			Revenue:   product.Revenue,
		})
	}
	return out
}

func compareBestSelling(a, b types.CanonicalProductRecord) int {
	if c := cmp.Compare(b.TotalSold, a.TotalSold); c != 0 {
		return c
	}
	if c := b.Revenue.Cmp(a.Revenue); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// RevenueSeries merges sales by calendar day in ascending date order.
func RevenueSeries(sales []types.CanonicalSaleRecord) []types.RevenuePoint {
	byDay := make(map[string]*types.RevenuePoint)
	for _, sale := range sales {
		day := sale.Date.Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &types.RevenuePoint{Date: day, Revenue: decimal.Zero}
			byDay[day] = point
		}
		point.Revenue = point.Revenue.Add(sale.Revenue)
		point.OrderCount += sale.OrderCount
	}

	out := make([]types.RevenuePoint, 0, len(byDay))
	for _, point := range byDay {
		out = append(out, *point)
	}
	slices.SortFunc(out, func(a, b types.RevenuePoint) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out
}
