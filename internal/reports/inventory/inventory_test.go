package inventory

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func stocked(id string, stock, sold int64, age time.Duration) types.CanonicalProductRecord {
	return types.CanonicalProductRecord{
		ID:        id,
		Name:      "item " + id,
		Stock:     stock,
		TotalSold: sold,
		Revenue:   decimal.Zero,
		CreatedAt: asOf.Add(-age),
	}
}

func TestAgeInDaysRoundsUp(t *testing.T) {
	cases := []struct {
		age    time.Duration
		want   int64
		future bool
	}{
		{age: 0, want: 0},
		{age: time.Minute, want: 1},
		{age: 30 * day, want: 30},
		{age: 30*day + time.Second, want: 31},
		{age: -2 * day, want: 0, future: true},
	}
	for _, tc := range cases {
		got, future := AgeInDays(asOf.Add(-tc.age), asOf)
		if got != tc.want || future != tc.future {
			t.Fatalf("age %v: got (%d, %v) want (%d, %v)", tc.age, got, future, tc.want, tc.future)
		}
	}
}

func TestClassifyBucketBoundaries(t *testing.T) {
	products := []types.CanonicalProductRecord{
		stocked("a", 2, 0, 30*day),
		stocked("b", 3, 1, 30*day+time.Hour),
		stocked("c", 5, 0, 60*day),
		stocked("d", 7, 0, 90*day),
		stocked("e", 11, 0, 90*day+time.Hour),
		stocked("f", 0, 4, 400*day),
	}

	buckets, anomalies := Classify(products, asOf)

	require.Len(t, buckets, 4)
	assert.Empty(t, anomalies)
	assert.Equal(t, []int64{2, 8, 7, 11}, []int64{
		buckets[0].UnitsInStock, buckets[1].UnitsInStock, buckets[2].UnitsInStock, buckets[3].UnitsInStock,
	})
	assert.Equal(t, "0-30 days", buckets[0].RangeLabel)
	require.NotNil(t, buckets[2].MaxDays)
	assert.Equal(t, int64(90), *buckets[2].MaxDays)
	assert.Nil(t, buckets[3].MaxDays)
	assert.Equal(t, int64(91), buckets[3].MinDays)
}

func TestClassifyClampsFutureCreation(t *testing.T) {
	buckets, anomalies := Classify([]types.CanonicalProductRecord{stocked("z", 4, 0, -5*day)}, asOf)

	assert.Equal(t, int64(4), buckets[0].UnitsInStock)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "z", anomalies[0].ProductID)
}

func TestClassifyConservesStock(t *testing.T) {
	products := []types.CanonicalProductRecord{
		stocked("a", 1, 0, 5*day),
		stocked("b", 10, 2, 45*day),
		stocked("c", 0, 0, 200*day),
		stocked("d", 6, 0, 365*day),
	}
	buckets, _ := Classify(products, asOf)

	var got int64
	for _, b := range buckets {
		got += b.UnitsInStock
	}
	assert.Equal(t, int64(17), got)
}

func TestSelectLiquidationOrderingAndEligibility(t *testing.T) {
	products := []types.CanonicalProductRecord{
		stocked("sold", 9, 1, 500*day),
		stocked("empty", 0, 0, 500*day),
		stocked("young", 3, 0, 10*day),
		stocked("old-small", 1, 0, 120*day),
		stocked("old-big", 8, 0, 120*day),
	}

	result := SelectLiquidation(products, asOf, LiquidationOptions{})

	require.Len(t, result.Candidates, 3)
	ids := []string{result.Candidates[0].ProductID, result.Candidates[1].ProductID, result.Candidates[2].ProductID}
	assert.Equal(t, []string{"old-big", "old-small", "young"}, ids)
	assert.Equal(t, int64(120), result.Candidates[0].DaysInStock)
	assert.True(t, result.DiscountIsPlaceholder)
	for _, c := range result.Candidates {
		assert.True(t, c.DiscountIsPlaceholder)
		assert.True(t, c.SuggestedDiscountPct.Equal(DefaultLiquidationDiscountPct))
	}
}

func TestSelectLiquidationLimit(t *testing.T) {
	var products []types.CanonicalProductRecord
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		products = append(products, stocked(id, 1, 0, 40*day))
	}
	assert.Len(t, SelectLiquidation(products, asOf, LiquidationOptions{}).Candidates, DefaultLiquidationLimit)
	assert.Len(t, SelectLiquidation(products, asOf, LiquidationOptions{Limit: 2}).Candidates, 2)
	assert.Panics(t, func() { SelectLiquidation(products, asOf, LiquidationOptions{Limit: -1}) })
}

func TestSelectLiquidationWithPricingRule(t *testing.T) {
	rule := PricingRuleFunc(func(p types.CanonicalProductRecord, days int64) decimal.Decimal {
		if days > 90 {
			return decimal.NewFromInt(35)
		}
		return decimal.NewFromInt(10)
	})
	result := SelectLiquidation([]types.CanonicalProductRecord{
		stocked("a", 1, 0, 100*day),
		stocked("b", 1, 0, 20*day),
	}, asOf, LiquidationOptions{Rule: rule})

	assert.False(t, result.DiscountIsPlaceholder)
	assert.True(t, result.Candidates[0].SuggestedDiscountPct.Equal(decimal.NewFromInt(35)))
	assert.True(t, result.Candidates[1].SuggestedDiscountPct.Equal(decimal.NewFromInt(10)))
	assert.False(t, result.Candidates[1].DiscountIsPlaceholder)
}

func TestSelectLiquidationCopiesPrice(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	product := stocked("a", 2, 0, 40*day)
	product.Price = &price

	result := SelectLiquidation([]types.CanonicalProductRecord{product}, asOf, LiquidationOptions{})
	require.Len(t, result.Candidates, 1)
	got := result.Candidates[0].CurrentPrice
	require.NotNil(t, got)
	assert.NotSame(t, product.Price, got)

	*got = decimal.Zero
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.50")))
}

func TestSelectLiquidationPolicyOverrideStaysPlaceholder(t *testing.T) {
	pct := decimal.NewFromInt(15)
	result := SelectLiquidation([]types.CanonicalProductRecord{stocked("a", 1, 0, day)}, asOf, LiquidationOptions{PolicyDiscountPct: &pct})
	assert.True(t, result.DiscountIsPlaceholder)
	assert.True(t, result.Candidates[0].SuggestedDiscountPct.Equal(pct))
}

func TestBuildInventoryKPIs(t *testing.T) {
	price := decimal.RequireFromString("19.90")
	priced := stocked("a", 3, 1, 10*day)
	priced.Price = &price

	fragment := Build([]types.CanonicalProductRecord{
		priced,
		stocked("b", 0, 2, 10*day),
		stocked("c", 12, 0, 95*day),
	}, asOf, Options{})

	assert.Equal(t, int64(3), fragment.ProductCount)
	assert.Equal(t, int64(15), fragment.UnitsInStock)
	assert.Equal(t, int64(2), fragment.LowStockCount)
	assert.Equal(t, int64(1), fragment.OutOfStockCount)
	assert.Equal(t, "59.70", fragment.StockValue.StringFixed(2))
	assert.Equal(t, int64(2), fragment.UnpricedProducts)
	require.Len(t, fragment.Liquidation, 1)
	assert.Equal(t, "c", fragment.Liquidation[0].ProductID)
	assert.Len(t, fragment.KPIs, 5)
	for _, kpi := range fragment.KPIs {
		assert.Nil(t, kpi.TrendDelta)
	}
}
