package reports

import (
	"encoding/json"
	"testing"

	"github.com/angelmondragon/storefront-analytics/internal/reports/inventory"
	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleInput() Input {
	created := asOf.AddDate(0, 0, -45)
	return Input{
		Sales: []types.CanonicalSaleRecord{
			{Date: asOf.AddDate(0, 0, -1), Revenue: decimal.RequireFromString("10.00"), OrderCount: 1},
		},
		Products: []types.CanonicalProductRecord{
			{ID: "b", Name: "B", CategoryName: "X", Brand: "Acme", Stock: 2, TotalSold: 1, Revenue: decimal.RequireFromString("10.00"), CreatedAt: created},
			{ID: "a", Name: "A", CategoryName: "X", Brand: types.UnbrandedName, Stock: 3, CreatedAt: created},
		},
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	first, err := json.Marshal(Assemble(assembleInput(), asOf, Policies{}))
	require.NoError(t, err)
	second, err := json.Marshal(Assemble(assembleInput(), asOf, Policies{}))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestAssembleUsesDefaultsAndFlagsPlaceholders(t *testing.T) {
	report := Assemble(assembleInput(), asOf, Policies{})

	assert.True(t, report.Inventory.DiscountIsPlaceholder)
	require.Len(t, report.Inventory.Liquidation, 1)
	assert.True(t, report.Inventory.Liquidation[0].SuggestedDiscountPct.Equal(inventory.DefaultLiquidationDiscountPct))
	assert.True(t, report.Suppliers.AmountOwedIsPlaceholder)
	assert.Equal(t, int64(5), report.Inventory.Aging[1].UnitsInStock)
	assert.Nil(t, report.Sales.KPIs[0].TrendDelta)
}

func TestAssembleWithPricingRule(t *testing.T) {
	rule := inventory.PricingRuleFunc(func(types.CanonicalProductRecord, int64) decimal.Decimal {
		return decimal.NewFromInt(30)
	})
	report := Assemble(assembleInput(), asOf, Policies{Pricing: rule})

	assert.False(t, report.Inventory.DiscountIsPlaceholder)
	assert.True(t, report.Inventory.Liquidation[0].SuggestedDiscountPct.Equal(decimal.NewFromInt(30)))
}
