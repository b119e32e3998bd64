// Package suppliers rolls sold products up per supplier and works out what each is owed.
package suppliers

import (
	"cmp"
	"slices"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/pkg/enums"
	"github.com/angelmondragon/storefront-analytics/pkg/money"
	"github.com/shopspring/decimal"
)

// CommissionRule turns a supplier's revenue into the amount payable to that supplier.
type CommissionRule interface {
	AmountOwed(supplierKey string, revenue decimal.Decimal) decimal.Decimal
}

// FlatCommission retains a fixed fraction of revenue (0.15 keeps 15%) and owes the rest.
type FlatCommission decimal.Decimal

// AmountOwed implements CommissionRule.
func (f FlatCommission) AmountOwed(_ string, revenue decimal.Decimal) decimal.Decimal {
	return money.ApplyRate(revenue, decimal.Decimal(f))
}

// Build groups products by brand and sums units sold and revenue per group. Without a rule
// the whole revenue is passed through as the amount owed; that figure is a placeholder and
// every extract says so.
func Build(products []types.CanonicalProductRecord, rule CommissionRule) types.SupplierFragment {
	type group struct {
		units   int64
		revenue decimal.Decimal
	}
	groups := make(map[string]*group)
	for _, product := range products {
		key := product.Brand
		if key == "" {
			key = types.UnbrandedName
		}
		g, ok := groups[key]
		if !ok {
			g = &group{revenue: decimal.Zero}
			groups[key] = g
		}
		g.units += product.TotalSold
		g.revenue = g.revenue.Add(product.Revenue)
	}

	placeholder := rule == nil
	fragment := types.SupplierFragment{
		Extracts:                make([]types.SupplierExtract, 0, len(groups)),
		AmountOwedIsPlaceholder: placeholder,
	}
	for key, g := range groups {
		owed := g.revenue
		if !placeholder {
			owed = rule.AmountOwed(key, g.revenue)
		}
		if owed.IsNegative() {
			owed = decimal.Zero
		}
		status := enums.SupplierStatusNothingDue
		if owed.IsPositive() {
			status = enums.SupplierStatusPending
		}
		fragment.Extracts = append(fragment.Extracts, types.SupplierExtract{
			SupplierKey:             key,
			UnitsSold:               g.units,
			Revenue:                 g.revenue,
			AmountOwed:              owed,
			AmountOwedIsPlaceholder: placeholder,
			Status:                  status,
		})
	}
	owed := make([]decimal.Decimal, 0, len(fragment.Extracts))
	for _, extract := range fragment.Extracts {
		owed = append(owed, extract.AmountOwed)
	}
	fragment.TotalOwed = money.Sum(owed...)
	slices.SortFunc(fragment.Extracts, func(a, b types.SupplierExtract) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.SupplierKey, b.SupplierKey)
	})
	return fragment
}
