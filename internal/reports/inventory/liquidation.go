package inventory

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/shopspring/decimal"
)

// DefaultLiquidationLimit caps the candidate list when LiquidationOptions.Limit is zero.
const DefaultLiquidationLimit = 5

// DefaultLiquidationDiscountPct is the flat markdown proposed when no PricingRule is supplied.
// It is a policy constant, not a per-item computation, so results built from it are flagged
// as placeholders.
var DefaultLiquidationDiscountPct = decimal.NewFromInt(20)

// PricingRule proposes a markdown percentage for one stagnant product.
type PricingRule interface {
	DiscountPct(product types.CanonicalProductRecord, daysInStock int64) decimal.Decimal
}

// PricingRuleFunc adapts a function to PricingRule.
type PricingRuleFunc func(product types.CanonicalProductRecord, daysInStock int64) decimal.Decimal

// DiscountPct implements PricingRule.
func (f PricingRuleFunc) DiscountPct(product types.CanonicalProductRecord, daysInStock int64) decimal.Decimal {
	return f(product, daysInStock)
}

// LiquidationOptions tunes SelectLiquidation. The zero value is usable.
type LiquidationOptions struct {
	// Limit caps the result; zero means DefaultLiquidationLimit.
	Limit int
	// Rule computes per-item markdowns. When nil, PolicyDiscountPct (or the default) is
	// applied to every candidate and flagged as a placeholder.
	Rule PricingRule
	// PolicyDiscountPct overrides DefaultLiquidationDiscountPct.
	PolicyDiscountPct *decimal.Decimal
}

// Liquidation is the selected candidate list.
type Liquidation struct {
	Candidates            []types.LiquidationCandidate
	DiscountIsPlaceholder bool
}

// SelectLiquidation picks stocked products that never sold, oldest first, then by larger
// stock, then by id. A negative limit is a programming error and panics.
func SelectLiquidation(products []types.CanonicalProductRecord, asOf time.Time, opts LiquidationOptions) Liquidation {
	if opts.Limit < 0 {
		panic(fmt.Sprintf("inventory: negative liquidation limit %d", opts.Limit))
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLiquidationLimit
	}
	policy := DefaultLiquidationDiscountPct
	if opts.PolicyDiscountPct != nil {
		policy = *opts.PolicyDiscountPct
	}
	placeholder := opts.Rule == nil

	type eligible struct {
		product types.CanonicalProductRecord
		days    int64
	}
	var pool []eligible
	for _, product := range products {
		if !IsLiquidationEligible(product) {
			continue
		}
		days, _ := AgeInDays(product.CreatedAt, asOf)
		pool = append(pool, eligible{product: product, days: days})
	}
	slices.SortFunc(pool, func(a, b eligible) int {
		if c := cmp.Compare(b.days, a.days); c != 0 {
			return c
		}
		if c := cmp.Compare(b.product.Stock, a.product.Stock); c != 0 {
			return c
		}
		return cmp.Compare(a.product.ID, b.product.ID)
	})
	if len(pool) > limit {
		pool = pool[:limit]
	}

	out := Liquidation{
		Candidates:            make([]types.LiquidationCandidate, 0, len(pool)),
		DiscountIsPlaceholder: placeholder,
	}
	for _, item := range pool {
		discount := policy
		if !placeholder {
			discount = opts.Rule.DiscountPct(item.product, item.days)
		}
		out.Candidates = append(out.Candidates, types.LiquidationCandidate{
			ProductID:             item.product.ID,
			Name:                  item.product.Name,
			DaysInStock:           item.days,
			Stock:                 item.product.Stock,
			CurrentPrice:          copyPrice(item.product.Price),
			SuggestedDiscountPct:  discount,
			DiscountIsPlaceholder: placeholder,
		})
	}
	return out
}

func copyPrice(price *decimal.Decimal) *decimal.Decimal {
	if price == nil {
		return nil
	}
	out := *price
	return &out
}

// IsLiquidationEligible reports whether a product is stocked but has never sold.
func IsLiquidationEligible(product types.CanonicalProductRecord) bool {
	return product.Stock > 0 && product.TotalSold == 0
}
