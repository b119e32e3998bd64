package inventory

import (
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func generated(stocks, sold, ages []int64) []types.CanonicalProductRecord {
	out := make([]types.CanonicalProductRecord, 0, len(stocks))
	for i, s := range stocks {
		p := types.CanonicalProductRecord{ID: fmt.Sprintf("p%d", i), Stock: s, CreatedAt: asOf}
		if i < len(sold) {
			p.TotalSold = sold[i] % 3
		}
		if i < len(ages) {
			p.CreatedAt = asOf.Add(-time.Duration(ages[i]) * time.Hour)
		}
		out = append(out, p)
	}
	return out
}

func TestInventoryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("aging buckets hold exactly the stocked units", prop.ForAll(
		func(stocks, ages []int64) bool {
			products := generated(stocks, nil, ages)
			var want int64
			for _, p := range products {
				if p.Stock > 0 {
					want += p.Stock
				}
			}
			buckets, _ := Classify(products, asOf)
			var got int64
			for _, b := range buckets {
				got += b.UnitsInStock
			}
			return got == want
		},
		gen.SliceOf(gen.Int64Range(0, 500)),
		gen.SliceOf(gen.Int64Range(-72, 24*400)),
	))

	properties.Property("liquidation only proposes stocked never-sold products", prop.ForAll(
		func(stocks, sold, ages []int64) bool {
			products := generated(stocks, sold, ages)
			byID := make(map[string]types.CanonicalProductRecord, len(products))
			for _, p := range products {
				byID[p.ID] = p
			}
			for _, c := range SelectLiquidation(products, asOf, LiquidationOptions{Limit: 50}).Candidates {
				p := byID[c.ProductID]
				if p.Stock <= 0 || p.TotalSold != 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 20)),
		gen.SliceOf(gen.Int64Range(0, 20)),
		gen.SliceOf(gen.Int64Range(0, 24*200)),
	))

	properties.TestingRun(t)
}
