// Package inventory derives the stock section of a report: aging cohorts, liquidation
// candidates and stock KPIs.
package inventory

import (
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
)

const day = 24 * time.Hour

type bucketRange struct {
	label string
	min   int64
	max   int64 // inclusive; zero on the open-ended bucket
	open  bool
}

var agingRanges = []bucketRange{
	{label: "0-30 days", min: 0, max: 30},
	{label: "31-60 days", min: 31, max: 60},
	{label: "61-90 days", min: 61, max: 90},
	{label: "91+ days", min: 91, open: true},
}

// AgeInDays returns the whole days from createdAt to asOf, rounded up. A createdAt after
// asOf is clamped to zero and reported through future.
func AgeInDays(createdAt, asOf time.Time) (days int64, future bool) {
	elapsed := asOf.Sub(createdAt)
	if elapsed < 0 {
		return 0, true
	}
	days = int64(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days, false
}

// Classify counts stocked units per aging cohort. Every cohort is returned, in ascending
// order, even when empty. Products without stock are skipped; stocked products add their
// whole quantity to their cohort.
func Classify(products []types.CanonicalProductRecord, asOf time.Time) ([]types.AgingBucket, []types.AgingAnomaly) {
	buckets := make([]types.AgingBucket, len(agingRanges))
	for i, r := range agingRanges {
		buckets[i] = types.AgingBucket{RangeLabel: r.label, MinDays: r.min}
		if !r.open {
			maxDays := r.max
			buckets[i].MaxDays = &maxDays
		}
	}

	var anomalies []types.AgingAnomaly
	for _, product := range products {
		if product.Stock <= 0 {
			continue
		}
		age, future := AgeInDays(product.CreatedAt, asOf)
		if future {
			anomalies = append(anomalies, types.AgingAnomaly{
				ProductID: product.ID,
				CreatedAt: product.CreatedAt,
				AsOf:      asOf,
			})
		}
		buckets[bucketIndex(age)].UnitsInStock += product.Stock
	}
	return buckets, anomalies
}

func bucketIndex(age int64) int {
	for i, r := range agingRanges {
		if r.open || age <= r.max {
			return i
		}
	}
	return len(agingRanges) - 1
}
