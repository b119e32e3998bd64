package normalize

import (
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
)

const dateLayout = "2006-01-02"

// SaleToRaw renders a canonical sale back into the primitive shape Sale accepts.
// Decimals travel as strings so no precision is lost on the way back in.
func SaleToRaw(s types.CanonicalSaleRecord) types.RawRecord {
	return types.RawRecord{
		"date":    s.Date.Format(dateLayout),
		"revenue": s.Revenue.String(),
		"orders":  s.OrderCount,
	}
}

// ProductToRaw renders a canonical product back into the primitive shape Product accepts.
func ProductToRaw(p types.CanonicalProductRecord) types.RawRecord {
	raw := types.RawRecord{
		"id":            p.ID,
		"name":          p.Name,
		"category_name": p.CategoryName,
		"brand":         p.Brand,
		"stock":         p.Stock,
		"total_sold":    p.TotalSold,
		"revenue":       p.Revenue.String(),
		"created_at":    p.CreatedAt.Format(time.RFC3339Nano),
	}
	if p.Price != nil {
		raw["price"] = p.Price.String()
	}
	return raw
}

// CouponToRaw renders a canonical coupon back into the primitive shape Coupon accepts.
func CouponToRaw(c types.CanonicalCoupon) types.RawRecord {
	raw := types.RawRecord{
		"id":            c.ID,
		"code":          c.Code,
		"description":   c.Description,
		"discount_type": c.DiscountType.String(),
		"value":         c.Value.String(),
		"min_purchase":  c.MinOrderValue.String(),
		"usage_limit":   c.UsageLimit,
		"usage_count":   c.UsageCount,
		"status":        c.ManualStatus.String(),
		"is_main":       c.IsMain,
	}
	if c.StartDate != nil {
		raw["start_date"] = c.StartDate.Format(time.RFC3339Nano)
	}
	if c.EndDate != nil {
		raw["end_date"] = c.EndDate.Format(time.RFC3339Nano)
	}
	return raw
}
