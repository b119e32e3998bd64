package coupons

import (
	"strings"

	"github.com/angelmondragon/storefront-analytics/pkg/enums"
)

// Summary holds the headline figures of the coupon list.
type Summary struct {
	Total       int                        `json:"total"`
	ActiveCount int                        `json:"active_count"`
	TotalUses   int64                      `json:"total_uses"`
	ByStatus    map[enums.CouponStatus]int `json:"by_status"`
	TopCoupon   *TopCoupon                 `json:"top_coupon"`
}

// TopCoupon is the most redeemed coupon.
type TopCoupon struct {
	Code string `json:"code"`
	Uses int64  `json:"uses"`
}

// Summarize counts resolved coupons per status and finds the most used one. Usage ties go
// to the code that sorts first case-insensitively; TopCoupon is nil when nothing was redeemed.
func Summarize(resolved []Resolved) Summary {
	summary := Summary{
		Total:    len(resolved),
		ByStatus: make(map[enums.CouponStatus]int, 5),
	}
	for _, r := range resolved {
		summary.ByStatus[r.Status]++
		if r.Status == enums.CouponStatusActive {
			summary.ActiveCount++
		}
		summary.TotalUses += r.Coupon.UsageCount

		if r.Coupon.UsageCount == 0 {
			continue
		}
		top := summary.TopCoupon
		if top == nil || r.Coupon.UsageCount > top.Uses ||
			(r.Coupon.UsageCount == top.Uses && strings.ToLower(r.Coupon.Code) < strings.ToLower(top.Code)) {
			summary.TopCoupon = &TopCoupon{Code: r.Coupon.Code, Uses: r.Coupon.UsageCount}
		}
	}
	return summary
}
