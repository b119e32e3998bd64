// Package coupons derives a coupon's effective lifecycle status. Status is never stored:
// it is recomputed from the coupon's dates and counters every time it is asked for.
package coupons

import (
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/pkg/enums"
)

// Resolve returns the coupon's status at now. Precedence, highest first: manually disabled,
// usage limit reached, end date passed, start date not reached, otherwise active.
func Resolve(c types.CanonicalCoupon, now time.Time) enums.CouponStatus {
	switch {
	case c.ManualStatus == enums.ManualStatusDisabled:
		return enums.CouponStatusDisabled
	case c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit:
		return enums.CouponStatusExhausted
	case c.EndDate != nil && c.EndDate.Before(now):
		return enums.CouponStatusExpired
	case c.StartDate != nil && c.StartDate.After(now):
		return enums.CouponStatusScheduled
	default:
		return enums.CouponStatusActive
	}
}

// RemainingUses returns how many redemptions are left, or nil for an unlimited coupon.
func RemainingUses(c types.CanonicalCoupon) *int64 {
	if c.Unlimited() {
		return nil
	}
	left := max(c.UsageLimit-c.UsageCount, 0)
	return &left
}

// Resolved is a coupon together with its status at a given instant.
type Resolved struct {
	Coupon        types.CanonicalCoupon `json:"coupon"`
	Status        enums.CouponStatus    `json:"status"`
	RemainingUses *int64                `json:"remaining_uses"`
}

// Evaluate resolves every coupon against the same instant, keeping input order.
func Evaluate(list []types.CanonicalCoupon, now time.Time) []Resolved {
	out := make([]Resolved, 0, len(list))
	for _, c := range list {
		out = append(out, Resolved{
			Coupon:        c,
			Status:        Resolve(c, now),
			RemainingUses: RemainingUses(c),
		})
	}
	return out
}
