package enums

import (
	"fmt"
	"strings"
)

// DiscountType identifies how a coupon reduces an order total.
type DiscountType string

const (
	DiscountTypePercentage   DiscountType = "percentage"
	DiscountTypeFixed        DiscountType = "fixed"
	DiscountTypeFreeShipping DiscountType = "freeShipping"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFixed,
	DiscountTypeFreeShipping,
}

// discountTypeCodes maps every accepted upstream code to its canonical type.
// Keys are lowercase; lookups fold case. Codes missing from this table are rejected
// rather than passed through.
var discountTypeCodes = map[string]DiscountType{
	"percentage":    DiscountTypePercentage,
	"percent":       DiscountTypePercentage,
	"fixed":         DiscountTypeFixed,
	"fixed_amount":  DiscountTypeFixed,
	"shipping":      DiscountTypeFreeShipping,
	"free_shipping": DiscountTypeFreeShipping,
	"freeshipping":  DiscountTypeFreeShipping,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a canonical DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType maps a raw upstream code through the explicit code table, ignoring case.
func ParseDiscountType(value string) (DiscountType, error) {
	if dt, ok := discountTypeCodes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return dt, nil
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
