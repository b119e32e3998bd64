package enums

import (
	"fmt"
	"strings"
)

// CouponStatus is the effective lifecycle state derived for a coupon.
type CouponStatus string

const (
	CouponStatusScheduled CouponStatus = "scheduled"
	CouponStatusActive    CouponStatus = "active"
	CouponStatusExpired   CouponStatus = "expired"
	CouponStatusExhausted CouponStatus = "exhausted"
	CouponStatusDisabled  CouponStatus = "disabled"
)

var validCouponStatuses = []CouponStatus{
	CouponStatusScheduled,
	CouponStatusActive,
	CouponStatusExpired,
	CouponStatusExhausted,
	CouponStatusDisabled,
}

// String implements fmt.Stringer.
func (s CouponStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CouponStatus.
func (s CouponStatus) IsValid() bool {
	for _, candidate := range validCouponStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status cannot change without mutating the coupon record.
func (s CouponStatus) IsTerminal() bool {
	switch s {
	case CouponStatusExpired, CouponStatusExhausted, CouponStatusDisabled:
		return true
	}
	return false
}

// ParseCouponStatus converts raw input into a CouponStatus.
func ParseCouponStatus(value string) (CouponStatus, error) {
	for _, candidate := range validCouponStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon status %q", value)
}

// ManualStatus is the operator-controlled switch stored on a coupon.
type ManualStatus string

const (
	ManualStatusActive   ManualStatus = "active"
	ManualStatusDisabled ManualStatus = "disabled"
)

var manualStatusCodes = map[string]ManualStatus{
	"active":   ManualStatusActive,
	"enabled":  ManualStatusActive,
	"disabled": ManualStatusDisabled,
	"inactive": ManualStatusDisabled,
}

// String implements fmt.Stringer.
func (m ManualStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a canonical ManualStatus.
func (m ManualStatus) IsValid() bool {
	return m == ManualStatusActive || m == ManualStatusDisabled
}

// ParseManualStatus maps a raw upstream status code to a ManualStatus, ignoring case.
func ParseManualStatus(value string) (ManualStatus, error) {
	if status, ok := manualStatusCodes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return status, nil
	}
	return "", fmt.Errorf("invalid manual status %q", value)
}
