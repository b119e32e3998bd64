package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	pkgerrors "github.com/angelmondragon/storefront-analytics/pkg/errors"
	"github.com/shopspring/decimal"
)

// fieldAliases lists, per canonical field, every key the upstream has been seen to use.
// The first alias is the canonical name reported in rejections.
var fieldAliases = map[string][]string{
	"date":            {"date", "day", "sale_date", "saleDate"},
	"revenue":         {"revenue", "total_revenue", "totalRevenue"},
	"order_count":     {"orders", "order_count", "orderCount"},
	"id":              {"id", "product_id", "productId", "coupon_id", "couponId"},
	"name":            {"name", "product_name", "productName", "title"},
	"category_name":   {"category_name", "categoryName", "category"},
	"brand":           {"brand", "brand_name", "brandName", "supplier"},
	"stock":           {"stock", "stock_quantity", "stockQuantity", "quantity"},
	"total_sold":      {"total_sold", "totalSold", "units_sold", "unitsSold"},
	"price":           {"price", "current_price", "currentPrice"},
	"created_at":      {"created_at", "createdAt"},
	"code":            {"code"},
	"description":     {"description"},
	"discount_type":   {"discount_type", "discountType", "type"},
	"value":           {"value", "discount_value", "discountValue"},
	"min_order_value": {"min_purchase", "minPurchase", "min_order_value", "minOrderValue"},
	"usage_limit":     {"usage_limit", "usageLimit", "max_uses", "maxUses"},
	"usage_count":     {"usage_count", "usageCount", "used_count", "usedCount"},
	"start_date":      {"start_date", "startDate", "starts_at", "startsAt"},
	"end_date":        {"end_date", "endDate", "expires_at", "expiresAt"},
	"manual_status":   {"status", "manual_status", "manualStatus"},
	"is_main":         {"is_main", "isMain"},
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// reader resolves canonical fields on a raw record. Nil values and blank strings count as absent.
type reader struct {
	raw types.RawRecord
}

func (r reader) lookup(field string) (any, bool) {
	for _, key := range fieldAliases[field] {
		value, ok := r.raw[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

func (r reader) requiredString(field string) (string, error) {
	value, ok, err := r.optionalString(field)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", missing(field)
	}
	return value, nil
}

func (r reader) optionalString(field string) (string, bool, error) {
	value, ok := r.lookup(field)
	if !ok {
		return "", false, nil
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true, nil
	case json.Number:
		return v.String(), true, nil
	case int, int32, int64:
		return fmt.Sprintf("%d", v), true, nil
	case float64:
		if !isFinite(v) {
			return "", false, malformed(field, value, errNonFinite)
		}
		return decimal.NewFromFloat(v).String(), true, nil
	}
	return "", false, malformed(field, value, nil)
}

func (r reader) requiredDecimal(field string) (decimal.Decimal, error) {
	value, ok := r.lookup(field)
	if !ok {
		return decimal.Zero, missing(field)
	}
	return parseDecimal(field, value)
}

func (r reader) optionalDecimal(field string) (*decimal.Decimal, error) {
	value, ok := r.lookup(field)
	if !ok {
		return nil, nil
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r reader) requiredInt(field string) (int64, error) {
	value, ok := r.lookup(field)
	if !ok {
		return 0, missing(field)
	}
	return parseInt(field, value)
}

// intOr returns fallback only when the field is absent; present but unparseable values still fail.
func (r reader) intOr(field string, fallback int64) (int64, error) {
	value, ok := r.lookup(field)
	if !ok {
		return fallback, nil
	}
	return parseInt(field, value)
}

func (r reader) requiredTime(field string) (time.Time, error) {
	value, ok := r.lookup(field)
	if !ok {
		return time.Time{}, missing(field)
	}
	return parseTime(field, value)
}

func (r reader) optionalTime(field string) (*time.Time, error) {
	value, ok := r.lookup(field)
	if !ok {
		return nil, nil
	}
	ts, err := parseTime(field, value)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r reader) boolOr(field string, fallback bool) (bool, error) {
	value, ok := r.lookup(field)
	if !ok {
		return fallback, nil
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	case json.Number:
		switch v.String() {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, malformed(field, value, nil)
}

// parseDecimal reads numbers through their decimal text so "19.90" never becomes 19.899999.
func parseDecimal(field string, value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, malformed(field, value, err)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, malformed(field, value, err)
		}
		return d, nil
	case float64:
		if !isFinite(v) {
			return decimal.Zero, malformed(field, value, errNonFinite)
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		if !isFinite(float64(v)) {
			return decimal.Zero, malformed(field, value, errNonFinite)
		}
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return decimal.Zero, malformed(field, value, nil)
}

func parseInt(field string, value any) (int64, error) {
	d, err := parseDecimal(field, value)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, malformed(field, value, fmt.Errorf("not a whole number"))
	}
	if d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return 0, malformed(field, value, fmt.Errorf("out of int64 range"))
	}
	return d.IntPart(), nil
}

var errNonFinite = errors.New("not a finite number")

// isFinite guards decimal.NewFromFloat, which panics on NaN and infinities.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var (
	maxInt64 = decimal.NewFromInt(1<<63 - 1)
	minInt64 = decimal.NewFromInt(-1 << 63)
)

// parseTime accepts RFC 3339 and plain date strings, or integer Unix milliseconds.
// Zone-less strings are read as UTC.
func parseTime(field string, value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, malformed(field, value, fmt.Errorf("unrecognized timestamp layout"))
	}
	millis, err := parseInt(field, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis).UTC(), nil
}

func malformed(field string, value any, cause error) *pkgerrors.Error {
	msg := fmt.Sprintf("%s: cannot parse %v", field, value)
	return pkgerrors.Wrap(pkgerrors.CodeMalformedRecord, cause, msg).WithDetails(fieldDetails(field, value))
}

func missing(field string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeMalformedRecord, field+": missing required field").
		WithDetails(fieldDetails(field, nil))
}

func unknownEnum(field string, value any) *pkgerrors.Error {
	msg := fmt.Sprintf("%s: unrecognized code %v", field, value)
	return pkgerrors.New(pkgerrors.CodeUnknownEnumValue, msg).WithDetails(fieldDetails(field, value))
}

func invalidRange(field string, value any, reason string) *pkgerrors.Error {
	msg := fmt.Sprintf("%s: %s", field, reason)
	return pkgerrors.New(pkgerrors.CodeInvalidRange, msg).WithDetails(fieldDetails(field, value))
}

// fieldDetails keeps the raw value as it arrived, except non-finite floats, which are
// spelled out because encoding/json cannot marshal them.
func fieldDetails(field string, value any) map[string]any {
	switch v := value.(type) {
	case float64:
		if !isFinite(v) {
			value = fmt.Sprint(v)
		}
	case float32:
		if !isFinite(float64(v)) {
			value = fmt.Sprint(v)
		}
	}
	return map[string]any{"field": field, "value": value}
}
