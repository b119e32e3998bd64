// Package normalize turns loosely typed upstream records into canonical report records.
//
// Every batch function keeps going after a bad record: the records that parsed are returned
// alongside a rejection per record that did not, and the caller decides whether a partial
// batch is acceptable.
package normalize

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-analytics/internal/reports/types"
	"github.com/angelmondragon/storefront-analytics/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-analytics/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Record kinds reported on rejections.
const (
	KindSale    = "sale"
	KindProduct = "product"
	KindCoupon  = "coupon"
)

var maxPercentage = decimal.NewFromInt(100)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// Range tags on decimals compare the sign only; magnitudes are never converted to floats.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return int64(d.Sign())
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Batch is the outcome of normalizing a slice of raw records.
type Batch[T any] struct {
	Records  []T
	Rejected []types.Rejection
}

// Err combines every rejection into a single error, or returns nil when nothing was rejected.
func (b Batch[T]) Err() error {
	var err error
	for _, rejection := range b.Rejected {
		err = multierr.Append(err, fmt.Errorf("%s record %d: %w", rejection.Kind, rejection.Index, rejection.Err))
	}
	return err
}

// Sales normalizes raw daily sales rows.
func Sales(raw []types.RawRecord) Batch[types.CanonicalSaleRecord] {
	return normalizeAll(KindSale, raw, Sale)
}

// Products normalizes raw product rows.
func Products(raw []types.RawRecord) Batch[types.CanonicalProductRecord] {
	return normalizeAll(KindProduct, raw, Product)
}

// Coupons normalizes raw coupon rows. A code that repeats an earlier accepted code,
// compared case-insensitively, is rejected as a duplicate.
func Coupons(raw []types.RawRecord) Batch[types.CanonicalCoupon] {
	seen := make(map[string]int, len(raw))
	batch := Batch[types.CanonicalCoupon]{Records: make([]types.CanonicalCoupon, 0, len(raw))}
	for idx, record := range raw {
		coupon, err := Coupon(record)
		if err == nil {
			key := strings.ToLower(coupon.Code)
			if first, dup := seen[key]; dup {
				err = pkgerrors.New(pkgerrors.CodeDuplicateRecord, fmt.Sprintf("code: %q already used by record %d", coupon.Code, first)).
					WithDetails(fieldDetails("code", coupon.Code))
			} else {
				seen[key] = idx
			}
		}
		if err != nil {
			batch.Rejected = append(batch.Rejected, rejection(KindCoupon, idx, err))
			continue
		}
		batch.Records = append(batch.Records, coupon)
	}
	return batch
}

func normalizeAll[T any](kind string, raw []types.RawRecord, fn func(types.RawRecord) (T, error)) Batch[T] {
	batch := Batch[T]{Records: make([]T, 0, len(raw))}
	for idx, record := range raw {
		out, err := fn(record)
		if err != nil {
			batch.Rejected = append(batch.Rejected, rejection(kind, idx, err))
			continue
		}
		batch.Records = append(batch.Records, out)
	}
	return batch
}

func rejection(kind string, idx int, err error) types.Rejection {
	r := types.Rejection{Index: idx, Kind: kind, Err: err}
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
		if details, ok := typed.Details().(map[string]any); ok {
			r.Field, _ = details["field"].(string)
			r.Value = details["value"]
		}
	}
	r.Code = string(code)
	r.Reason = pkgerrors.MetadataFor(code).PublicMessage
	return r
}

// Sale normalizes a single daily sales row. The date is reduced to its calendar day at UTC midnight.
func Sale(raw types.RawRecord) (types.CanonicalSaleRecord, error) {
	r := reader{raw: raw}
	date, err := r.requiredTime("date")
	if err != nil {
		return types.CanonicalSaleRecord{}, err
	}
	revenue, err := r.requiredDecimal("revenue")
	if err != nil {
		return types.CanonicalSaleRecord{}, err
	}
	orders, err := r.requiredInt("order_count")
	if err != nil {
		return types.CanonicalSaleRecord{}, err
	}
	out := types.CanonicalSaleRecord{
		Date:       CalendarDate(date),
		Revenue:    revenue,
		OrderCount: orders,
	}
	if err := checkRanges(r, out); err != nil {
		return types.CanonicalSaleRecord{}, err
	}
	return out, nil
}

// Product normalizes a single product row. Category and brand fall back to
// types.UncategorizedName and types.UnbrandedName; total_sold and revenue fall back to zero
// for catalog rows that never sold; price stays nil when absent.
func Product(raw types.RawRecord) (types.CanonicalProductRecord, error) {
	r := reader{raw: raw}
	var out types.CanonicalProductRecord
	var err error

	if out.ID, err = r.requiredString("id"); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	if out.Name, err = r.requiredString("name"); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	if out.CategoryName, err = stringOr(r, "category_name", types.UncategorizedName); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	if out.Brand, err = stringOr(r, "brand", types.UnbrandedName); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	if out.Stock, err = r.requiredInt("stock"); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	if out.TotalSold, err = r.intOr("total_sold", 0); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	revenue, err := r.optionalDecimal("revenue")
	if err != nil {
		return types.CanonicalProductRecord{}, err
	}
	out.Revenue = decimal.Zero
	if revenue != nil {
		out.Revenue = *revenue
	}
	if out.Price, err = r.optionalDecimal("price"); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	if out.CreatedAt, err = r.requiredTime("created_at"); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	if err := checkRanges(r, out); err != nil {
		return types.CanonicalProductRecord{}, err
	}
	return out, nil
}

// Coupon normalizes a single coupon row. usage_limit and usage_count default to zero
// (zero limit meaning unlimited), the minimum order value to zero and the manual status to active.
func Coupon(raw types.RawRecord) (types.CanonicalCoupon, error) {
	r := reader{raw: raw}
	var out types.CanonicalCoupon
	var err error

	if out.ID, err = r.requiredString("id"); err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.Code, err = r.requiredString("code"); err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.Description, err = stringOr(r, "description", ""); err != nil {
		return types.CanonicalCoupon{}, err
	}

	rawType, err := r.requiredString("discount_type")
	if err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.DiscountType, err = enums.ParseDiscountType(rawType); err != nil {
		return types.CanonicalCoupon{}, unknownEnum("discount_type", rawType)
	}

	out.ManualStatus = enums.ManualStatusActive
	rawStatus, hasStatus, err := r.optionalString("manual_status")
	if err != nil {
		return types.CanonicalCoupon{}, err
	}
	if hasStatus {
		if out.ManualStatus, err = enums.ParseManualStatus(rawStatus); err != nil {
			return types.CanonicalCoupon{}, unknownEnum("manual_status", rawStatus)
		}
	}

	if out.Value, err = r.requiredDecimal("value"); err != nil {
		return types.CanonicalCoupon{}, err
	}
	minOrder, err := r.optionalDecimal("min_order_value")
	if err != nil {
		return types.CanonicalCoupon{}, err
	}
	out.MinOrderValue = decimal.Zero
	if minOrder != nil {
		out.MinOrderValue = *minOrder
	}
	if out.UsageLimit, err = r.intOr("usage_limit", 0); err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.UsageCount, err = r.intOr("usage_count", 0); err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.StartDate, err = r.optionalTime("start_date"); err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.EndDate, err = r.optionalTime("end_date"); err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.IsMain, err = r.boolOr("is_main", false); err != nil {
		return types.CanonicalCoupon{}, err
	}

	if err := checkRanges(r, out); err != nil {
		return types.CanonicalCoupon{}, err
	}
	if out.DiscountType == enums.DiscountTypePercentage && out.Value.GreaterThan(maxPercentage) {
		return types.CanonicalCoupon{}, invalidRange("value", out.Value.String(), "percentage above 100")
	}
	if out.StartDate != nil && out.EndDate != nil && out.EndDate.Before(*out.StartDate) {
		return types.CanonicalCoupon{}, invalidRange("end_date", out.EndDate.Format(time.RFC3339), "ends before start_date")
	}
	return out, nil
}

// CalendarDate drops the time of day, keeping the calendar date as written upstream.
func CalendarDate(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stringOr(r reader, field, fallback string) (string, error) {
	value, ok, err := r.optionalString(field)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}

// checkRanges runs the struct's validate tags and reports the first violation as InvalidRange
// with the value exactly as it arrived.
func checkRanges(r reader, record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		field := errs[0].Field()
		value, _ := r.lookup(field)
		return invalidRange(field, value, fmt.Sprintf("failed %s=%s", errs[0].Tag(), errs[0].Param()))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInvalidRange, err, "range validation failed")
}
