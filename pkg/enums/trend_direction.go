package enums

// TrendDirection describes how a KPI moved against its prior period.
type TrendDirection string

const (
	TrendDirectionUp   TrendDirection = "up"
	TrendDirectionDown TrendDirection = "down"
	TrendDirectionFlat TrendDirection = "flat"
)

// String implements fmt.Stringer.
func (t TrendDirection) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TrendDirection.
func (t TrendDirection) IsValid() bool {
	switch t {
	case TrendDirectionUp, TrendDirectionDown, TrendDirectionFlat:
		return true
	}
	return false
}
