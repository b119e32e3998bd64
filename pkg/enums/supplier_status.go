package enums

// SupplierStatus marks whether a supplier extract still has an outstanding payable.
type SupplierStatus string

const (
	SupplierStatusPending    SupplierStatus = "pending"
	SupplierStatusNothingDue SupplierStatus = "nothing_due"
)

// String implements fmt.Stringer.
func (s SupplierStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierStatus.
func (s SupplierStatus) IsValid() bool {
	return s == SupplierStatusPending || s == SupplierStatusNothingDue
}
