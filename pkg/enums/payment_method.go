package enums

// PaymentMethod enumerates how an order is settled. Cash on delivery is the
// only supported method.
type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "COD"
)

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the payment method is recognized.
func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodCOD
}
