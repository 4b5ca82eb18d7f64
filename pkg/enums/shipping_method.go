package enums

import "fmt"

// ShippingMethod distinguishes locker pickup from address-based delivery.
type ShippingMethod string

const (
	ShippingMethodPacketa ShippingMethod = "packeta"
	ShippingMethodCourier ShippingMethod = "courier"
)

var validShippingMethods = []ShippingMethod{
	ShippingMethodPacketa,
	ShippingMethodCourier,
}

// String implements fmt.Stringer.
func (s ShippingMethod) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingMethod.
func (s ShippingMethod) IsValid() bool {
	for _, candidate := range validShippingMethods {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShippingMethod converts raw input into a ShippingMethod.
func ParseShippingMethod(value string) (ShippingMethod, error) {
	for _, candidate := range validShippingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping method %q", value)
}
