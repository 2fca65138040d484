package inventory

import (
	"encoding/json"
)

// ItemFrom accepts a dynamically typed item name, as decoded from YAML or JSON.
func ItemFrom(v any) (string, error) {
	name, ok := v.(string)
	if !ok || name == "" {
		return "", &validationError{kind: ErrInvalidItem, item: v}
	}
	return name, nil
}

// QuantityFrom accepts any integer or floating-point value. Strings, booleans and nil are
// rejected even when they look numeric. item is only used to describe the failure.
func QuantityFrom(item, v any) (Quantity, error) {
	var q Quantity
	switch n := v.(type) {
	case Quantity:
		q = n
	case int:
		q = Quantity(n)
	case int8:
		q = Quantity(n)
	case int16:
		q = Quantity(n)
	case int32:
		q = Quantity(n)
	case int64:
		q = Quantity(n)
	case uint:
		q = Quantity(n)
	case uint8:
		q = Quantity(n)
	case uint16:
		q = Quantity(n)
	case uint32:
		q = Quantity(n)
	case uint64:
		q = Quantity(n)
	case float32:
		q = Quantity(n)
	case float64:
		q = Quantity(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &validationError{kind: ErrInvalidQuantity, item: item, value: v}
		}
		q = Quantity(f)
	default:
		return 0, &validationError{kind: ErrInvalidQuantity, item: item, value: v}
	}
	if !q.finite() {
		return 0, &validationError{kind: ErrInvalidQuantity, item: item, value: v}
	}
	return q, nil
}

func validate(item string, qty Quantity) error {
	if item == "" {
		return &validationError{kind: ErrInvalidItem, item: item}
	}
	if !qty.finite() {
		return &validationError{kind: ErrInvalidQuantity, item: item, value: qty}
	}
	return nil
}
