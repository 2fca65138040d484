package inventory

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNotFound is returned when an item is missing from the inventory.
	ErrNotFound = errors.New("inventory item not found")
	// ErrInvalidItem is returned when an item name is not a non-empty string.
	ErrInvalidItem = errors.New("invalid item name")
	// ErrInvalidQuantity is returned when a quantity is not a finite number.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrServiceClosed is returned by Service methods after Close.
	ErrServiceClosed = errors.New("inventory service is closed")
)

// validationError carries the rejected input so diagnostics can quote it back.
// overflow marks a finite quantity whose resulting total is not finite.
type validationError struct {
	kind     error
	item     any
	value    any
	overflow bool
}

func (e *validationError) Error() string {
	if e.kind == ErrInvalidItem {
		return fmt.Sprintf("%v %s: must be a non-empty string", e.kind, repr(e.item))
	}
	if e.overflow {
		return fmt.Sprintf("%v for %s: %s: total out of range", e.kind, repr(e.item), repr(e.value))
	}
	return fmt.Sprintf("%v for %s: %s: must be a number", e.kind, repr(e.item), repr(e.value))
}

func (e *validationError) Unwrap() error { return e.kind }

// IsValidation helps callers distinguish rejected input from missing items and file failures.
func IsValidation(err error) bool {
	var v *validationError
	return errors.As(err, &v)
}

// missingItemError records which item a removal targeted.
type missingItemError struct {
	item string
}

func (e *missingItemError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNotFound, strconv.Quote(e.item))
}

func (e *missingItemError) Unwrap() error { return ErrNotFound }

// FileError reports a failed load or save of the inventory file.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error { return e.Err }

func repr(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(val)
	case Quantity:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
