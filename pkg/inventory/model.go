package inventory

import (
	"math"
	"strconv"
)

// DefaultLowThreshold is the quantity below which an item counts as low stock.
const DefaultLowThreshold Quantity = 5

// Quantity is a stock level. Integral values print without a fractional part.
type Quantity float64

// String renders 7 as "7" and 2.5 as "2.5".
func (q Quantity) String() string {
	return strconv.FormatFloat(float64(q), 'f', -1, 64)
}

// finite reports whether q can be stored and persisted.
func (q Quantity) finite() bool {
	f := float64(q)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Entry is one item of the inventory as returned by ordered snapshots.
type Entry struct {
	Name string
	Qty  Quantity
}
