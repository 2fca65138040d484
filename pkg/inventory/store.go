// Package inventory tracks item quantities in memory and persists them to a JSON file.
package inventory

import (
	"fmt"
	"io"

	"stocktrack/pkg/storage/jsonfile"
)

// Store maps item names to quantities and remembers insertion order.
//
// Store is not safe for concurrent use; share a Service instead.
type Store struct {
	quantities map[string]Quantity
	order      []string
}

// NewStore returns an empty inventory.
func NewStore() *Store {
	return &Store{quantities: make(map[string]Quantity)}
}

// Add increases item by qty, creating it when absent. When journal is non-nil the addition is
// recorded there. Negative quantities are accepted. A total that overflows is rejected and the
// inventory is left unchanged.
func (s *Store) Add(item string, qty Quantity, journal *Journal) error {
	if err := validate(item, qty); err != nil {
		return err
	}
	current, ok := s.quantities[item]
	total := current + qty
	if !total.finite() {
		return &validationError{kind: ErrInvalidQuantity, item: item, value: qty, overflow: true}
	}
	if s.quantities == nil {
		s.quantities = make(map[string]Quantity)
	}
	if !ok {
		s.order = append(s.order, item)
	}
	s.quantities[item] = total
	if journal != nil {
		journal.record(item, qty)
	}
	return nil
}

// AddValue is Add for dynamically typed input.
func (s *Store) AddValue(item, qty any, journal *Journal) error {
	name, err := ItemFrom(item)
	if err != nil {
		return err
	}
	q, err := QuantityFrom(name, qty)
	if err != nil {
		return err
	}
	return s.Add(name, q, journal)
}

// Remove decreases item by qty. The item is deleted once its quantity is zero or below. A
// negative qty whose result overflows is rejected.
func (s *Store) Remove(item string, qty Quantity) error {
	if err := validate(item, qty); err != nil {
		return err
	}
	current, ok := s.quantities[item]
	if !ok {
		return &missingItemError{item: item}
	}
	remaining := current - qty
	if !remaining.finite() {
		return &validationError{kind: ErrInvalidQuantity, item: item, value: qty, overflow: true}
	}
	if remaining <= 0 {
		s.delete(item)
		return nil
	}
	s.quantities[item] = remaining
	return nil
}

// RemoveValue is Remove for dynamically typed input.
func (s *Store) RemoveValue(item, qty any) error {
	name, err := ItemFrom(item)
	if err != nil {
		return err
	}
	q, err := QuantityFrom(name, qty)
	if err != nil {
		return err
	}
	return s.Remove(name, q)
}

// Qty returns the quantity of item and whether it is present.
func (s *Store) Qty(item string) (Quantity, bool) {
	if item == "" {
		return 0, false
	}
	q, ok := s.quantities[item]
	return q, ok
}

// QtyValue is Qty for dynamically typed input; anything but a non-empty string is absent.
func (s *Store) QtyValue(item any) (Quantity, bool) {
	name, err := ItemFrom(item)
	if err != nil {
		return 0, false
	}
	return s.Qty(name)
}

// LowItems lists items whose quantity is strictly below threshold, in insertion order.
// Quantities that do not compare (NaN) are skipped.
func (s *Store) LowItems(threshold Quantity) []string {
	var low []string
	for _, name := range s.order {
		if s.quantities[name] < threshold {
			low = append(low, name)
		}
	}
	return low
}

// Items returns the inventory in insertion order.
func (s *Store) Items() []Entry {
	items := make([]Entry, 0, len(s.order))
	for _, name := range s.order {
		items = append(items, Entry{Name: name, Qty: s.quantities[name]})
	}
	return items
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.order) }

// Reset empties the inventory.
func (s *Store) Reset() {
	s.quantities = make(map[string]Quantity)
	s.order = nil
}

// Report writes a human-readable listing of every item.
func (s *Store) Report(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Items Report"); err != nil {
		return err
	}
	if len(s.order) == 0 {
		_, err := fmt.Fprintln(w, "(Inventory is empty)")
		return err
	}
	for _, name := range s.order {
		if _, err := fmt.Fprintf(w, " - %s: %s\n", name, s.quantities[name]); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the inventory with the contents of path. On any failure the inventory is
// left empty and a *FileError is returned.
func (s *Store) Load(path string) error {
	s.Reset()
	records, err := jsonfile.Read(path)
	if err != nil {
		return &FileError{Op: "load", Path: path, Err: err}
	}
	for _, rec := range records {
		if rec.Name == "" {
			return &FileError{Op: "load", Path: path, Err: fmt.Errorf("%w: empty item name", jsonfile.ErrMalformed)}
		}
	}
	for _, rec := range records {
		s.order = append(s.order, rec.Name)
		s.quantities[rec.Name] = Quantity(rec.Qty)
	}
	return nil
}

// Save writes the inventory to path. The inventory itself is never modified.
func (s *Store) Save(path string) error {
	records := make([]jsonfile.Record, 0, len(s.order))
	for _, name := range s.order {
		records = append(records, jsonfile.Record{Name: name, Qty: float64(s.quantities[name])})
	}
	if err := jsonfile.Write(path, records); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func (s *Store) delete(item string) {
	delete(s.quantities, item)
	for i, name := range s.order {
		if name == item {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
