// Package jsonfile reads and writes the inventory file: one JSON object whose keys are item
// names and whose values are numbers. Key order is preserved in both directions.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotExist is returned when the inventory file is missing.
	ErrNotExist = errors.New("inventory file not found")
	// ErrMalformed is returned when the file is not a JSON object of numbers.
	ErrMalformed = errors.New("inventory file contains invalid JSON")
)

// Record is one item/quantity pair in file order. Qty is a float64, so integers are exact only
// up to 2^53; larger values are rounded to the nearest representable float.
type Record struct {
	Name string
	Qty  float64
}

// Read loads the records stored at path.
func Read(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// Write persists records to path through a temporary file so readers never see a torn write.
func Write(path string, records []Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", temp, err)
	}
	if err := os.Rename(temp, path); err != nil {
		os.Remove(temp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Decode parses a JSON object of numbers. Duplicate keys keep their first position and their
// last value.
func Decode(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level value is not an object", ErrMalformed)
	}

	var records []Record
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected key %v", ErrMalformed, tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: value for %q is not a number", ErrMalformed, name)
		}
		qty, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", ErrMalformed, name, err)
		}
		if i, seen := index[name]; seen {
			records[i].Qty = qty
			continue
		}
		index[name] = len(records)
		records = append(records, Record{Name: name, Qty: qty})
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	return records, nil
}

// Encode renders records as an indented JSON object. Non-ASCII names are written verbatim.
func Encode(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, rec := range records {
		key, err := encodeString(rec.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(rec.Qty)
		if err != nil {
			return nil, fmt.Errorf("encode quantity for %q: %w", rec.Name, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i < len(records)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
