// Package script runs YAML lists of inventory operations against a store.
//
// Values keep their YAML typing, so a script can feed the store a numeric item name or a word
// where a quantity belongs and observe the rejection instead of failing to decode.
package script

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stocktrack/pkg/inventory"
)

//go:embed demo.yaml
var demoYAML []byte

const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpQty    = "qty"
	OpLow    = "low"
	OpReport = "report"
	OpReset  = "reset"
)

// Step is one operation. Item, Qty and Threshold are left untyped on purpose.
type Step struct {
	Op        string `yaml:"op"`
	Item      any    `yaml:"item,omitempty"`
	Qty       any    `yaml:"qty,omitempty"`
	Threshold any    `yaml:"threshold,omitempty"`
}

// Script is a named sequence of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Result describes what one step did.
type Result struct {
	Index  int
	Step   Step
	Err    error
	Qty    inventory.Quantity
	Found  bool
	Low    []string
	Report string
}

// Outcome classifies the step result.
func (r Result) Outcome() inventory.Outcome {
	return inventory.OutcomeOf(r.Err)
}

// Parse decodes a script and checks that every op is known.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Steps {
		switch step.Op {
		case OpAdd, OpRemove, OpQty, OpLow, OpReport, OpReset:
		default:
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}
	return &s, nil
}

// LoadFile reads and parses the script at path.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Demo returns the built-in demonstration script.
func Demo() (*Script, error) {
	return Parse(demoYAML)
}

// Run executes every step against store. A failing step never stops the script; its error is
// reported in the matching Result. threshold is used by low steps that do not set their own.
func (s *Script) Run(store *inventory.Store, journal *inventory.Journal, threshold inventory.Quantity) []Result {
	results := make([]Result, 0, len(s.Steps))
	for i, step := range s.Steps {
		res := Result{Index: i + 1, Step: step}
		switch step.Op {
		case OpAdd:
			res.Err = store.AddValue(step.Item, step.Qty, journal)
		case OpRemove:
			res.Err = store.RemoveValue(step.Item, step.Qty)
		case OpQty:
			res.Qty, res.Found = store.QtyValue(step.Item)
		case OpLow:
			limit := threshold
			if step.Threshold != nil {
				limit, res.Err = inventory.QuantityFrom("threshold", step.Threshold)
			}
			if res.Err == nil {
				res.Low = store.LowItems(limit)
			}
		case OpReport:
			var buf bytes.Buffer
			res.Err = store.Report(&buf)
			res.Report = buf.String()
		case OpReset:
			store.Reset()
		}
		results = append(results, res)
	}
	return results
}
