package inventory

import (
	"errors"
	"fmt"
	"strconv"

	"stocktrack/pkg/storage/jsonfile"
)

// Outcome classifies the result of a store operation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalidInput
	OutcomeNotFound
	OutcomeMissingFile
	OutcomeMalformedFile
	OutcomeIOError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalidInput:
		return "invalid_input"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeMissingFile:
		return "missing_file"
	case OutcomeMalformedFile:
		return "malformed_file"
	case OutcomeIOError:
		return "io_error"
	default:
		return "unknown"
	}
}

// OutcomeOf maps an error returned by Store or Service onto an Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case IsValidation(err):
		return OutcomeInvalidInput
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, jsonfile.ErrNotExist):
		return OutcomeMissingFile
	case errors.Is(err, jsonfile.ErrMalformed):
		return OutcomeMalformedFile
	default:
		return OutcomeIOError
	}
}

// Describe renders the one-line diagnostic shown to operators when op ("add", "remove",
// "load", "save", ...) fails. A nil error yields "".
func Describe(op string, err error) string {
	if err == nil {
		return ""
	}
	var verr *validationError
	if errors.As(err, &verr) {
		if verr.kind == ErrInvalidItem {
			return fmt.Sprintf("Invalid item name: %s. Must be a non-empty string.", repr(verr.item))
		}
		if verr.overflow {
			return fmt.Sprintf("Invalid quantity for %s: %s. Resulting stock is out of range.", repr(verr.item), repr(verr.value))
		}
		return fmt.Sprintf("Invalid quantity for %s: %s. Must be a number.", repr(verr.item), repr(verr.value))
	}
	var missing *missingItemError
	if errors.As(err, &missing) {
		return fmt.Sprintf("Item %s not present in inventory; nothing removed.", strconv.Quote(missing.item))
	}
	var ferr *FileError
	if errors.As(err, &ferr) {
		path := strconv.Quote(ferr.Path)
		switch {
		case ferr.Op == "save":
			return fmt.Sprintf("Failed to write to %s: %v", path, ferr.Err)
		case errors.Is(err, jsonfile.ErrNotExist):
			return fmt.Sprintf("File %s not found; starting with empty inventory.", path)
		case errors.Is(err, jsonfile.ErrMalformed):
			return fmt.Sprintf("File %s contains invalid JSON; starting with empty inventory.", path)
		default:
			return fmt.Sprintf("File %s could not be read (%v); starting with empty inventory.", path, ferr.Err)
		}
	}
	return fmt.Sprintf("%s failed: %v", op, err)
}

// Confirm renders the success line for load and save.
func Confirm(op, path string) string {
	switch op {
	case "load":
		return "Loaded data from " + path
	case "save":
		return "Data saved to " + path
	default:
		return ""
	}
}
