// Package common provides shared logging and error types used across the
// reconciliation engines.
package common

import (
	"errors"
	"fmt"
)

// Structural errors: raised before any row-level processing begins. Row-level
// problems never surface here; they degrade to absent values or issue tags.
var (
	// ErrMissingInput indicates a required record batch was not provided.
	ErrMissingInput = errors.New("missing required input batch")

	// ErrMissingField indicates a required field is absent from an input
	// batch (the loading layer failed to map a column).
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidConfig indicates a nonsensical engine configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingInput names the absent batch in a structural error.
func MissingInput(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, name)
}

// MissingFields names the absent fields and their batch in a structural
// error.
func MissingFields(batch string, fields []string) error {
	return fmt.Errorf("%w: %s batch lacks %v", ErrMissingField, batch, fields)
}
