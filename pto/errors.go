/*
errors.go - Error types for the ledger engine

PURPOSE:
  The engine degrades rather than fails: a bad template produces a
  build with zero accruals plus a diagnostic, and overdraw clamps to
  zero with a Warning. The only hard error is a configuration the
  schedule generator cannot interpret at all.

USAGE:
  Callers match with errors.Is:

    if errors.Is(err, pto.ErrUnsupportedFrequency) {
        // fall back to a default template
    }
*/
package pto

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrUnsupportedFrequency is returned when a pay-period template
	// carries a frequency the schedule generator does not understand.
	ErrUnsupportedFrequency = errors.New("unsupported accrual frequency")

	// ErrNoVisibleYears is returned when a config defines no computed
	// range at all.
	ErrNoVisibleYears = errors.New("config has no visible years")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ConfigurationError reports a plan configuration the engine cannot
// act on. Fatal to accrual generation for that build only: the caller
// receives an empty accrual set, not a crash.
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%q", e.Field, e.Value)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrUnsupportedFrequency
}
