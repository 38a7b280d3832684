package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInvalidProfile = errors.New("invalid composition profile")
	ErrEmptySequence  = fmt.Errorf("%w: empty sequence", ErrInvalidProfile)
	ErrInvalidWindow  = errors.New("invalid window coordinates")

	// Collaborator errors
	ErrScanner             = errors.New("motif scanner failed")
	ErrSequenceUnavailable = errors.New("sequence unavailable")

	// Inference errors
	ErrPartialDistribution = errors.New("partial null distribution")
	ErrInvalidLevel        = errors.New("probability level out of range")
)

// NewScannerError reports a scanner failure at a specific trial. The whole
// build aborts on the first such failure: no partial null distribution is
// trusted for inference.
func NewScannerError(trial int, err error) error {
	return fmt.Errorf("%w at trial %d: %v", ErrScanner, trial, err)
}

// NewSequenceError wraps an upstream retrieval failure for a named interval.
func NewSequenceError(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSequenceUnavailable, name, err)
}

// NewValidationError reports a malformed input field.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsProfileError(err error) bool {
	return errors.Is(err, ErrInvalidProfile)
}

func IsScannerError(err error) bool {
	return errors.Is(err, ErrScanner)
}

func IsSequenceError(err error) bool {
	return errors.Is(err, ErrSequenceUnavailable)
}

func IsPartialDistributionError(err error) bool {
	return errors.Is(err, ErrPartialDistribution)
}
