package molcom

// errors.go holds the error taxonomy shared by every stage of descriptor processing.
// Stages wrap one of the sentinels below with fmt.Errorf("...: %w", ...) so that
// callers can classify a failure with errors.Is.

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks a descriptor line or log row that violates its grammar,
	// or a value that fails its declared type coercion
	ErrFormat = errors.New("format error")

	// ErrMissingEntity marks a required key (transmitter, receiver, outputFile, moleculeParams, ...)
	// that is absent when a computation needs it
	ErrMissingEntity = errors.New("missing entity")

	// ErrMissingFile marks a result log absent at its derived location
	ErrMissingFile = errors.New("missing file")

	// ErrEmptyInput marks a result log or step series holding no trials
	ErrEmptyInput = errors.New("empty input")

	// ErrDivision marks a derived denominator that is zero
	ErrDivision = errors.New("division by zero")

	// ErrAmbiguousRole marks zero or several molecule batches matching a role
	// the analytical model needs exactly one of
	ErrAmbiguousRole = errors.New("ambiguous molecule role")
)

// DescriptorError reports the failure of one configuration. Path identifies the
// descriptor file, Stage the processing step that failed.
type DescriptorError struct {
	Path  string `json:"path" yaml:"path"`
	Stage string `json:"stage" yaml:"stage"`
	Err   error  `json:"-" yaml:"-"`
}

func (de *DescriptorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", de.Path, de.Stage, de.Err)
}

func (de *DescriptorError) Unwrap() error {
	return de.Err
}

// formatErr builds an ErrFormat carrying a description of the offending input
func formatErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}
