package borsh

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType         = errors.New("borsh: unknown type")
	ErrValueOutOfRange     = errors.New("borsh: value out of range")
	ErrLengthMismatch      = errors.New("borsh: length mismatch")
	ErrMissingField        = errors.New("borsh: missing field")
	ErrInvalidVariant      = errors.New("borsh: invalid variant")
	ErrTruncatedInput      = errors.New("borsh: truncated input")
	ErrUnknownDiscriminant = errors.New("borsh: unknown discriminant")

	// Registration and construction failures.
	ErrInvalidDescriptor = errors.New("borsh: invalid descriptor")
	ErrUnknownField      = errors.New("borsh: unknown field")
	ErrTypeMismatch      = errors.New("borsh: value does not match descriptor")
)

// EncodingError reports a failure while validating or encoding a value.
// Path locates the offending value inside the value tree, e.g.
// "GameState.playField[4]".
type EncodingError struct {
	Path   string
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%v at %s: %s", e.Err, e.Path, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// DecodingError reports a failure while decoding a byte buffer. Offset is
// the cursor position at which the failing shape started.
type DecodingError struct {
	Path   string
	Offset int
	Reason string
	Err    error
}

func (d *DecodingError) Error() string {
	if d.Path == "" {
		return fmt.Sprintf("%v at offset %d: %s", d.Err, d.Offset, d.Reason)
	}
	return fmt.Sprintf("%v at %s (offset %d): %s", d.Err, d.Path, d.Offset, d.Reason)
}

func (d *DecodingError) Unwrap() error {
	return d.Err
}

// Errorf wraps a sentinel with formatted detail so the result still matches
// the sentinel under errors.Is.
func Errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}
