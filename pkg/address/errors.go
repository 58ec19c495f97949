package address

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when the input is not of the form #.#.#.#/#
	ErrInvalidFormat = errors.New("invalid cidr format")
	// ErrInvalidAddress is returned when an octet is not a number in [0,255]
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidMask is returned when the mask is not a number in [0,32]
	ErrInvalidMask = errors.New("invalid subnet mask")
)

// ParseError describes a rejected CIDR or address input.
type ParseError struct {
	Input string
	Token string
	Kind  error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s %q in %q", e.Kind, e.Token, e.Input)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Message returns the short operator-facing diagnostic for the error.
func (e *ParseError) Message() string {
	switch e.Kind {
	case ErrInvalidAddress:
		return "Invalid Address"
	case ErrInvalidMask:
		return "Invalid Subnet"
	default:
		return "Invalid CIDR (#.#.#.#/#)"
	}
}

// Diagnostic returns the operator-facing line for any error produced by this
// package, falling back to the error text for foreign errors.
func Diagnostic(err error) string {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Message()
	}
	return err.Error()
}
