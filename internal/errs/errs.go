// Package errs holds the error values shared by the query and schema
// packages. Public packages re-export them so callers can match with
// errors.Is regardless of which package produced the error.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a constructor or setter receives
	// a value of the wrong shape.
	ErrInvalidArgument = errors.New("wasp: invalid argument")

	// ErrInvalidOperator is returned for operators outside the allow-list.
	// It matches ErrInvalidArgument as well.
	ErrInvalidOperator = &ArgumentError{Arg: "operator", Reason: "operator not in allowed list"}

	// ErrDomain is returned when arguments are well-formed but violate a
	// schema rule, such as foreign key columns spanning two tables.
	ErrDomain = errors.New("wasp: domain error")

	// ErrNoDefaultTable is returned when an unqualified field is rendered
	// without a default table to qualify it.
	ErrNoDefaultTable = errors.New("wasp: field has no table and no default table is set")

	// ErrUnsupported is returned when a dialect cannot express a construct.
	ErrUnsupported = errors.New("wasp: unsupported by dialect")
)

// ArgumentError describes an invalid argument.
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Arg == "" {
		return "wasp: invalid argument: " + e.Reason
	}
	return "wasp: invalid " + e.Arg + ": " + e.Reason
}

// Is reports ErrInvalidArgument for every ArgumentError. Two ArgumentErrors
// match when they describe the same argument and reason.
func (e *ArgumentError) Is(target error) bool {
	if target == ErrInvalidArgument {
		return true
	}
	t, ok := target.(*ArgumentError)
	return ok && t.Arg == e.Arg && t.Reason == e.Reason
}

// Invalid builds an ArgumentError with a formatted reason.
func Invalid(arg, format string, args ...any) error {
	return &ArgumentError{Arg: arg, Reason: fmt.Sprintf(format, args...)}
}

// Operator reports an operator outside the allow-list.
func Operator(op string) error {
	return fmt.Errorf("%w: %q", ErrInvalidOperator, op)
}

// Domain wraps ErrDomain with a formatted message.
func Domain(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}
