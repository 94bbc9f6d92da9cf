// Package gqerr defines the typed error kinds of spec §7. Every error the
// engine raises — from parse failure through plan teardown — is one of
// these, so callers can switch on Kind rather than string-matching.
package gqerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category distinguishes the seven error kinds enumerated in §7.
type Category string

const (
	CategoryParse      Category = "ParseError"
	CategoryValidation Category = "ValidationError"
	CategoryType       Category = "TypeError"
	CategoryConstraint Category = "ConstraintError"
	CategoryResource   Category = "ResourceError"
	CategoryCancelled  Category = "Cancelled"
	CategoryInternal   Category = "Internal"
)

// Error is the engine's single error type. Kind narrows Category (e.g.
// Category is always "ValidationError" but Kind might be
// "UnknownFunction" or "UndefinedAlias"), mirroring the teacher's
// FooError{Kind, Message} idiom (internal/graph/errors.go,
// internal/query/errors.go, internal/dsl/errors.go before the rewrite)
// generalized to one shared type across the whole module.
type Error struct {
	Category Category
	Kind     string
	Message  string
	Pos      *Position
	cause    error
}

// Position is a parse-error source location, surfaced per §7's
// "ParseError...surfaced with position".
type Position struct {
	Line, Column int
}

func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s (%s) at %d:%d: %s", e.Category, e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

func new_(cat Category, kind, format string, args ...any) *Error {
	return &Error{Category: cat, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Parse builds a ParseError with a source position.
func Parse(line, col int, format string, args ...any) *Error {
	e := new_(CategoryParse, "SyntaxError", format, args...)
	e.Pos = &Position{Line: line, Column: col}
	return e
}

// Validation builds a ValidationError.
func Validation(kind, format string, args ...any) *Error {
	return new_(CategoryValidation, kind, format, args...)
}

// Type builds a runtime TypeError.
func Type(kind, format string, args ...any) *Error {
	return new_(CategoryType, kind, format, args...)
}

// Constraint builds a ConstraintError (index create/drop misuse).
func Constraint(kind, format string, args ...any) *Error {
	return new_(CategoryConstraint, kind, format, args...)
}

// Resource builds a ResourceError, wrapping the underlying allocation
// failure with a stack trace via github.com/pkg/errors so the operator
// that hit it can be identified post-mortem.
func Resource(kind string, cause error, format string, args ...any) *Error {
	e := new_(CategoryResource, kind, format, args...)
	if cause != nil {
		e.cause = errors.WithStack(cause)
	}
	return e
}

// Cancelled builds the Cancelled error raised when a query's cancellation
// token fires between consume calls (§5).
func Cancelled() *Error {
	return new_(CategoryCancelled, "Cancelled", "query cancelled")
}

// Internal builds an assertion-like Internal error (invariant violation,
// never user-caused), capturing a stack trace so it is debuggable.
func Internal(format string, args ...any) *Error {
	e := new_(CategoryInternal, "InvariantViolation", format, args...)
	e.cause = errors.WithStack(fmt.Errorf(format, args...))
	return e
}

// Is reports whether err is a *Error of the given category, unwrapping
// through github.com/pkg/errors-style causes.
func Is(err error, cat Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == cat
	}
	return false
}
