// Package ragerr implements the error taxonomy used across the service:
// VALIDATION (caller violated the contract), FILE_OPERATION (I/O or parser
// fault on a specific file), EMBEDDING (model init/inference failure), and
// DATABASE (vector/FTS store failure). Kinds are conceptual, not Go types
// beyond this one wrapper, so call sites can still errors.Is/As through to
// the underlying cause.
package ragerr

import "fmt"

// Kind is one of the four conceptual error kinds.
type Kind string

const (
	Validation    Kind = "VALIDATION"
	FileOperation Kind = "FILE_OPERATION"
	Embedding     Kind = "EMBEDDING"
	Database      Kind = "DATABASE"
)

// Error wraps an underlying cause with a taxonomy Kind and a short
// human-readable message. Source, when set, identifies the file path or
// other subject the error concerns (never document bodies or query text).
type Error struct {
	Kind    Kind
	Message string
	Source  string
	Err     error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Source, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a Error with no chained cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error chaining an underlying cause.
func Wrap(kind Kind, source, message string, err error) *Error {
	return &Error{Kind: kind, Source: source, Message: message, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if asErr, ok := err.(*Error); ok {
			e = asErr
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
