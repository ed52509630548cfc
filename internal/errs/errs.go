// Package errs defines the error kinds surfaced by the slide pipeline.
//
// Every stage wraps its internal failures into one of the kinds below so
// callers can map them to a generic message without inspecting causes.
package errs

import (
	"errors"
	"fmt"
)

// Kind categorises a pipeline failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindExtraction
	KindSynthesis
	KindRender
	KindPersistence
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindExtraction:
		return "extraction"
	case KindSynthesis:
		return "synthesis"
	case KindRender:
		return "render"
	case KindPersistence:
		return "persistence"
	case KindInvalid:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is a kinded pipeline error. Op names the failing operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the generic user-facing text for the error's kind.
func (e *Error) Message() string {
	switch e.Kind {
	case KindExtraction:
		return "Failed to read the file content. Please try again."
	case KindSynthesis:
		return "Failed to process content"
	case KindRender:
		return "Failed to generate PDF. Please try again."
	case KindPersistence:
		return "Failed to access presentation"
	case KindInvalid:
		return "Invalid request"
	default:
		return "Something went wrong"
	}
}

// E wraps err with kind and op. A nil err still yields an error.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Extraction(op string, err error) error  { return E(KindExtraction, op, err) }
func Synthesis(op string, err error) error   { return E(KindSynthesis, op, err) }
func Render(op string, err error) error      { return E(KindRender, op, err) }
func Persistence(op string, err error) error { return E(KindPersistence, op, err) }
func Invalid(op string, err error) error     { return E(KindInvalid, op, err) }

// Is reports whether any error in err's chain is an *Error of kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return (&Error{}).Message()
}
