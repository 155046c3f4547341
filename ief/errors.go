package ief

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind rather than matching error strings;
// Error() messages are for humans and may evolve.
type Kind string

const (
	// KindFormat: the source text could not be decomposed into structural
	// tokens. Raised at read time; no partial document is returned.
	KindFormat Kind = "Format"
	// KindConfiguration: a derived-structure precondition was violated
	// before resync (e.g. the EventData attribute holds a non-map value).
	// Raised before any token-list mutation.
	KindConfiguration Kind = "Configuration"
	// KindValidation: one or more attributes failed their declared rule at
	// write time. The write is never attempted.
	KindValidation Kind = "Validation"
	// KindResource: an external file referenced by the document could not
	// be used.
	KindResource Kind = "Resource"
	// KindInternal: an invariant the package maintains itself was broken.
	KindInternal Kind = "Internal"
)

// Error is the package's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	if cause == nil {
		return newError(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
