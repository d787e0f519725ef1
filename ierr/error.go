// Package ierr defines the closed error-kind taxonomy shared by every layer
// of the install/uninstall engine. It is imported under the alias "ierr" to
// avoid shadowing the standard library's errors package.
package ierr

import "strings"

// Kind is a closed enumeration of the reasons an install/uninstall operation
// can fail. Callers that only care whether an error is recoverable-by-retry,
// recoverable-by-operator, or neither should switch on Kind rather than
// inspect error strings.
type Kind int

const (
	KindIO Kind = iota
	KindInvalidInput
	KindInvalidData
	KindUnsupportedOSFamily
	KindInvalidEnvironmentVariable
	KindUnknownExecutablePath
	KindInvalidPackageManifest
	KindDiskManifestNotFound
	KindMalformedDiskManifest
	KindInvalidDiskManifest
	KindMismatchedDiskManifest
	KindUnknownFileInDestination
	KindTerminal
	KindAlreadyInstalled
	KindNotInstalled
	KindInterruptedByUser
	KindOther
)

var kindMessages = map[Kind]string{
	KindIO:                         "I/O error",
	KindInvalidInput:               "invalid input",
	KindInvalidData:                "invalid data",
	KindUnsupportedOSFamily:        "unsupported operating system family",
	KindInvalidEnvironmentVariable: "invalid or missing environment variable",
	KindUnknownExecutablePath:      "could not determine the current executable's path",
	KindInvalidPackageManifest:     "invalid package manifest",
	KindDiskManifestNotFound:       "disk manifest not found",
	KindMalformedDiskManifest:      "disk manifest is malformed",
	KindInvalidDiskManifest:        "disk manifest is invalid",
	KindMismatchedDiskManifest:     "disk manifest does not match the requested application",
	KindUnknownFileInDestination:   "an unrecognized file already occupies the destination",
	KindTerminal:                   "terminal interface error",
	KindAlreadyInstalled:           "already installed",
	KindNotInstalled:               "not installed",
	KindInterruptedByUser:          "interrupted by user",
	KindOther:                      "error",
}

// String returns the fixed, human-readable message for the kind.
func (k Kind) String() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return "unknown error"
}

// Error is the composite error type returned by every public operation in
// this module. It pairs a closed-enum Kind with an accumulated,
// outermost-first context chain and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Context []string
	Cause   error
}

// New constructs an Error of the given kind with no context or cause.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap constructs an Error of the given kind wrapping an underlying cause.
// If cause is already an *Error, its kind is NOT inherited: Wrap always
// reports the kind passed in, preserving the wrapped error's own kind and
// context for inspection via Unwrap/errors.As.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// WithContext returns a copy of e with msg prepended to the context chain.
// The first call (closest to the failure) contributes the innermost
// context line; callers further up the stack call WithContext again as the
// error propagates, so Context reads outermost-first after all calls.
func (e *Error) WithContext(msg string) *Error {
	next := &Error{
		Kind:  e.Kind,
		Cause: e.Cause,
	}
	next.Context = make([]string, 0, len(e.Context)+1)
	next.Context = append(next.Context, msg)
	next.Context = append(next.Context, e.Context...)
	return next
}

// Error renders the context chain followed by the kind's fixed message and,
// if present, the wrapped cause on a following line.
func (e *Error) Error() string {
	var b strings.Builder

	for _, ctx := range e.Context {
		b.WriteString(ctx)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())

	if e.Cause != nil {
		b.WriteString("\n↳ ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap exposes the wrapped cause to the standard errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, ierr.New(ierr.KindAlreadyInstalled)) works as a kind test.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf walks err's Unwrap chain and returns the Kind of the first *Error
// found, or KindOther if err is nil or no *Error is present in the chain.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindOther
}
