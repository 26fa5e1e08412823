// Package apperr defines the closed error taxonomy exposed at the boundary
// of every public operation: validation, authorization, not-found and
// resource errors. Lower-level failures are converted into one of these
// four kinds by explicit mapping at the transport layer; resource causes are
// logged but their text never reaches a client.
package apperr

import "errors"

type Kind int

const (
	// KindValidation covers client-fixable input errors: bad path syntax,
	// absolute or parent-directory paths, a directory where a file was
	// expected.
	KindValidation Kind = iota + 1
	// KindAuthorization covers identity failures: an unauthenticated
	// request or a foreign upload token. Surfaced distinctly from
	// validation so clients can prompt re-login instead of fixing input.
	KindAuthorization
	// KindNotFound covers unknown upload tokens, missing share links and
	// missing paths.
	KindNotFound
	// KindResource covers filesystem and archive I/O failures. Clients see
	// a generic message only.
	KindResource
)

// Error is the tagged variant carried across the operation boundary.
type Error struct {
	Kind    Kind
	Message string // safe to show clients
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: cause}
}

func Authorization(msg string, cause error) *Error {
	return &Error{Kind: KindAuthorization, Message: msg, Err: cause}
}

func NotFound(msg string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: cause}
}

func Resource(cause error) *Error {
	return &Error{Kind: KindResource, Message: "the server encountered an error processing your request", Err: cause}
}

// KindOf reports the taxonomy kind of err, or zero when err does not carry
// one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
