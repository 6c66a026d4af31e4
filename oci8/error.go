package oci8

import (
	"strconv"

	"gopkg.in/errgo.v1"
)

// Client-side error kinds. Server errors keep their own positive codes,
// so the kinds raised by this package are negative and can never collide.
const (
	UnsupportedType  = -(iota + 1) // no variable type resolves for the descriptor
	ArityMismatch                  // array-bind cardinality disagreement
	MissingArraySize               // batch execute without an agreed cardinality
	EmptyArrayBind                 // batch execute with zero-length arrays
	EncodingOverflow               // value does not fit a fixed-width encoding
	StateViolation                 // operation invoked out of sequence
)

// Error is the error type raised by this package: a stable code
// (negative for client-side kinds, positive for server errors), a
// message, and optionally the place it was raised at and a row offset.
type Error struct {
	Code    int
	Message string
	At      string
	Offset  int
}

func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (err Error) Error() string {
	return err.String()
}

func (err Error) String() string {
	tail := strconv.Itoa(err.Code) + ": " + err.Message
	var head string
	if err.Offset != 0 {
		head = "row " + strconv.Itoa(err.Offset) + " "
	}
	if err.At != "" {
		return head + "@" + err.At + " " + tail
	}
	return head + tail
}

// Kind returns the error code of err if it is (or wraps) an *Error,
// else 0.
func Kind(err error) int {
	if x, ok := errgo.Cause(err).(*Error); ok {
		return x.Code
	}
	return 0
}

// IsClientError reports whether err carries one of the client-side
// kinds above.
func IsClientError(err error) bool {
	return Kind(err) < 0
}

// IsCollaboratorFailure reports whether err originated in the
// transport or on the server rather than in this package. Such errors
// pass through unchanged; only resource cleanup happens on the way.
func IsCollaboratorFailure(err error) bool {
	return err != nil && Kind(err) >= 0
}

func setErrAt(err error, at string) {
	if x, ok := err.(*Error); ok {
		x.At = at
	}
}
