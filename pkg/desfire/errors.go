package desfire

import (
	"fmt"

	"github.com/gregLibert/desfire-read/pkg/apdu"
)

// Kind classifies engine failures.
type Kind int

const (
	// KindArgument marks malformed or out-of-range caller input,
	// detected before any card I/O.
	KindArgument Kind = iota + 1
	// KindTransport marks card discovery or exchange failures, including
	// timeouts and platform-level NFC errors.
	KindTransport
	// KindProtocol marks unexpected status words, undersized responses,
	// authentication mismatches and unsupported tag types.
	KindProtocol
	// KindCrypto marks cipher failures: bad key or IV sizes, invalid hex
	// in MAC inputs, misaligned blocks.
	KindCrypto
)

func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "argument error"
	case KindTransport:
		return "transport error"
	case KindProtocol:
		return "protocol error"
	case KindCrypto:
		return "crypto error"
	default:
		return "unknown error"
	}
}

// Error is the single error type crossing the engine boundary. The Kind
// tag selects the failure class; Status is set when the card answered
// with an unexpected status word.
type Error struct {
	Kind    Kind
	Op      string          // pipeline step, e.g. "select application"
	Status  apdu.StatusWord // zero unless a status word caused the failure
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the failure class, or 0 for foreign errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}

func argErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindArgument, Message: fmt.Sprintf(format, args...)}
}

func protocolErrorf(op, format string, args ...any) *Error {
	return &Error{Kind: KindProtocol, Op: op, Message: fmt.Sprintf(format, args...)}
}

func cryptoError(op string, cause error) *Error {
	return &Error{Kind: KindCrypto, Op: op, Cause: cause}
}

// transportError classifies a failed transceive. Errors already tagged by
// the transport implementation keep their kind.
func transportError(op string, err error) *Error {
	if e, ok := err.(*Error); ok {
		if e.Op == "" {
			e.Op = op
		}
		return e
	}
	return &Error{Kind: KindTransport, Op: op, Cause: err}
}

// responseError classifies a response that failed validation: a status
// mismatch is a protocol failure carrying the actual word, and so are
// undersized responses and malformed status trailers.
func responseError(op string, err error) *Error {
	if statusErr, ok := err.(*apdu.StatusError); ok {
		return &Error{
			Kind:    KindProtocol,
			Op:      op,
			Status:  statusErr.Status,
			Message: statusErr.Status.Describe(),
			Cause:   statusErr,
		}
	}
	return &Error{Kind: KindProtocol, Op: op, Cause: err}
}
