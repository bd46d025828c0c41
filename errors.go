package powerof10

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindValidation: a required filter is missing or an enumerated value is
	// unknown. Raised before any request is made.
	KindValidation Kind = iota + 1
	// KindBroadQuery: the site reports too many matches.
	KindBroadQuery
	// KindNotFound: the site reports no matches or an unknown id.
	KindNotFound
	// KindTransport: the request failed or returned a non-200 status.
	KindTransport
	// KindExtraction: the page does not have the expected shape.
	KindExtraction
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBroadQuery:
		return "broad query"
	case KindNotFound:
		return "not found"
	case KindTransport:
		return "transport"
	case KindExtraction:
		return "extraction"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrValidation = errors.New("validation error")
	ErrBroadQuery = errors.New("broad query")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("transport error")
	ErrExtraction = errors.New("extraction error")
)

var sentinels = map[Kind]error{
	KindValidation: ErrValidation,
	KindBroadQuery: ErrBroadQuery,
	KindNotFound:   ErrNotFound,
	KindTransport:  ErrTransport,
	KindExtraction: ErrExtraction,
}

// Error is returned by every Client operation.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "SearchAthletes".
	Op string
	// Msg is a human readable message. For broad-query and not-found errors
	// raised from a site marker it is the site's own text.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func validationError(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func broadQueryError(op, msg string) *Error {
	return &Error{Kind: KindBroadQuery, Op: op, Msg: msg}
}

func notFoundError(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Msg: "request failed", Err: err}
}

func extractionError(op, format string, args ...any) *Error {
	return &Error{Kind: KindExtraction, Op: op, Msg: fmt.Sprintf(format, args...)}
}
