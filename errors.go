package flightsync

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindTimeout
	KindRequestFailed
	KindConnectionRefused
	KindProvisioning
	KindHTTPError
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRequestFailed:
		return "request_failed"
	case KindConnectionRefused:
		return "connection_refused"
	case KindProvisioning:
		return "provisioning"
	case KindHTTPError:
		return "http_error"
	default:
		return "unexpected"
	}
}

// Error is the failure returned by the fetcher and the indexer. Its message is
// meant for humans; Kind is there for callers that need to branch.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// NewError returns an Error with a formatted message.
func NewError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or
// KindUnexpected if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// responseError is an error status answered by Elasticsearch or Kibana.
type responseError struct {
	Status string
	Body   string
}

func (e *responseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Status, e.Body)
}
