package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status code.
type Kind int

const (
	Unknown Kind = iota
	InvalidInput
	TooManyRequests
	Configuration
	Storage
	UpstreamTimeout
	UpstreamUnreachable
	Upstream
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case TooManyRequests:
		return "too_many_requests"
	case Configuration:
		return "configuration_error"
	case Storage:
		return "storage_error"
	case UpstreamTimeout:
		return "upstream_timeout"
	case UpstreamUnreachable:
		return "upstream_unreachable"
	case Upstream:
		return "upstream_error"
	}
	return "unknown"
}

// Error is a classified failure. Msg is safe to show to API callers;
// Err (if any) is the underlying cause and is only logged.
type Error struct {
	Kind Kind
	Code int // upstream status code, only meaningful for Upstream
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Invalid(msg string) error { return &Error{Kind: InvalidInput, Msg: msg} }

func RateLimited(msg string) error { return &Error{Kind: TooManyRequests, Msg: msg} }

func Config(msg string) error { return &Error{Kind: Configuration, Msg: msg} }

func StorageFailure(msg string, err error) error {
	return &Error{Kind: Storage, Msg: msg, Err: err}
}

func Timeout(msg string, err error) error {
	return &Error{Kind: UpstreamTimeout, Msg: msg, Err: err}
}

func Unreachable(msg string, err error) error {
	return &Error{Kind: UpstreamUnreachable, Msg: msg, Err: err}
}

func UpstreamStatus(code int, msg string) error {
	return &Error{Kind: Upstream, Code: code, Msg: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Status maps err to the HTTP status the API responds with.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case InvalidInput:
		return http.StatusBadRequest
	case TooManyRequests:
		return http.StatusTooManyRequests
	case UpstreamTimeout:
		return http.StatusGatewayTimeout
	case UpstreamUnreachable:
		return http.StatusBadGateway
	case Upstream:
		if e.Code >= 400 && e.Code <= 599 {
			return e.Code
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Message returns the caller-facing text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
