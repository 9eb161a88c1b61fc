// Package apperr defines the closed set of error kinds the gateway can
// produce. Handlers map kinds to HTTP status codes at the boundary; nothing
// below the boundary inspects status codes.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// Validation covers malformed or contradictory client input.
	Validation Kind = iota + 1
	// Configuration covers missing credentials or other startup-time state
	// required by the attempted operation.
	Configuration
	// LimitExceeded covers local risk guardrail rejections.
	LimitExceeded
	// Remote covers non-2xx venue responses and transport failures.
	Remote
	// Unauthorized covers a bad or missing gateway shared secret.
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Configuration:
		return "configuration"
	case LimitExceeded:
		return "limit_exceeded"
	case Remote:
		return "remote"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is the structured error carried through the gateway.
// Status and Body are only set for Remote errors that reached the venue.
type Error struct {
	Kind   Kind
	Msg    string
	Status int             // venue HTTP status, 0 when the call never completed
	Body   json.RawMessage // venue response body, nil when unparseable/absent
	Err    error           // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Newf builds an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an Error of the given kind.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// RemoteHTTP builds a Remote error for a non-2xx venue response. The body is
// kept verbatim when it is valid JSON so the boundary can propagate it.
func RemoteHTTP(status int, body []byte) *Error {
	e := &Error{Kind: Remote, Status: status}
	if json.Valid(body) && len(body) > 0 {
		e.Body = json.RawMessage(body)
		e.Msg = fmt.Sprintf("venue returned %d", status)
	} else {
		e.Msg = fmt.Sprintf("venue returned %d: %s", status, string(body))
	}
	return e
}

// As unwraps err into *Error, or nil if err is not one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}

// HTTPStatus maps an error to the status code the gateway responds with.
// Remote errors propagate the venue status when one was received, otherwise
// they surface as 502.
func HTTPStatus(err error) int {
	e := As(err)
	if e == nil {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case Validation, LimitExceeded:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Configuration:
		return http.StatusInternalServerError
	case Remote:
		if e.Status > 0 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
