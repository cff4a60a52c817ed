// internal/domain/failure/failure.go
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies every error the bot can produce.
type Kind string

const (
	KindUnknown           Kind = ""
	KindNetwork           Kind = "NETWORK"
	KindUnexpectedStatus  Kind = "UNEXPECTED_STATUS"
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
	KindMissingField      Kind = "MISSING_FIELD"
	KindShape             Kind = "SHAPE"
	KindUnknownStatus     Kind = "UNKNOWN_STATUS"
	KindDelivery          Kind = "DELIVERY"
	KindConfig            Kind = "CONFIG"
)

// Error is the single error type used across the bot.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int // set for KindUnexpectedStatus
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap creates an error of the given kind around err.
func Wrap(kind Kind, op string, err error, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// UnexpectedStatus reports a non-200 answer from the source API.
func UnexpectedStatus(op string, code int) *Error {
	return &Error{Kind: KindUnexpectedStatus, Op: op, StatusCode: code, Msg: "unexpected response status"}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode returns the HTTP status carried by an unexpected status error, or 0.
func StatusCode(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
