package quipbridge

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a call produced no result.
type ErrorKind string

const (
	KindTransport        ErrorKind = "transport"
	KindStatus           ErrorKind = "status"
	KindDecode           ErrorKind = "decode"
	KindRetriesExhausted ErrorKind = "retries_exhausted"
	KindCanceled         ErrorKind = "canceled"
)

var (
	ErrTransport        = errors.New("transport failure")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDecode           = errors.New("response decode failed")
	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrCanceled         = errors.New("call canceled")
)

// CallError is returned for every failed call. It matches the sentinel for
// its Kind with errors.Is and unwraps to the underlying cause, if any.
type CallError struct {
	Kind       ErrorKind
	Method     string
	Endpoint   string
	StatusCode int
	// Class and Attempts are set when Kind is KindRetriesExhausted.
	Class    FailureClass
	Attempts int
	Err      error
}

func (e *CallError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.sentinel())
	switch e.Kind {
	case KindStatus:
		msg += fmt.Sprintf(" %d", e.StatusCode)
	case KindRetriesExhausted:
		msg += fmt.Sprintf(" (%s, %d attempts)", e.Class, e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CallError) Unwrap() error { return e.Err }

func (e *CallError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *CallError) sentinel() error {
	switch e.Kind {
	case KindTransport:
		return ErrTransport
	case KindStatus:
		return ErrUnexpectedStatus
	case KindDecode:
		return ErrDecode
	case KindRetriesExhausted:
		return ErrRetriesExhausted
	case KindCanceled:
		return ErrCanceled
	}
	return nil
}
