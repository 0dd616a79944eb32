package authoring

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies failures so retry decisions are made on structure,
// not on substring matching of error text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindTransport // connection refused, DNS, broken pipe
	KindTimeout   // deadline exceeded, net timeouts
	KindBackend   // backend answered {success:false}
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is the package error type. Op names the operation that failed
// ("create topic", "upload batch", ...).
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from any error in the chain.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// ValidationError carries the per-field error map produced by the draft gate.
// It is returned instead of a thrown exception so callers can highlight fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// ErrSaveInProgress is returned when a second save is triggered while a
// previous orchestration is still running, and when the draft is mutated
// mid-save.
var ErrSaveInProgress = errors.New("authoring: save already in progress")

// classifyTransport turns a raw http.Client error into a transport or
// timeout kind.
func classifyTransport(op string, err error) *Error {
	kind := KindTransport
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		kind = KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
