package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies what went wrong during an execution attempt. The
// client's fallback decision hinges on it: auth and backend errors are
// final, everything else earns one bulk-export retry.
type Kind string

const (
	// KindAuth means the backend rejected our credentials. Retrying
	// on the bulk transport is pointless, the token is the same.
	KindAuth Kind = "auth"
	// KindTimeout means a transport exceeded its allotted time.
	KindTimeout Kind = "timeout"
	// KindBackend means the backend answered with an error control
	// message. The query itself is the problem, not the transport.
	KindBackend Kind = "backend"
	// KindTooBroad means the backend declared the query too broad to
	// stream. Never surfaced to callers: the client reacts by
	// switching to the bulk transport.
	KindTooBroad Kind = "too_broad"
	// KindFailure covers connection-level trouble: refused, reset,
	// undecodable payloads.
	KindFailure Kind = "failure"
)

// Error describes a failed transport operation with enough context
// for the caller to decide whether a narrower query would help.
type Error struct {
	Kind      Kind
	Transport string // which transport was in use
	Stage     string // dial, handshake, control, stream, export, decode
	Err       error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Transport, e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v", e.Transport, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindAuth
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindTimeout
}

// isBackend reports whether err is a backend-reported query error.
func isBackend(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindBackend
}

// timeoutKind distinguishes deadline trouble from plain connection
// failure when classifying a transport error.
func timeoutKind(err error) Kind {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindFailure
}
