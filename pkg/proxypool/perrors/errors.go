// Package perrors provides structured error types for the proxy-pool core.
package perrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Kind represents the category of error produced by a proxy-pool operation.
type Kind string

const (
	// Parse indicates a malformed proxy-list line.
	Parse Kind = "parse"
	// Resolve indicates a DNS failure during parsing.
	Resolve Kind = "resolve"
	// ConnectTimeout indicates the dialer's connect-readiness wait expired.
	ConnectTimeout Kind = "connect_timeout"
	// ConnectRefused indicates SO_ERROR was nonzero after connect.
	ConnectRefused Kind = "connect_refused"
	// ConnectIO indicates a low-level I/O failure during connect.
	ConnectIO Kind = "connect_io"
	// Timeout indicates a framed-I/O readiness wait expired during a handshake.
	Timeout Kind = "timeout"
	// PeerClosed indicates the proxy closed the connection mid-handshake.
	PeerClosed Kind = "peer_closed"
	// IO indicates a non-timeout I/O failure during a handshake.
	IO Kind = "io"
	// Rejected indicates a protocol-level refusal (SOCKS status, HTTP status).
	Rejected Kind = "rejected"
	// AuthFailed indicates SOCKS5 username/password authentication failed.
	AuthFailed Kind = "auth_failed"
	// NoAcceptableMethod indicates the SOCKS5 server accepted none of the offered methods.
	NoAcceptableMethod Kind = "no_acceptable_method"
)

// Error is a structured error carrying the proxy-pool operation context.
type Error struct {
	Kind      Kind
	Op        string // e.g. "socks5.greet", "http_connect.response", "dial"
	Proxy     string // host:port of the proxy involved, if any
	Code      int    // protocol status byte/code for Rejected, 0 otherwise
	Message   string
	Cause     error
	Timestamp time.Time
}

// Error implements the error interface.
// Format: [kind] op proxy: message: cause
func (e *Error) Error() string {
	s := fmt.Sprintf("[%s]", e.Kind)
	if e.Op != "" {
		s += " " + e.Op
	}
	if e.Proxy != "" {
		s += " " + e.Proxy
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a structured error of the given kind.
func New(kind Kind, op, proxy, message string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Op:        op,
		Proxy:     proxy,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// NewRejected builds a Rejected error carrying the protocol status code.
func NewRejected(op, proxy string, code int) *Error {
	return &Error{
		Kind:      Rejected,
		Op:        op,
		Proxy:     proxy,
		Code:      code,
		Message:   fmt.Sprintf("rejected with code %d", code),
		Timestamp: time.Now(),
	}
}

// IsTimeout reports whether err is a Timeout/ConnectTimeout error, a net.Error
// timeout, or a context deadline exceeded.
func IsTimeout(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == Timeout || e.Kind == ConnectTimeout {
			return true
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsTemporary reports whether err looks like a transient network condition.
func IsTemporary(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// GetKind returns the Kind of err if it is a structured *Error, or "" otherwise.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
