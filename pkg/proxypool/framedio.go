package proxypool

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/kofany/enemy/pkg/proxypool/perrors"
)

// readExactTimed fills buf completely from conn, bounded by the overall
// timeout. Before each underlying Read it recomputes the *remaining* budget
// and sets it as the connection's read deadline — Go's netpoller already
// turns the non-blocking-socket readiness wait the source hand-rolls with
// poll()/EAGAIN into a parked goroutine that the deadline or data arrival
// wakes, so no explicit readiness loop is needed here.
func readExactTimed(conn net.Conn, buf []byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	total := 0
	for total < len(buf) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return perrors.New(perrors.Timeout, "read", conn.RemoteAddr().String(), "readiness wait expired", nil)
		}
		if err := conn.SetReadDeadline(time.Now().Add(remaining)); err != nil {
			return perrors.New(perrors.IO, "read", conn.RemoteAddr().String(), "set read deadline", err)
		}
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return perrors.New(perrors.Timeout, "read", conn.RemoteAddr().String(), "readiness wait expired", nil)
			}
			if err == io.EOF {
				if total == len(buf) {
					break
				}
				return perrors.New(perrors.PeerClosed, "read", conn.RemoteAddr().String(), "peer closed before full read", nil)
			}
			return perrors.New(perrors.IO, "read", conn.RemoteAddr().String(), "read failed", err)
		}
		if n == 0 && total < len(buf) {
			return perrors.New(perrors.PeerClosed, "read", conn.RemoteAddr().String(), "zero-byte read before full count", nil)
		}
	}
	return nil
}

// writeAllTimed writes buf completely to conn, bounded by the overall
// timeout, recomputing the remaining budget before each underlying Write.
func writeAllTimed(conn net.Conn, buf []byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	total := 0
	for total < len(buf) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return perrors.New(perrors.Timeout, "write", conn.RemoteAddr().String(), "readiness wait expired", nil)
		}
		if err := conn.SetWriteDeadline(time.Now().Add(remaining)); err != nil {
			return perrors.New(perrors.IO, "write", conn.RemoteAddr().String(), "set write deadline", err)
		}
		n, err := conn.Write(buf[total:])
		total += n
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return perrors.New(perrors.Timeout, "write", conn.RemoteAddr().String(), "readiness wait expired", nil)
			}
			return perrors.New(perrors.IO, "write", conn.RemoteAddr().String(), "write failed", err)
		}
	}
	return nil
}

// readByteTimed reads exactly one byte, used by the HTTP CONNECT response
// reader's byte-by-byte scan for the "\r\n\r\n" sentinel.
func readByteTimed(conn net.Conn, deadline time.Time) (byte, error) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, perrors.New(perrors.Timeout, "read", conn.RemoteAddr().String(), "readiness wait expired", nil)
	}
	if err := conn.SetReadDeadline(time.Now().Add(remaining)); err != nil {
		return 0, perrors.New(perrors.IO, "read", conn.RemoteAddr().String(), "set read deadline", err)
	}
	var b [1]byte
	n, err := conn.Read(b[:])
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return 0, perrors.New(perrors.Timeout, "read", conn.RemoteAddr().String(), "readiness wait expired", nil)
		}
		if err == io.EOF {
			return 0, perrors.New(perrors.PeerClosed, "read", conn.RemoteAddr().String(), "peer closed", nil)
		}
		return 0, perrors.New(perrors.IO, "read", conn.RemoteAddr().String(), "read failed", err)
	}
	if n == 0 {
		return 0, perrors.New(perrors.PeerClosed, "read", conn.RemoteAddr().String(), "zero-byte read", nil)
	}
	return b[0], nil
}
