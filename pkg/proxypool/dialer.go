package proxypool

import (
	"context"
	"net"
	"time"

	"github.com/kofany/enemy/pkg/proxypool/perrors"
)

// DialOptions bounds the two phases of Dial: the TCP connect to the proxy
// itself, and the protocol handshake that follows it.
type DialOptions struct {
	ConnectTimeout   time.Duration
	HandshakeTimeout time.Duration
}

// DefaultDialOptions returns the spec's default connect/handshake timeouts.
func DefaultDialOptions() DialOptions {
	return DialOptions{
		ConnectTimeout:   DefaultConnectTimeout,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}
}

// Dial connects to proxy, then performs the handshake declared by
// proxy.DeclaredType to tunnel a CONNECT to destHost:destPort. On any
// failure the socket is closed before the error is returned; on success the
// returned net.Conn is left in a post-handshake state ready for application
// traffic — see SPEC_FULL §4.4.
func Dial(ctx context.Context, proxy *Proxy, destHost string, destPort int, opts DialOptions) (net.Conn, error) {
	d := &net.Dialer{Timeout: opts.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", proxy.Addr())
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, perrors.New(perrors.ConnectTimeout, "dial", proxy.Addr(), "connect timed out", err)
		}
		return nil, perrors.New(perrors.ConnectRefused, "dial", proxy.Addr(), "connect failed", err)
	}

	if errno := readSocketError(conn); errno != 0 {
		conn.Close()
		return nil, perrors.New(perrors.ConnectRefused, "dial", proxy.Addr(), "SO_ERROR set after connect", errnoError(errno))
	}

	if err := dispatchHandshake(conn, proxy.DeclaredType, destHost, destPort, proxy.Username, proxy.Password, opts.HandshakeTimeout); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// dispatchHandshake runs the handshake for typ over an already-connected
// conn, mirroring the declared-type switch in SPEC_FULL §4.4 step 4.
func dispatchHandshake(conn net.Conn, typ Type, destHost string, destPort int, username, password string, timeout time.Duration) error {
	switch typ {
	case HTTP, HTTPS:
		return httpConnectHandshake(conn, destHost, destPort, username, password, timeout)
	case SOCKS4:
		return socks4Handshake(conn, destHost, destPort, username, timeout)
	case SOCKS5:
		return socks5Handshake(conn, destHost, destPort, username, password, timeout)
	default:
		return perrors.New(perrors.IO, "dial", conn.RemoteAddr().String(), "no declared proxy type", nil)
	}
}
