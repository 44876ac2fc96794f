package proxypool

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/kofany/enemy/pkg/proxypool/perrors"
)

const (
	socks4Version = 0x04
	socks4Connect = 0x01

	socks4Granted       = 0x5a
	socks4Rejected      = 0x5b
	socks4IdentRequired = 0x5c
	socks4IdentFailed   = 0x5d
)

// socks4Handshake performs a SOCKS4 CONNECT handshake over an already-
// connected conn to destHost:destPort, using username as the SOCKS4 userid
// if non-empty. SOCKS4a's "0.0.0.x" hostname-extension fallback is not
// implemented: the destination is always resolved locally, and the request
// only ever carries an IPv4 address.
func socks4Handshake(conn net.Conn, destHost string, destPort int, username string, timeout time.Duration) error {
	ip4, err := resolveIPv4(destHost)
	if err != nil {
		return perrors.New(perrors.Resolve, "socks4.resolve", conn.RemoteAddr().String(), "could not resolve destination to IPv4", err)
	}

	req := make([]byte, 0, 9+len(username))
	req = append(req, socks4Version, socks4Connect)
	req = append(req, byte(destPort>>8), byte(destPort&0xff))
	req = append(req, ip4.AsSlice()...)
	if username != "" {
		req = append(req, []byte(username)...)
	}
	req = append(req, 0x00)

	if err := writeAllTimed(conn, req, timeout); err != nil {
		return err
	}

	resp := make([]byte, 8)
	if err := readExactTimed(conn, resp, timeout); err != nil {
		return err
	}

	switch resp[1] {
	case socks4Granted:
		return nil
	case socks4IdentRequired, socks4IdentFailed:
		return perrors.New(perrors.AuthFailed, "socks4.connect", conn.RemoteAddr().String(), "ident required or failed", nil)
	default:
		return perrors.NewRejected("socks4.connect", conn.RemoteAddr().String(), int(resp[1]))
	}
}

// resolveIPv4 parses host as a literal IPv4 address, or performs a
// synchronous A-record lookup otherwise.
func resolveIPv4(host string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil && addr.Is4() {
		return addr, nil
	}
	ips, err := net.DefaultResolver.LookupIP(context.Background(), "ip4", host)
	if err != nil || len(ips) == 0 {
		return netip.Addr{}, err
	}
	v4 := ips[0].To4()
	addr, ok := netip.AddrFromSlice(v4)
	if !ok {
		return netip.Addr{}, perrors.New(perrors.Resolve, "socks4.resolve", host, "resolved address is not IPv4", nil)
	}
	return addr, nil
}
