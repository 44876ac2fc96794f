// Package proxypool implements the proxy subsystem: a line parser, a
// round-robin pool, wire-level SOCKS4/SOCKS5/HTTP-CONNECT handshakes over
// non-blocking sockets, a timeout-bounded dialer, and a concurrent
// reachability/auto-detect validator.
package proxypool

import (
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// Type enumerates the proxy protocols this package understands.
type Type int

const (
	// None means no type has been declared or detected.
	None Type = iota
	HTTP
	HTTPS
	SOCKS4
	SOCKS5
)

// String returns the canonical scheme name, or "" for None.
func (t Type) String() string {
	switch t {
	case HTTP:
		return "http"
	case HTTPS:
		return "https"
	case SOCKS4:
		return "socks4"
	case SOCKS5:
		return "socks5"
	default:
		return ""
	}
}

// ParseType maps a scheme string (case-insensitive) to a Type. The ok
// result is false for anything other than the four recognized schemes.
func ParseType(scheme string) (Type, bool) {
	switch strings.ToLower(scheme) {
	case "http":
		return HTTP, true
	case "https":
		return HTTPS, true
	case "socks4":
		return SOCKS4, true
	case "socks5":
		return SOCKS5, true
	default:
		return None, false
	}
}

// Proxy is one upstream relay entry. It is created by the parser, mutated
// only by the validator (the validation fields; Dial reads a Proxy but never
// modifies it), and destroyed only through the Pool's delete path — see
// Pool.Remove.
type Proxy struct {
	Host     string
	Port     int
	Username string
	Password string

	// DeclaredType is set from either the scheme prefix or the caller's
	// fallback default at parse time.
	DeclaredType Type

	// ResolvedAddr is the result of name resolution. Exactly one address
	// family is meaningful; IsIPv6 indicates which.
	ResolvedAddr netip.Addr
	IsIPv6       bool

	// Validation state, set by the validator. The parser initializes
	// IsActive to true as the pre-validation default.
	Validated    bool
	IsActive     bool
	DetectedType Type
	LastRTT      time.Duration
	HasAuth      bool
}

// Addr returns "host:port".
func (p *Proxy) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// HasCredentials reports whether both username and password are non-empty,
// or username alone is set (SOCKS4 userid case).
func (p *Proxy) HasCredentials() bool {
	return p.Username != ""
}

// addrFromIP converts a resolved net.IP into a netip.Addr (IPv4 addresses
// in their 4-byte form). The returned bool reports whether the conversion
// succeeded; the address family is read from the Addr itself.
func addrFromIP(ip net.IP) (netip.Addr, bool) {
	if v4 := ip.To4(); v4 != nil {
		addr, ok := netip.AddrFromSlice(v4)
		return addr, ok
	}
	addr, ok := netip.AddrFromSlice(ip.To16())
	return addr, ok
}
