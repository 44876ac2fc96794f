package proxypool

import (
	"context"
	"net"
	"net/url"
	"strconv"

	"golang.org/x/net/proxy"
)

// xnetDialer adapts a Proxy to golang.org/x/net/proxy's Dialer/ContextDialer
// interfaces, the same composition point enetx-surf's pkg/socks4 registers
// itself under. We do not delegate the handshake bytes themselves to
// x/net/proxy — SPEC_FULL's handshake fixtures require bit-exact wire
// formats x/net/proxy's own SOCKS5 client doesn't expose for testing — but
// any caller holding only a *url.URL can still obtain one of our dialers
// via proxy.FromURL, exercising the interface for real.
type xnetDialer struct {
	declared Type
	host     string
	port     int
	username string
	password string
	opts     DialOptions
}

var (
	_ proxy.Dialer        = (*xnetDialer)(nil)
	_ proxy.ContextDialer = (*xnetDialer)(nil)
)

func init() {
	proxy.RegisterDialerType("socks5", newXnetDialer(SOCKS5))
	proxy.RegisterDialerType("socks4", newXnetDialer(SOCKS4))
	proxy.RegisterDialerType("http", newXnetDialer(HTTP))
}

func newXnetDialer(declared Type) func(*url.URL, proxy.Dialer) (proxy.Dialer, error) {
	return func(u *url.URL, _ proxy.Dialer) (proxy.Dialer, error) {
		host, portStr, err := net.SplitHostPort(u.Host)
		if err != nil {
			return nil, err
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, err
		}
		var username, password string
		if u.User != nil {
			username = u.User.Username()
			password, _ = u.User.Password()
		}
		return &xnetDialer{
			declared: declared,
			host:     host,
			port:     port,
			username: username,
			password: password,
			opts:     DefaultDialOptions(),
		}, nil
	}
}

// Dial implements proxy.Dialer.
func (d *xnetDialer) Dial(network, addr string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, addr)
}

// DialContext implements proxy.ContextDialer, tunneling a CONNECT to addr
// through the proxy this dialer was registered for.
func (d *xnetDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	destHost, destPortStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	destPort, err := strconv.Atoi(destPortStr)
	if err != nil {
		return nil, err
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", d.host)
	if err != nil || len(ips) == 0 {
		return nil, err
	}
	resolved, ok := addrFromIP(ips[0])
	if !ok {
		return nil, &net.AddrError{Err: "could not convert resolved IP", Addr: d.host}
	}

	px := &Proxy{
		Host:         d.host,
		Port:         d.port,
		Username:     d.username,
		Password:     d.password,
		DeclaredType: d.declared,
		ResolvedAddr: resolved,
	}
	return Dial(ctx, px, destHost, destPort, d.opts)
}
