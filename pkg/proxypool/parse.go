package proxypool

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/kofany/enemy/pkg/proxypool/perrors"
)

// schemePrefixes maps a lowercase scheme prefix to the Type it declares.
// Order doesn't matter; each prefix is tried as a literal HasPrefix match.
var schemePrefixes = []struct {
	prefix string
	typ    Type
}{
	{"http://", HTTP},
	{"https://", HTTPS},
	{"socks4://", SOCKS4},
	{"socks5://", SOCKS5},
}

// ParseLine decodes one proxy-list line into a Proxy, resolving its host via
// a synchronous DNS lookup. It implements the grammar in SPEC_FULL's Line
// Parser section:
//
//  1. HOST:PORT
//  2. HOST:PORT:USER:PASS (PASS absorbs any remaining colons)
//  3. USER:PASS@HOST:PORT
//  4. an optional scheme:// prefix on any of the above
//  5. a bracketed IPv6 host, [addr]:PORT[:USER:PASS]
//
// Blank lines and lines whose first non-whitespace character is '#' return
// (nil, nil) — rejected silently, not an error. Any other malformed line
// returns a *perrors.Error of kind Parse or Resolve.
//
// The `@` split always uses the rightmost `@`, so passwords containing `@`
// are not supported — a documented limitation, not a bug.
func ParseLine(line string, defaultType Type) (*Proxy, error) {
	if len(line) > MaxLineLength {
		line = line[:MaxLineLength]
	}
	trimmed := strings.TrimSpace(strings.TrimRight(line, "\r\n"))
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	declaredType := defaultType
	rest := trimmed
	lower := strings.ToLower(rest)
	for _, sp := range schemePrefixes {
		if strings.HasPrefix(lower, sp.prefix) {
			declaredType = sp.typ
			rest = rest[len(sp.prefix):]
			break
		}
	}

	rest = peelWrap(rest)

	var user, pass, hostport string
	if idx := strings.LastIndex(rest, "@"); idx >= 0 {
		credPart := rest[:idx]
		hostport = rest[idx+1:]
		if ci := strings.IndexByte(credPart, ':'); ci >= 0 {
			user, pass = credPart[:ci], credPart[ci+1:]
		} else {
			user = credPart
		}
	} else {
		hostport = rest
	}

	host, portStr, user2, pass2, bracketed, err := splitHostPort(hostport)
	if err != nil {
		return nil, err
	}
	if user == "" && user2 != "" {
		user, pass = user2, pass2
	}

	host = strings.TrimSpace(host)
	if host == "" {
		return nil, perrors.New(perrors.Parse, "parse", "", "empty host", nil)
	}

	port, perr := strconv.Atoi(strings.TrimSpace(portStr))
	if perr != nil || port < 1 || port > 65535 {
		return nil, perrors.New(perrors.Parse, "parse", host, "port out of range: "+portStr, nil)
	}

	if strings.TrimSpace(user) == "" {
		user, pass = "", ""
	} else if strings.TrimSpace(pass) == "" {
		pass = ""
	}

	p := &Proxy{
		Host:         host,
		Port:         port,
		Username:     user,
		Password:     pass,
		DeclaredType: declaredType,
		IsActive:     true, // pre-validation: every freshly parsed proxy is usable
	}

	network := "ip"
	if bracketed {
		network = "ip6"
	}
	ips, rerr := net.DefaultResolver.LookupIP(context.Background(), network, host)
	if rerr != nil || len(ips) == 0 {
		return nil, perrors.New(perrors.Resolve, "resolve", p.Addr(), "DNS lookup failed", rerr)
	}
	ip := ips[0]
	if v4 := ip.To4(); v4 != nil {
		addr, _ := netip.AddrFromSlice(v4)
		p.ResolvedAddr = addr
		p.IsIPv6 = false
	} else {
		addr, _ := netip.AddrFromSlice(ip.To16())
		p.ResolvedAddr = addr
		p.IsIPv6 = true
	}

	return p, nil
}

// peelWrap strips one wrapping pair of square brackets that encloses the
// entire token, but only when an '@' appears inside — e.g.
// "[user:pass@[2001:db8::1]:1080]" becomes "user:pass@[2001:db8::1]:1080".
// A plain bracketed IPv6 host like "[2001:db8::1]:1080" is left untouched,
// since its closing bracket does not sit at the end of the token.
func peelWrap(s string) string {
	if len(s) < 2 || s[0] != '[' {
		return s
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				if i != len(s)-1 {
					return s
				}
				inner := s[1 : len(s)-1]
				if strings.Contains(inner, "@") {
					return inner
				}
				return s
			}
		}
	}
	return s
}

// splitHostPort parses the no-'@' remainder of a line into host, port, and
// an optional embedded username/password (form 2's "HOST:PORT:USER:PASS" or
// form 5's bracketed "[addr]:PORT:USER:PASS"). bracketed reports whether the
// host used the "[addr]" IPv6 form.
func splitHostPort(s string) (host, port, user, pass string, bracketed bool, err error) {
	if strings.HasPrefix(s, "[") {
		closeIdx := strings.IndexByte(s, ']')
		if closeIdx < 0 {
			return "", "", "", "", false, perrors.New(perrors.Parse, "parse", "", "unbalanced '['", nil)
		}
		host = s[1:closeIdx]
		bracketed = true
		remainder := s[closeIdx+1:]
		if !strings.HasPrefix(remainder, ":") {
			return "", "", "", "", false, perrors.New(perrors.Parse, "parse", "", "missing port after bracketed host", nil)
		}
		fields := strings.SplitN(remainder[1:], ":", 3)
		port = fields[0]
		if len(fields) >= 2 {
			user = fields[1]
		}
		if len(fields) == 3 {
			pass = fields[2]
		}
		return host, port, user, pass, bracketed, nil
	}

	fields := strings.SplitN(s, ":", 4)
	if len(fields) < 2 {
		return "", "", "", "", false, perrors.New(perrors.Parse, "parse", "", "fewer than 2 colon-separated fields", nil)
	}
	host = fields[0]
	port = fields[1]
	if len(fields) >= 3 {
		user = fields[2]
	}
	if len(fields) == 4 {
		pass = fields[3]
	}
	return host, port, user, pass, false, nil
}
