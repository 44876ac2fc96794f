package proxypool

import "time"

// Validator tunables (§4.5/§6 parameter ranges).
const (
	DefaultConcurrency = 10
	MinConcurrency     = 1
	MaxConcurrency     = 128

	DefaultTimeout = 5000 * time.Millisecond
	MinTimeout     = 100 * time.Millisecond
	MaxTimeout     = 60000 * time.Millisecond

	DefaultTestHost = "irc.libera.chat"
	DefaultTestPort = 6667
)

// Dial/handshake timeouts.
const (
	DefaultConnectTimeout   = 30 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
)

// Parser limits.
const (
	MaxLineLength = 512
)

// Handshake limits.
const (
	// MaxHTTPResponseBytes bounds the byte-by-byte HTTP CONNECT response read.
	MaxHTTPResponseBytes = 2047
)
